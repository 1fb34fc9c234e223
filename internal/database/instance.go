package database

import (
	"github.com/diegoclair/slack-wfh-bot/internal/domain/contract"
)

// instance implements DataManager interface
type instance struct {
	db          *DB
	requestRepo contract.RequestRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	instance := &instance{
		db: db,
	}
	instance.repoInstances()
	return instance
}

// repoInstances initializes all repositories
func (i *instance) repoInstances() {
	i.requestRepo = newRequestRepo(i.db.conn)
}

// Request returns the request repository
func (i *instance) Request() contract.RequestRepo {
	return i.requestRepo
}
