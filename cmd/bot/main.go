package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/config"
	"github.com/diegoclair/slack-wfh-bot/internal/database"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/service"
	"github.com/diegoclair/slack-wfh-bot/internal/handlers"
	"github.com/diegoclair/slack-wfh-bot/internal/logger"
	"github.com/diegoclair/slack-wfh-bot/internal/slackgw"
	"github.com/diegoclair/slack-wfh-bot/migrator/sqlite"
	"github.com/slack-go/slack"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.LogLevel, cfg.Environment)
	mainLog := logger.Component(appLog, "main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		mainLog.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	mainLog.Info("Running migrations...")
	if err := sqlite.Migrate(db.DB()); err != nil {
		mainLog.Fatalf("Failed to run migrations: %v", err)
	}
	mainLog.Info("Migrations completed successfully")

	dm := database.NewInstance(db)

	var slackOptions []slack.Option
	if cfg.SlackAppToken != "" {
		slackOptions = append(slackOptions, slack.OptionAppLevelToken(cfg.SlackAppToken))
	}
	slackAPI := slack.New(cfg.SlackBotToken, slackOptions...)
	slackClient := slackgw.NewRateLimited(slackAPI, cfg.RateLimitPerSec, int(cfg.RateLimitPerSec))

	svc, err := service.NewInstance(ctx, cfg, dm, slackClient, appLog)
	if err != nil {
		mainLog.Fatalf("Failed to initialize services: %v", err)
	}

	svc.Scheduler.Start()
	mainLog.WithField("next_run", svc.Scheduler.NextRun()).Info("Weekly prompt scheduled")

	handler := handlers.New(svc.Workflow, dm, svc.Scheduler, cfg.SlackSigningSecret, logger.Component(appLog, "handlers"))

	socketDone := make(chan struct{})
	if cfg.SlackAppToken != "" {
		listener := slackgw.NewSocketListener(slackAPI, handler, logger.Component(appLog, "socketmode"))
		go func() {
			defer close(socketDone)
			if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				mainLog.WithError(err).Error("Socket Mode stopped")
				stop()
			}
		}()
	} else {
		close(socketDone)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		mainLog.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLog.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	mainLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := svc.Scheduler.Stop(shutdownCtx); err != nil {
		mainLog.WithError(err).Warn("Weekly prompt did not finish before shutdown")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLog.WithError(err).Warn("HTTP server did not shut down cleanly")
	}
	<-serverDone
	<-socketDone
	if err := handler.Wait(shutdownCtx); err != nil {
		mainLog.WithError(err).Warn("Dropped in-flight events")
	}

	mainLog.Info("Shut down gracefully")
}
