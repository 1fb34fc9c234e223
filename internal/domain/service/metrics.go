package service

import "github.com/prometheus/client_golang/prometheus"

var (
	// reactionsTotal counts inbound reactions by workflow route and result.
	reactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wfhbot_reactions_total",
			Help: "Reactions handled by the request workflow.",
		},
		[]string{"route", "result"},
	)

	weeklyPromptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wfhbot_weekly_prompts_total",
			Help: "Weekly prompt runs by result (posted, failed, missed).",
		},
		[]string{"result"},
	)

	requestsResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wfhbot_requests_resolved_total",
			Help: "Work from home requests resolved by final status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(reactionsTotal, weeklyPromptsTotal, requestsResolvedTotal)
}

const (
	routeSelection = "selection"
	routeReview    = "review"
	routeIgnored   = "ignored"
)
