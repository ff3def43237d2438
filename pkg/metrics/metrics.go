package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veltta_cocreate_votes_total",
		Help: "Vote attempts by final outcome",
	}, []string{"outcome"})

	SuggestionsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veltta_cocreate_suggestions_submitted_total",
		Help: "Suggestions stored as pending",
	})

	ModerationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veltta_cocreate_moderation_actions_total",
		Help: "Moderation actions by action and status",
	}, []string{"action", "status"})

	LeadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veltta_leads_total",
		Help: "Waitlist submissions by outcome",
	}, []string{"outcome"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veltta_notifications_total",
		Help: "Notifications by stage and status",
	}, []string{"stage", "status"})
)

const (
	OutcomeCommitted    = "committed"
	OutcomeRolledBack   = "rolled_back"
	OutcomeAlreadyVoted = "already_voted"
	OutcomeReconciled   = "reconciled"
	OutcomeIgnored      = "ignored"
	OutcomeCreated      = "created"
	OutcomeDuplicate    = "duplicate"
	OutcomeFailed       = "failed"
	StatusOK            = "ok"
	StatusError         = "error"
)
