package usecase

import (
	"context"
	"time"

	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/metrics"
	"veltta-hub/pkg/queue"
)

const (
	DestinationCoCreate = "cocreate"
	DestinationWaitlist = "waitlist"

	notifyTimeout = 5 * time.Second
)

type Notification struct {
	Type        string
	Destination string
	Subject     string
	Message     string
	ReplyTo     string
	Priority    int
}

// Notifier relays a free-form message to a destination tag.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type queueNotifier struct {
	client *queue.Client
}

func NewQueueNotifier(client *queue.Client) Notifier {
	return &queueNotifier{client: client}
}

func (n *queueNotifier) Notify(ctx context.Context, notification Notification) error {
	return n.client.PublishNotificationTask(ctx, queue.NotificationTask{
		Type:        notification.Type,
		Destination: notification.Destination,
		Subject:     notification.Subject,
		Message:     notification.Message,
		ReplyTo:     notification.ReplyTo,
		Priority:    notification.Priority,
	})
}

type logNotifier struct {
	log *logger.Logger
}

// NewLogNotifier is used when no broker is reachable.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(_ context.Context, notification Notification) error {
	n.log.Info("[NOTIFICATION] %s -> %s: %s", notification.Type, notification.Destination, notification.Subject)
	return nil
}

// notifyBestEffort never fails the caller.
func notifyBestEffort(ctx context.Context, notifier Notifier, log *logger.Logger, n Notification) {
	if notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := notifier.Notify(ctx, n); err != nil {
		metrics.NotificationsTotal.WithLabelValues("publish", metrics.StatusError).Inc()
		log.Warn("[NOTIFICATION] Failed to relay %s notification: %v", n.Type, err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues("publish", metrics.StatusOK).Inc()
}
