package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/mailer"
	"veltta-hub/pkg/metrics"
	"veltta-hub/pkg/queue"
)

const (
	sendTimeout    = 10 * time.Second
	defaultSubject = "Nova notificação do Veltta Hub"

	StatusDropped = "dropped"
)

var ErrUnknownDestination = errors.New("unknown notification destination")

// RelayUseCase turns queued notification tasks into e-mails.
type RelayUseCase interface {
	// HandleTask returns an error only when the task should be redelivered.
	HandleTask(ctx context.Context, task queue.NotificationTask) error
	Resolve(destination string) (string, error)
}

type relayUseCase struct {
	sender       mailer.Sender
	destinations map[string]string
	logger       *logger.Logger
}

func NewRelayUseCase(sender mailer.Sender, destinations map[string]string, logger *logger.Logger) RelayUseCase {
	return &relayUseCase{
		sender:       sender,
		destinations: destinations,
		logger:       logger,
	}
}

// Resolve maps a destination tag to an address. Literal addresses pass through.
func (uc *relayUseCase) Resolve(destination string) (string, error) {
	destination = strings.TrimSpace(destination)
	if address, ok := uc.destinations[destination]; ok {
		return address, nil
	}
	if strings.Contains(destination, "@") {
		return destination, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDestination, destination)
}

func (uc *relayUseCase) HandleTask(ctx context.Context, task queue.NotificationTask) error {
	address, err := uc.Resolve(task.Destination)
	if err != nil {
		uc.logger.Error("[NOTIFICATION] Dropping task type=%s: %v", task.Type, err)
		metrics.NotificationsTotal.WithLabelValues("deliver", StatusDropped).Inc()
		return nil
	}

	subject := task.Subject
	if subject == "" {
		subject = defaultSubject
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	err = uc.sender.Send(ctx, address, subject, body(task))
	if errors.Is(err, mailer.ErrUnavailable) {
		uc.logger.Warn("[NOTIFICATION] Mail relay unavailable, dropping task type=%s", task.Type)
		metrics.NotificationsTotal.WithLabelValues("deliver", StatusDropped).Inc()
		return nil
	}
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("deliver", metrics.StatusError).Inc()
		return fmt.Errorf("failed to deliver %s to %s: %w", task.Type, task.Destination, err)
	}

	metrics.NotificationsTotal.WithLabelValues("deliver", metrics.StatusOK).Inc()
	uc.logger.Info("[NOTIFICATION] Delivered type=%s destination=%s", task.Type, task.Destination)
	return nil
}

func body(task queue.NotificationTask) string {
	if task.ReplyTo == "" {
		return task.Message
	}
	return task.Message + "\n\nResponder para: " + task.ReplyTo
}

// LogSender writes messages to the log. Used when no SendGrid key is configured.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("[MAILER] to=%s subject=%q body=%q", to, subject, body)
	return nil
}
