package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/metrics"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/repo/persistent"
)

const (
	waitlistCloseAfter = 3 * time.Second

	msgLeadRequired   = "Nome e email são obrigatórios."
	msgLeadEmail      = "Por favor, insira um email válido."
	msgLeadRegistered = "Este email já está cadastrado na lista de espera."
	msgLeadRetry      = "Ocorreu um erro. Por favor, tente novamente."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var csvHeader = []string{"Nome", "Email", "Telefone", "Empresa", "Cargo", "Data"}

type LeadUseCase interface {
	SubmitWaitlist(ctx context.Context, input entity.LeadInput) (*entity.WaitlistResult, error)
	ListLeads(ctx context.Context, session *entity.Session, query string) ([]*entity.Lead, error)
	ExportCSV(w io.Writer, leads []*entity.Lead) error
}

type leadUseCase struct {
	leadRepo persistent.LeadRepository
	notifier Notifier
	logger   *logger.Logger
}

func NewLeadUseCase(leadRepo persistent.LeadRepository, notifier Notifier, logger *logger.Logger) LeadUseCase {
	return &leadUseCase{
		leadRepo: leadRepo,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *leadUseCase) SubmitWaitlist(ctx context.Context, input entity.LeadInput) (*entity.WaitlistResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, invalid(ErrLeadInvalid, "email", msgLeadRequired)
	}
	if !emailPattern.MatchString(email) {
		return nil, invalid(ErrLeadInvalid, "email", msgLeadEmail)
	}

	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = entity.SourceCourseWaitlist
	}
	lead := &entity.Lead{
		Name:     name,
		Email:    email,
		Phone:    optional(input.Phone),
		Company:  optional(input.Company),
		Position: optional(input.Position),
		Source:   source,
	}

	if err := uc.leadRepo.Create(ctx, lead); err != nil {
		if errors.Is(err, persistent.ErrConflict) {
			metrics.LeadsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
			return nil, invalid(ErrAlreadyRegistered, "email", msgLeadRegistered)
		}
		metrics.LeadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		uc.logger.Error("Failed to store lead: %v", err)
		return nil, invalid(fmt.Errorf("%w: %v", ErrLeadRetry, err), "", msgLeadRetry)
	}
	metrics.LeadsTotal.WithLabelValues(metrics.OutcomeCreated).Inc()

	notifyBestEffort(ctx, uc.notifier, uc.logger, Notification{
		Type:        "waitlist_lead",
		Destination: DestinationWaitlist,
		Subject:     "Novo cadastro na lista de espera: " + lead.Name,
		Message:     leadMessage(lead),
		ReplyTo:     lead.Email,
	})

	return &entity.WaitlistResult{Lead: lead, CloseAfter: waitlistCloseAfter}, nil
}

// ListLeads returns leads newest first, keeping those whose name, email or company contains query.
func (uc *leadUseCase) ListLeads(ctx context.Context, session *entity.Session, query string) ([]*entity.Lead, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	leads, err := uc.leadRepo.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list leads: %v", err)
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return leads, nil
	}
	out := make([]*entity.Lead, 0, len(leads))
	for _, lead := range leads {
		if strings.Contains(strings.ToLower(lead.Name), q) ||
			strings.Contains(strings.ToLower(lead.Email), q) ||
			strings.Contains(strings.ToLower(deref(lead.Company)), q) {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (uc *leadUseCase) ExportCSV(w io.Writer, leads []*entity.Lead) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, lead := range leads {
		record := []string{
			lead.Name,
			lead.Email,
			deref(lead.Phone),
			deref(lead.Company),
			deref(lead.Position),
			lead.CreatedAt.UTC().Format("02/01/2006"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func leadMessage(lead *entity.Lead) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Nome: %s\nEmail: %s\n", lead.Name, lead.Email)
	if lead.Phone != nil {
		fmt.Fprintf(&sb, "Telefone: %s\n", *lead.Phone)
	}
	if lead.Company != nil {
		fmt.Fprintf(&sb, "Empresa: %s\n", *lead.Company)
	}
	if lead.Position != nil {
		fmt.Fprintf(&sb, "Cargo: %s\n", *lead.Position)
	}
	fmt.Fprintf(&sb, "Origem: %s\n", lead.Source)
	return sb.String()
}
