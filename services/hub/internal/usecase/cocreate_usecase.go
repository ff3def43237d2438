package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/metrics"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/repo/persistent"
)

type CoCreateUseCase interface {
	// Board returns the engine state for one visitor.
	Board(voterID string, isAdmin bool) Board
}

// Board holds the public and pending lists the visitor sees, the ids they have voted for
// and the moderation operations in flight.
type Board interface {
	LoadSuggestions(ctx context.Context)
	LoadVotedSuggestions(ctx context.Context)
	Snapshot() entity.BoardSnapshot

	Vote(ctx context.Context, suggestionID string) (entity.VoteResult, error)
	HasVoted(suggestionID string) bool
	VoteState(suggestionID string) entity.VoteState

	SubmitSuggestion(ctx context.Context, input entity.SuggestionInput) (*entity.Suggestion, error)

	ApproveSuggestion(ctx context.Context, suggestionID string) (*entity.Suggestion, error)
	RejectSuggestion(ctx context.Context, suggestionID string) error
	CreateSuggestion(ctx context.Context, input entity.SuggestionInput) (*entity.Suggestion, error)
	EditSuggestion(ctx context.Context, suggestionID string, input entity.SuggestionInput) (*entity.Suggestion, error)
	DeleteSuggestion(ctx context.Context, suggestionID string) error
	IsProcessing(suggestionID string) bool
}

type coCreateUseCase struct {
	suggestionRepo persistent.SuggestionRepository
	voteRepo       persistent.VoteRepository
	notifier       Notifier
	logger         *logger.Logger
}

func NewCoCreateUseCase(
	suggestionRepo persistent.SuggestionRepository,
	voteRepo persistent.VoteRepository,
	notifier Notifier,
	logger *logger.Logger,
) CoCreateUseCase {
	return &coCreateUseCase{
		suggestionRepo: suggestionRepo,
		voteRepo:       voteRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *coCreateUseCase) Board(voterID string, isAdmin bool) Board {
	return &board{
		uc:         uc,
		voterID:    voterID,
		isAdmin:    isAdmin,
		voted:      make(map[string]bool),
		processing: make(map[string]bool),
		states:     make(map[string]entity.VoteState),
	}
}

type board struct {
	uc      *coCreateUseCase
	voterID string
	isAdmin bool

	// mu is never held across a repository call.
	mu          sync.Mutex
	suggestions []*entity.Suggestion
	pending     []*entity.Suggestion
	voted       map[string]bool
	processing  map[string]bool
	states      map[string]entity.VoteState
}

func (b *board) LoadSuggestions(ctx context.Context) {
	public, err := b.uc.suggestionRepo.ListByStatus(ctx, entity.PublicStatuses)
	if err != nil {
		b.uc.logger.Error("Failed to load suggestions: %v", err)
		return
	}

	var pending []*entity.Suggestion
	if b.isAdmin {
		pending, err = b.uc.suggestionRepo.ListPending(ctx)
		if err != nil {
			b.uc.logger.Error("Failed to load pending suggestions: %v", err)
			return
		}
	}

	b.mu.Lock()
	b.suggestions = public
	if b.isAdmin {
		b.pending = pending
	}
	b.mu.Unlock()
}

func (b *board) LoadVotedSuggestions(ctx context.Context) {
	ids, err := b.uc.voteRepo.ListSuggestionIDs(ctx, b.voterID)
	if err != nil {
		b.uc.logger.Error("Failed to load votes for voter %s: %v", b.voterID, err)
		return
	}

	b.mu.Lock()
	for _, id := range ids {
		b.voted[id] = true
	}
	b.mu.Unlock()
}

func (b *board) Snapshot() entity.BoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := entity.BoardSnapshot{
		Suggestions: cloneSuggestions(b.suggestions),
		VotedIDs:    make([]string, 0, len(b.voted)),
	}
	if b.isAdmin {
		snapshot.Pending = cloneSuggestions(b.pending)
	}
	for _, s := range b.suggestions {
		if b.voted[s.ID] {
			snapshot.VotedIDs = append(snapshot.VotedIDs, s.ID)
		}
	}
	return snapshot
}

func (b *board) HasVoted(suggestionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.voted[suggestionID]
}

func (b *board) VoteState(suggestionID string) entity.VoteState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if state, ok := b.states[suggestionID]; ok {
		return state
	}
	return entity.VoteIdle
}

func (b *board) IsProcessing(suggestionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.processing[suggestionID]
}

// Vote records one vote for the visitor. The local counter moves first, the vote log insert
// decides whether it sticks, and the stored counter follows the vote log.
func (b *board) Vote(ctx context.Context, suggestionID string) (entity.VoteResult, error) {
	b.mu.Lock()
	if b.voted[suggestionID] {
		b.mu.Unlock()
		return b.ignoreVote(suggestionID), nil
	}
	item := findSuggestion(b.suggestions, suggestionID)
	b.mu.Unlock()

	if item == nil {
		var err error
		if item, err = b.fetchPublic(ctx, suggestionID); err != nil {
			return entity.VoteResult{SuggestionID: suggestionID, State: entity.VoteIdle}, err
		}
	}

	b.mu.Lock()
	if b.voted[suggestionID] {
		b.mu.Unlock()
		return b.ignoreVote(suggestionID), nil
	}
	b.voted[suggestionID] = true
	item.Votes++
	b.states[suggestionID] = entity.VotePending
	b.mu.Unlock()

	err := b.uc.voteRepo.Create(ctx, suggestionID, b.voterID)
	switch {
	case errors.Is(err, persistent.ErrConflict):
		// The vote happened before; the optimistic state stands.
		b.mu.Lock()
		b.states[suggestionID] = entity.VoteCommitted
		result := b.resultLocked(suggestionID)
		b.mu.Unlock()
		result.AlreadyVoted = true
		metrics.VotesTotal.WithLabelValues(metrics.OutcomeAlreadyVoted).Inc()
		return result, nil

	case err != nil:
		b.uc.logger.Warn("Vote for suggestion %s rolled back: %v", suggestionID, err)
		b.mu.Lock()
		delete(b.voted, suggestionID)
		if item.Votes > 0 {
			item.Votes--
		}
		b.states[suggestionID] = entity.VoteRolledBack
		result := b.resultLocked(suggestionID)
		b.mu.Unlock()
		metrics.VotesTotal.WithLabelValues(metrics.OutcomeRolledBack).Inc()
		return result, nil
	}

	outcome := metrics.OutcomeCommitted
	if err := b.uc.suggestionRepo.IncrementVotes(ctx, suggestionID); err != nil {
		b.uc.logger.Warn("Failed to increment votes for suggestion %s, reconciling: %v", suggestionID, err)
		b.reconcile(ctx, suggestionID)
		outcome = metrics.OutcomeReconciled
	}

	b.mu.Lock()
	b.states[suggestionID] = entity.VoteCommitted
	result := b.resultLocked(suggestionID)
	b.mu.Unlock()
	metrics.VotesTotal.WithLabelValues(outcome).Inc()
	return result, nil
}

func (b *board) ignoreVote(suggestionID string) entity.VoteResult {
	b.mu.Lock()
	result := b.resultLocked(suggestionID)
	b.mu.Unlock()
	result.AlreadyVoted = true
	metrics.VotesTotal.WithLabelValues(metrics.OutcomeIgnored).Inc()
	return result
}

// fetchPublic reads a suggestion missing from the loaded board and keeps it when it is public.
func (b *board) fetchPublic(ctx context.Context, suggestionID string) (*entity.Suggestion, error) {
	stored, err := b.uc.suggestionRepo.GetByID(ctx, suggestionID)
	if err != nil {
		return nil, b.lookupError("vote", suggestionID, err)
	}
	if !isPublic(stored.Status) {
		return nil, ErrSuggestionNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if item := findSuggestion(b.suggestions, suggestionID); item != nil {
		return item, nil
	}
	b.suggestions = append(b.suggestions, stored)
	return stored, nil
}

func isPublic(status entity.SuggestionStatus) bool {
	for _, s := range entity.PublicStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// reconcile sets the counter of a single suggestion to the number of rows in its vote log.
func (b *board) reconcile(ctx context.Context, suggestionID string) {
	count, err := b.uc.voteRepo.CountBySuggestion(ctx, suggestionID)
	if err != nil {
		b.uc.logger.Error("Failed to count votes for suggestion %s: %v", suggestionID, err)
		return
	}

	b.mu.Lock()
	if item := findSuggestion(b.suggestions, suggestionID); item != nil {
		item.Votes = count
	}
	b.mu.Unlock()

	if err := b.uc.suggestionRepo.SetVotes(ctx, suggestionID, count); err != nil {
		b.uc.logger.Error("Failed to repair vote counter for suggestion %s: %v", suggestionID, err)
	}
}

func (b *board) resultLocked(suggestionID string) entity.VoteResult {
	result := entity.VoteResult{
		SuggestionID: suggestionID,
		State:        entity.VoteIdle,
		Voted:        b.voted[suggestionID],
	}
	if state, ok := b.states[suggestionID]; ok {
		result.State = state
	}
	if item := findSuggestion(b.suggestions, suggestionID); item != nil {
		result.Votes = item.Votes
	}
	return result
}

func (b *board) SubmitSuggestion(ctx context.Context, input entity.SuggestionInput) (*entity.Suggestion, error) {
	suggestion, err := buildSuggestion(input)
	if err != nil {
		return nil, err
	}
	suggestion.Status = entity.StatusPending
	suggestion.Votes = 0

	if err := b.uc.suggestionRepo.Create(ctx, suggestion); err != nil {
		b.uc.logger.Error("Failed to submit suggestion: %v", err)
		return nil, fmt.Errorf("failed to submit suggestion: %w", err)
	}
	metrics.SuggestionsSubmittedTotal.Inc()

	notifyBestEffort(ctx, b.uc.notifier, b.uc.logger, Notification{
		Type:        "cocreate_suggestion",
		Destination: DestinationCoCreate,
		Subject:     "Nova sugestão Co-Create: " + suggestion.Name,
		Message:     suggestionMessage(suggestion),
		ReplyTo:     deref(suggestion.Email),
	})

	b.LoadSuggestions(ctx)
	return suggestion, nil
}

func (b *board) ApproveSuggestion(ctx context.Context, suggestionID string) (*entity.Suggestion, error) {
	if !b.isAdmin {
		return nil, ErrForbidden
	}
	b.begin(suggestionID)
	defer b.end(suggestionID)

	b.mu.Lock()
	item := findSuggestion(b.pending, suggestionID)
	b.mu.Unlock()

	if item == nil {
		stored, err := b.uc.suggestionRepo.GetByID(ctx, suggestionID)
		if err != nil {
			return nil, b.lookupError("approve", suggestionID, err)
		}
		item = stored
	}
	if item.Status != entity.StatusPending {
		return nil, ErrNotPending
	}

	if err := b.uc.suggestionRepo.UpdateStatus(ctx, suggestionID, entity.StatusVoting); err != nil {
		metrics.ModerationActionsTotal.WithLabelValues("approve", metrics.StatusError).Inc()
		return nil, b.lookupError("approve", suggestionID, err)
	}

	approved := *item
	approved.Status = entity.StatusVoting

	b.mu.Lock()
	b.pending = removeSuggestion(b.pending, suggestionID)
	if findSuggestion(b.suggestions, suggestionID) == nil {
		b.suggestions = append(b.suggestions, &approved)
	}
	b.mu.Unlock()

	metrics.ModerationActionsTotal.WithLabelValues("approve", metrics.StatusOK).Inc()
	b.uc.logger.Info("Suggestion %s approved for voting", suggestionID)
	out := approved
	return &out, nil
}

func (b *board) RejectSuggestion(ctx context.Context, suggestionID string) error {
	if !b.isAdmin {
		return ErrForbidden
	}
	b.begin(suggestionID)
	defer b.end(suggestionID)

	stored, err := b.uc.suggestionRepo.GetByID(ctx, suggestionID)
	if err != nil {
		return b.lookupError("reject", suggestionID, err)
	}
	if stored.Status != entity.StatusPending {
		return ErrNotPending
	}

	if err := b.uc.suggestionRepo.Delete(ctx, suggestionID); err != nil {
		metrics.ModerationActionsTotal.WithLabelValues("reject", metrics.StatusError).Inc()
		return b.lookupError("reject", suggestionID, err)
	}

	b.mu.Lock()
	b.pending = removeSuggestion(b.pending, suggestionID)
	b.mu.Unlock()

	metrics.ModerationActionsTotal.WithLabelValues("reject", metrics.StatusOK).Inc()
	b.uc.logger.Info("Suggestion %s rejected", suggestionID)
	return nil
}

func (b *board) CreateSuggestion(ctx context.Context, input entity.SuggestionInput) (*entity.Suggestion, error) {
	if !b.isAdmin {
		return nil, ErrForbidden
	}
	suggestion, err := buildSuggestion(input)
	if err != nil {
		return nil, err
	}
	if err := applyAdminFields(suggestion, input, entity.StatusVoting); err != nil {
		return nil, err
	}

	if err := b.uc.suggestionRepo.Create(ctx, suggestion); err != nil {
		b.uc.logger.Error("Failed to create suggestion: %v", err)
		return nil, fmt.Errorf("failed to create suggestion: %w", err)
	}
	metrics.ModerationActionsTotal.WithLabelValues("create", metrics.StatusOK).Inc()

	b.LoadSuggestions(ctx)
	return suggestion, nil
}

func (b *board) EditSuggestion(ctx context.Context, suggestionID string, input entity.SuggestionInput) (*entity.Suggestion, error) {
	if !b.isAdmin {
		return nil, ErrForbidden
	}
	b.begin(suggestionID)
	defer b.end(suggestionID)

	stored, err := b.uc.suggestionRepo.GetByID(ctx, suggestionID)
	if err != nil {
		return nil, b.lookupError("edit", suggestionID, err)
	}

	edited, err := buildSuggestion(input)
	if err != nil {
		return nil, err
	}
	edited.ID = stored.ID
	edited.Votes = stored.Votes
	edited.CreatedAt = stored.CreatedAt
	if err := applyAdminFields(edited, input, stored.Status); err != nil {
		return nil, err
	}

	if err := b.uc.suggestionRepo.Update(ctx, edited); err != nil {
		metrics.ModerationActionsTotal.WithLabelValues("edit", metrics.StatusError).Inc()
		return nil, b.lookupError("edit", suggestionID, err)
	}
	metrics.ModerationActionsTotal.WithLabelValues("edit", metrics.StatusOK).Inc()

	b.LoadSuggestions(ctx)
	return edited, nil
}

func (b *board) DeleteSuggestion(ctx context.Context, suggestionID string) error {
	if !b.isAdmin {
		return ErrForbidden
	}
	b.begin(suggestionID)
	defer b.end(suggestionID)

	if err := b.uc.suggestionRepo.Delete(ctx, suggestionID); err != nil {
		metrics.ModerationActionsTotal.WithLabelValues("delete", metrics.StatusError).Inc()
		return b.lookupError("delete", suggestionID, err)
	}

	b.mu.Lock()
	b.suggestions = removeSuggestion(b.suggestions, suggestionID)
	b.pending = removeSuggestion(b.pending, suggestionID)
	delete(b.voted, suggestionID)
	delete(b.states, suggestionID)
	b.mu.Unlock()

	metrics.ModerationActionsTotal.WithLabelValues("delete", metrics.StatusOK).Inc()
	return nil
}

func (b *board) begin(suggestionID string) {
	b.mu.Lock()
	b.processing[suggestionID] = true
	b.mu.Unlock()
}

func (b *board) end(suggestionID string) {
	b.mu.Lock()
	delete(b.processing, suggestionID)
	b.mu.Unlock()
}

func (b *board) lookupError(action, suggestionID string, err error) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return ErrSuggestionNotFound
	}
	b.uc.logger.Error("Failed to %s suggestion %s: %v", action, suggestionID, err)
	return fmt.Errorf("failed to %s suggestion: %w", action, err)
}

func buildSuggestion(input entity.SuggestionInput) (*entity.Suggestion, error) {
	name := strings.TrimSpace(input.Name)
	text := strings.TrimSpace(input.Suggestion)
	if name == "" {
		return nil, invalid(ErrSuggestionInvalid, "name", "Nome é obrigatório.")
	}
	if text == "" {
		return nil, invalid(ErrSuggestionInvalid, "suggestion", "Sugestão é obrigatória.")
	}
	return &entity.Suggestion{
		Name:           name,
		Position:       optional(input.Position),
		CompanySegment: optional(input.CompanySegment),
		Email:          optional(input.Email),
		Suggestion:     text,
	}, nil
}

func applyAdminFields(suggestion *entity.Suggestion, input entity.SuggestionInput, defaultStatus entity.SuggestionStatus) error {
	if input.Votes != nil {
		if *input.Votes < 0 {
			return invalid(ErrSuggestionInvalid, "votes", "Votos não podem ser negativos.")
		}
		suggestion.Votes = *input.Votes
	}
	suggestion.Status = defaultStatus
	if input.Status != "" {
		if !input.Status.Valid() {
			return invalid(ErrSuggestionInvalid, "status", "Status inválido.")
		}
		suggestion.Status = input.Status
	}
	return nil
}

func suggestionMessage(s *entity.Suggestion) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Nome: %s\n", s.Name)
	if s.Position != nil {
		fmt.Fprintf(&sb, "Cargo: %s\n", *s.Position)
	}
	if s.CompanySegment != nil {
		fmt.Fprintf(&sb, "Segmento: %s\n", *s.CompanySegment)
	}
	if s.Email != nil {
		fmt.Fprintf(&sb, "Email: %s\n", *s.Email)
	}
	fmt.Fprintf(&sb, "\n%s\n", s.Suggestion)
	return sb.String()
}

func findSuggestion(list []*entity.Suggestion, id string) *entity.Suggestion {
	for _, s := range list {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func removeSuggestion(list []*entity.Suggestion, id string) []*entity.Suggestion {
	out := list[:0]
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func cloneSuggestions(list []*entity.Suggestion) []*entity.Suggestion {
	out := make([]*entity.Suggestion, 0, len(list))
	for _, s := range list {
		c := *s
		out = append(out, &c)
	}
	return out
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
