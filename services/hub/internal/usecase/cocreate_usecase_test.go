package usecase

import (
	"context"
	"errors"
	"testing"

	"veltta-hub/pkg/logger"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n Notification) error {
	args := m.Called(n.Destination, n.Type)
	return args.Error(0)
}

// flakyVotes fails Create with err while keeping the rest of the vote log intact.
type flakyVotes struct {
	persistent.VoteRepository
	createErr error
}

func (f *flakyVotes) Create(ctx context.Context, suggestionID, voterIdentifier string) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.VoteRepository.Create(ctx, suggestionID, voterIdentifier)
}

type flakySuggestions struct {
	persistent.SuggestionRepository
	incrementErr    error
	listErr         error
	updateStatusErr error
	deleteErr       error
}

func (f *flakySuggestions) IncrementVotes(ctx context.Context, id string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	return f.SuggestionRepository.IncrementVotes(ctx, id)
}

func (f *flakySuggestions) ListByStatus(ctx context.Context, statuses []entity.SuggestionStatus) ([]*entity.Suggestion, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.SuggestionRepository.ListByStatus(ctx, statuses)
}

func (f *flakySuggestions) UpdateStatus(ctx context.Context, id string, status entity.SuggestionStatus) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	return f.SuggestionRepository.UpdateStatus(ctx, id, status)
}

func (f *flakySuggestions) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.SuggestionRepository.Delete(ctx, id)
}

// blockingSuggestions holds UpdateStatus until release is closed.
type blockingSuggestions struct {
	persistent.SuggestionRepository
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSuggestions) UpdateStatus(ctx context.Context, id string, status entity.SuggestionStatus) error {
	close(b.entered)
	<-b.release
	return b.SuggestionRepository.UpdateStatus(ctx, id, status)
}

func newTestCoCreate(t *testing.T) (*persistent.Store, CoCreateUseCase) {
	t.Helper()
	store := persistent.NewMemoryStore()
	return store, NewCoCreateUseCase(store.Suggestions, store.Votes, NewLogNotifier(logger.New()), logger.New())
}

func seedSuggestion(t *testing.T, store *persistent.Store, name string, status entity.SuggestionStatus, votes int) *entity.Suggestion {
	t.Helper()
	s := &entity.Suggestion{Name: name, Suggestion: name + " idea", Status: status, Votes: votes}
	require.NoError(t, store.Suggestions.Create(context.Background(), s))
	return s
}

func TestLoadSuggestions_PublicOrderAndPendingForAdmins(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	low := seedSuggestion(t, store, "low", entity.StatusVoting, 1)
	high := seedSuggestion(t, store, "high", entity.StatusCompleted, 5)
	seedSuggestion(t, store, "waiting", entity.StatusPending, 0)

	visitor := uc.Board("voter_a", false)
	visitor.LoadSuggestions(ctx)
	snap := visitor.Snapshot()
	require.Len(t, snap.Suggestions, 2)
	assert.Equal(t, high.ID, snap.Suggestions[0].ID)
	assert.Equal(t, low.ID, snap.Suggestions[1].ID)
	assert.Empty(t, snap.Pending)

	admin := uc.Board("voter_b", true)
	admin.LoadSuggestions(ctx)
	assert.Len(t, admin.Snapshot().Pending, 1)
}

func TestVote_IdempotentPerVoter(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	s := seedSuggestion(t, store, "scorecard", entity.StatusVoting, 0)

	b := uc.Board("voter_abc", false)
	b.LoadSuggestions(ctx)

	first, err := b.Vote(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoteCommitted, first.State)
	assert.Equal(t, 1, first.Votes)

	second, err := b.Vote(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyVoted)
	assert.Equal(t, 1, second.Votes)

	count, err := store.Votes.CountBySuggestion(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := store.Suggestions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Votes)
}

func TestVote_FreshBoardSeesEarlierVote(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	s := seedSuggestion(t, store, "scorecard", entity.StatusVoting, 0)

	b := uc.Board("voter_abc", false)
	b.LoadSuggestions(ctx)
	_, err := b.Vote(ctx, s.ID)
	require.NoError(t, err)

	again := uc.Board("voter_abc", false)
	again.LoadSuggestions(ctx)
	again.LoadVotedSuggestions(ctx)
	assert.True(t, again.HasVoted(s.ID))

	result, err := again.Vote(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyVoted)
	assert.Equal(t, 1, result.Votes)
}

func TestVote_ConflictCountsAsAlreadyVoted(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	s := seedSuggestion(t, store, "scorecard", entity.StatusVoting, 0)

	// Two requests from the same voter, both loaded before either vote lands.
	first := uc.Board("voter_abc", false)
	racer := uc.Board("voter_abc", false)
	first.LoadSuggestions(ctx)
	racer.LoadSuggestions(ctx)

	won, err := first.Vote(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, won.Votes)

	result, err := racer.Vote(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoteCommitted, result.State)
	assert.True(t, result.AlreadyVoted)
	assert.True(t, result.Voted)
	assert.Equal(t, 1, result.Votes)
	assert.True(t, racer.HasVoted(s.ID))
	assert.Equal(t, []string{s.ID}, racer.Snapshot().VotedIDs)

	count, _ := store.Votes.CountBySuggestion(ctx, s.ID)
	assert.Equal(t, 1, count)
	stored, err := store.Suggestions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Votes)
}

func TestVote_BoardLoadFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	store := persistent.NewMemoryStore()
	s := seedSuggestion(t, store, "scorecard", entity.StatusVoting, 2)
	waiting := seedSuggestion(t, store, "waiting", entity.StatusPending, 0)
	suggestions := &flakySuggestions{SuggestionRepository: store.Suggestions, listErr: errors.New("timeout")}
	uc := NewCoCreateUseCase(suggestions, store.Votes, nil, logger.New())

	b := uc.Board("voter_abc", false)
	b.LoadSuggestions(ctx)
	require.Empty(t, b.Snapshot().Suggestions)

	result, err := b.Vote(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoteCommitted, result.State)
	assert.Equal(t, 3, result.Votes)

	_, err = b.Vote(ctx, waiting.ID)
	assert.ErrorIs(t, err, ErrSuggestionNotFound)
	assert.False(t, b.HasVoted(waiting.ID))
}

func TestVote_RollbackOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	store := persistent.NewMemoryStore()
	s := seedSuggestion(t, store, "scorecard", entity.StatusVoting, 4)
	votes := &flakyVotes{VoteRepository: store.Votes, createErr: errors.New("connection reset")}
	uc := NewCoCreateUseCase(store.Suggestions, votes, nil, logger.New())

	b := uc.Board("voter_abc", false)
	b.LoadSuggestions(ctx)
	before := b.Snapshot()

	result, err := b.Vote(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoteRolledBack, result.State)
	assert.False(t, result.Voted)
	assert.Equal(t, 4, result.Votes)
	assert.False(t, b.HasVoted(s.ID))
	assert.Equal(t, before.Suggestions, b.Snapshot().Suggestions)
	assert.Equal(t, before.VotedIDs, b.Snapshot().VotedIDs)
}

func TestVote_ReconcilesOnlyAffectedSuggestion(t *testing.T) {
	ctx := context.Background()
	store := persistent.NewMemoryStore()
	target := seedSuggestion(t, store, "target", entity.StatusVoting, 7)
	other := seedSuggestion(t, store, "other", entity.StatusVoting, 3)
	suggestions := &flakySuggestions{SuggestionRepository: store.Suggestions, incrementErr: errors.New("function missing")}
	uc := NewCoCreateUseCase(suggestions, store.Votes, nil, logger.New())

	b := uc.Board("voter_abc", false)
	b.LoadSuggestions(ctx)

	result, err := b.Vote(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoteCommitted, result.State)
	assert.Equal(t, 1, result.Votes)

	stored, err := store.Suggestions.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Votes)

	untouched, err := store.Suggestions.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, untouched.Votes)
}

func TestVote_UnknownSuggestion(t *testing.T) {
	_, uc := newTestCoCreate(t)
	b := uc.Board("voter_abc", false)

	result, err := b.Vote(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSuggestionNotFound)
	assert.Equal(t, entity.VoteIdle, result.State)
	assert.False(t, b.HasVoted("missing"))
}

func TestSubmitSuggestion_RequiresNameAndText(t *testing.T) {
	store, uc := newTestCoCreate(t)
	b := uc.Board("voter_abc", false)

	_, err := b.SubmitSuggestion(context.Background(), entity.SuggestionInput{Name: "  ", Suggestion: "x"})
	assert.ErrorIs(t, err, ErrSuggestionInvalid)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = b.SubmitSuggestion(context.Background(), entity.SuggestionInput{Name: "Ana"})
	assert.ErrorIs(t, err, ErrSuggestionInvalid)

	pending, _ := store.Suggestions.ListPending(context.Background())
	assert.Empty(t, pending)
}

func TestSubmitSuggestion_NotificationFailureIsSwallowed(t *testing.T) {
	store := persistent.NewMemoryStore()
	notifier := new(MockNotifier)
	notifier.On("Notify", DestinationCoCreate, "cocreate_suggestion").Return(errors.New("broker down"))
	uc := NewCoCreateUseCase(store.Suggestions, store.Votes, notifier, logger.New())

	created, err := uc.Board("voter_abc", false).SubmitSuggestion(context.Background(), entity.SuggestionInput{
		Name:       " Ana ",
		Suggestion: "Add supplier scorecard",
		Email:      " ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.Name)
	assert.Nil(t, created.Email)
	assert.Equal(t, entity.StatusPending, created.Status)
	notifier.AssertExpectations(t)
}

func TestModeration_RequiresAdmin(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	s := seedSuggestion(t, store, "waiting", entity.StatusPending, 0)
	b := uc.Board("voter_abc", false)

	_, err := b.ApproveSuggestion(ctx, s.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, b.RejectSuggestion(ctx, s.ID), ErrForbidden)
	assert.ErrorIs(t, b.DeleteSuggestion(ctx, s.ID), ErrForbidden)
	_, err = b.CreateSuggestion(ctx, entity.SuggestionInput{Name: "a", Suggestion: "b"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = b.EditSuggestion(ctx, s.ID, entity.SuggestionInput{Name: "a", Suggestion: "b"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveSuggestion_MovesToPublic(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	s := seedSuggestion(t, store, "waiting", entity.StatusPending, 0)

	admin := uc.Board("voter_admin", true)
	admin.LoadSuggestions(ctx)
	require.Len(t, admin.Snapshot().Pending, 1)

	approved, err := admin.ApproveSuggestion(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVoting, approved.Status)
	assert.False(t, admin.IsProcessing(s.ID))

	snap := admin.Snapshot()
	assert.Empty(t, snap.Pending)
	require.Len(t, snap.Suggestions, 1)
	assert.Equal(t, entity.StatusVoting, snap.Suggestions[0].Status)

	_, err = admin.ApproveSuggestion(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	assert.False(t, admin.IsProcessing(s.ID))
}

func TestRejectSuggestion_IsPermanent(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	s := seedSuggestion(t, store, "waiting", entity.StatusPending, 0)

	admin := uc.Board("voter_admin", true)
	admin.LoadSuggestions(ctx)
	require.NoError(t, admin.RejectSuggestion(ctx, s.ID))
	assert.False(t, admin.IsProcessing(s.ID))

	for i := 0; i < 2; i++ {
		admin.LoadSuggestions(ctx)
		snap := admin.Snapshot()
		assert.Nil(t, findSuggestion(snap.Suggestions, s.ID))
		assert.Nil(t, findSuggestion(snap.Pending, s.ID))
	}

	assert.ErrorIs(t, admin.RejectSuggestion(ctx, s.ID), ErrSuggestionNotFound)
}

func TestModeration_StoreFailureKeepsPending(t *testing.T) {
	ctx := context.Background()
	store := persistent.NewMemoryStore()
	s := seedSuggestion(t, store, "waiting", entity.StatusPending, 0)
	suggestions := &flakySuggestions{
		SuggestionRepository: store.Suggestions,
		updateStatusErr:      errors.New("connection reset"),
		deleteErr:            errors.New("connection reset"),
	}
	uc := NewCoCreateUseCase(suggestions, store.Votes, nil, logger.New())

	admin := uc.Board("voter_admin", true)
	admin.LoadSuggestions(ctx)

	_, err := admin.ApproveSuggestion(ctx, s.ID)
	assert.Error(t, err)
	assert.False(t, admin.IsProcessing(s.ID))

	err = admin.RejectSuggestion(ctx, s.ID)
	assert.Error(t, err)
	assert.False(t, admin.IsProcessing(s.ID))

	snap := admin.Snapshot()
	assert.NotNil(t, findSuggestion(snap.Pending, s.ID))
	assert.Nil(t, findSuggestion(snap.Suggestions, s.ID))

	stored, err := store.Suggestions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)
}

func TestApproveSuggestion_ProcessingWhileInFlight(t *testing.T) {
	ctx := context.Background()
	store := persistent.NewMemoryStore()
	s := seedSuggestion(t, store, "waiting", entity.StatusPending, 0)
	suggestions := &blockingSuggestions{
		SuggestionRepository: store.Suggestions,
		entered:              make(chan struct{}),
		release:              make(chan struct{}),
	}
	uc := NewCoCreateUseCase(suggestions, store.Votes, nil, logger.New())

	admin := uc.Board("voter_admin", true)
	admin.LoadSuggestions(ctx)

	done := make(chan error, 1)
	go func() {
		_, err := admin.ApproveSuggestion(ctx, s.ID)
		done <- err
	}()

	<-suggestions.entered
	assert.True(t, admin.IsProcessing(s.ID))
	close(suggestions.release)

	require.NoError(t, <-done)
	assert.False(t, admin.IsProcessing(s.ID))
}

func TestEditSuggestion_ValidatesVotesAndStatus(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	s := seedSuggestion(t, store, "idea", entity.StatusVoting, 2)
	admin := uc.Board("voter_admin", true)

	negative := -1
	_, err := admin.EditSuggestion(ctx, s.ID, entity.SuggestionInput{Name: "idea", Suggestion: "x", Votes: &negative})
	assert.ErrorIs(t, err, ErrSuggestionInvalid)

	_, err = admin.EditSuggestion(ctx, s.ID, entity.SuggestionInput{Name: "idea", Suggestion: "x", Status: "archived"})
	assert.ErrorIs(t, err, ErrSuggestionInvalid)

	ten := 10
	edited, err := admin.EditSuggestion(ctx, s.ID, entity.SuggestionInput{
		Name: "idea", Suggestion: "better text", Votes: &ten, Status: entity.StatusDevelopment,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, edited.Votes)
	assert.Equal(t, entity.StatusDevelopment, edited.Status)
	assert.Equal(t, s.CreatedAt, edited.CreatedAt)
}

func TestCreateAndDeleteSuggestion(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)
	admin := uc.Board("voter_admin", true)

	created, err := admin.CreateSuggestion(ctx, entity.SuggestionInput{Name: "Equipe", Suggestion: "Roadmap item"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVoting, created.Status)
	require.Len(t, admin.Snapshot().Suggestions, 1)

	require.NoError(t, admin.DeleteSuggestion(ctx, created.ID))
	assert.Empty(t, admin.Snapshot().Suggestions)

	_, err = store.Suggestions.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, persistent.ErrNotFound)
}

func TestCoCreate_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store, uc := newTestCoCreate(t)

	visitor := uc.Board("voter_visitor", false)
	submitted, err := visitor.SubmitSuggestion(ctx, entity.SuggestionInput{Name: "Ana", Suggestion: "Add supplier scorecard"})
	require.NoError(t, err)

	stored, err := store.Suggestions.GetByID(ctx, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Equal(t, 0, stored.Votes)

	admin := uc.Board("voter_admin", true)
	admin.LoadSuggestions(ctx)
	_, err = admin.ApproveSuggestion(ctx, submitted.ID)
	require.NoError(t, err)

	voter := uc.Board("voter_anon", false)
	voter.LoadSuggestions(ctx)
	voter.LoadVotedSuggestions(ctx)
	snap := voter.Snapshot()
	require.Len(t, snap.Suggestions, 1)
	assert.Equal(t, entity.StatusVoting, snap.Suggestions[0].Status)
	assert.Equal(t, 0, snap.Suggestions[0].Votes)

	result, err := voter.Vote(ctx, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Votes)
	assert.True(t, voter.HasVoted(submitted.ID))

	result, err = voter.Vote(ctx, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Votes)

	stored, _ = store.Suggestions.GetByID(ctx, submitted.ID)
	assert.Equal(t, 1, stored.Votes)
}
