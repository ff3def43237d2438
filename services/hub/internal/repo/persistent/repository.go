package persistent

import (
	"context"
	"errors"

	"veltta-hub/services/hub/internal/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

const uniqueViolation = "23505"

type SuggestionRepository interface {
	// ListByStatus orders by votes descending, then creation time ascending.
	ListByStatus(ctx context.Context, statuses []entity.SuggestionStatus) ([]*entity.Suggestion, error)
	// ListPending orders newest first.
	ListPending(ctx context.Context) ([]*entity.Suggestion, error)
	GetByID(ctx context.Context, id string) (*entity.Suggestion, error)
	Create(ctx context.Context, suggestion *entity.Suggestion) error
	Update(ctx context.Context, suggestion *entity.Suggestion) error
	UpdateStatus(ctx context.Context, id string, status entity.SuggestionStatus) error
	Delete(ctx context.Context, id string) error
	// IncrementVotes calls the increment_suggestion_votes function.
	IncrementVotes(ctx context.Context, id string) error
	SetVotes(ctx context.Context, id string, votes int) error
}

type VoteRepository interface {
	// Create returns ErrConflict when the voter already voted for the suggestion.
	Create(ctx context.Context, suggestionID, voterIdentifier string) error
	ListSuggestionIDs(ctx context.Context, voterIdentifier string) ([]string, error)
	CountBySuggestion(ctx context.Context, suggestionID string) (int, error)
}

type ContentRepository interface {
	// List orders newest first.
	List(ctx context.Context) ([]*entity.Content, error)
	GetByID(ctx context.Context, id string) (*entity.Content, error)
	Create(ctx context.Context, content *entity.Content) error
	Update(ctx context.Context, content *entity.Content) error
	Delete(ctx context.Context, id string) error
}

type SavedContentRepository interface {
	ListContentIDs(ctx context.Context, userID string) ([]string, error)
	Create(ctx context.Context, userID, contentID string) error
	Delete(ctx context.Context, userID, contentID string) error
}

type LeadRepository interface {
	// Create returns ErrConflict when the email is already registered.
	Create(ctx context.Context, lead *entity.Lead) error
	// List orders newest first.
	List(ctx context.Context) ([]*entity.Lead, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// Store groups the repositories of one backing store.
type Store struct {
	Suggestions   SuggestionRepository
	Votes         VoteRepository
	Contents      ContentRepository
	SavedContents SavedContentRepository
	Leads         LeadRepository
	Users         UserRepository
}

func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Suggestions:   NewSuggestionRepository(db),
		Votes:         NewVoteRepository(db),
		Contents:      NewContentRepository(db),
		SavedContents: NewSavedContentRepository(db),
		Leads:         NewLeadRepository(db),
		Users:         NewUserRepository(db),
	}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}
