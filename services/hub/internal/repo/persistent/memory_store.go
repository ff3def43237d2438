package persistent

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"veltta-hub/pkg/models"
	"veltta-hub/services/hub/internal/entity"

	"github.com/google/uuid"
)

// memoryDB keeps rows in insertion order so ties sort the way the database returns them.
type memoryDB struct {
	mu          sync.RWMutex
	suggestions []models.Suggestion
	votes       []models.Vote
	contents    []models.Content
	saved       []models.SavedContent
	leads       []models.Lead
	users       []models.User
}

// NewMemoryStore returns an empty store with the same constraints as the database schema.
func NewMemoryStore() *Store {
	db := &memoryDB{}
	return &Store{
		Suggestions:   &memorySuggestions{db: db},
		Votes:         &memoryVotes{db: db},
		Contents:      &memoryContents{db: db},
		SavedContents: &memorySaved{db: db},
		Leads:         &memoryLeads{db: db},
		Users:         &memoryUsers{db: db},
	}
}

// SeedContents inserts rows that are not in the store yet.
func SeedContents(ctx context.Context, repo ContentRepository, rows []models.Content) error {
	for i := range rows {
		if _, err := repo.GetByID(ctx, rows[i].ID); err == nil {
			continue
		}
		if err := repo.Create(ctx, FromContentRecord(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// EnsureUser creates user unless the e-mail is already registered.
func EnsureUser(ctx context.Context, repo UserRepository, user *entity.User) error {
	if _, err := repo.GetByEmail(ctx, user.Email); err == nil {
		return nil
	}
	err := repo.Create(ctx, user)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

type memorySuggestions struct {
	db *memoryDB
}

func (r *memorySuggestions) find(id string) int {
	for i := range r.db.suggestions {
		if r.db.suggestions[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *memorySuggestions) ListByStatus(_ context.Context, statuses []entity.SuggestionStatus) ([]*entity.Suggestion, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	wanted := make(map[models.SuggestionStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[models.SuggestionStatus(s)] = true
	}

	var out []*entity.Suggestion
	for i := range r.db.suggestions {
		if wanted[r.db.suggestions[i].Status] {
			out = append(out, ToSuggestionEntity(&r.db.suggestions[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memorySuggestions) ListPending(_ context.Context) ([]*entity.Suggestion, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*entity.Suggestion
	for i := range r.db.suggestions {
		if r.db.suggestions[i].Status == models.SuggestionPending {
			out = append(out, ToSuggestionEntity(&r.db.suggestions[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memorySuggestions) GetByID(_ context.Context, id string) (*entity.Suggestion, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := r.find(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return ToSuggestionEntity(&r.db.suggestions[i]), nil
}

func (r *memorySuggestions) Create(_ context.Context, suggestion *entity.Suggestion) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row := ToSuggestionModel(suggestion)
	if row.ID == "" {
		row.ID = uuid.New().String()
	} else if r.find(row.ID) >= 0 {
		return ErrConflict
	}
	if row.Status == "" {
		row.Status = models.SuggestionPending
	}
	row.CreatedAt = stamp(row.CreatedAt)
	r.db.suggestions = append(r.db.suggestions, *row)
	*suggestion = *ToSuggestionEntity(row)
	return nil
}

func (r *memorySuggestions) Update(_ context.Context, suggestion *entity.Suggestion) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(suggestion.ID)
	if i < 0 {
		return ErrNotFound
	}
	row := ToSuggestionModel(suggestion)
	row.CreatedAt = r.db.suggestions[i].CreatedAt
	r.db.suggestions[i] = *row
	return nil
}

func (r *memorySuggestions) UpdateStatus(_ context.Context, id string, status entity.SuggestionStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return ErrNotFound
	}
	r.db.suggestions[i].Status = models.SuggestionStatus(status)
	return nil
}

func (r *memorySuggestions) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return ErrNotFound
	}
	r.db.suggestions = append(r.db.suggestions[:i], r.db.suggestions[i+1:]...)

	kept := r.db.votes[:0]
	for _, v := range r.db.votes {
		if v.SuggestionID != id {
			kept = append(kept, v)
		}
	}
	r.db.votes = kept
	return nil
}

func (r *memorySuggestions) IncrementVotes(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if i := r.find(id); i >= 0 {
		r.db.suggestions[i].Votes++
	}
	return nil
}

func (r *memorySuggestions) SetVotes(_ context.Context, id string, votes int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return ErrNotFound
	}
	r.db.suggestions[i].Votes = votes
	return nil
}

type memoryVotes struct {
	db *memoryDB
}

func (r *memoryVotes) Create(_ context.Context, suggestionID, voterIdentifier string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, v := range r.db.votes {
		if v.SuggestionID == suggestionID && v.VoterIdentifier == voterIdentifier {
			return ErrConflict
		}
	}
	r.db.votes = append(r.db.votes, models.Vote{
		ID:              uuid.New().String(),
		SuggestionID:    suggestionID,
		VoterIdentifier: voterIdentifier,
		CreatedAt:       time.Now().UTC(),
	})
	return nil
}

func (r *memoryVotes) ListSuggestionIDs(_ context.Context, voterIdentifier string) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var ids []string
	for _, v := range r.db.votes {
		if v.VoterIdentifier == voterIdentifier {
			ids = append(ids, v.SuggestionID)
		}
	}
	return ids, nil
}

func (r *memoryVotes) CountBySuggestion(_ context.Context, suggestionID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, v := range r.db.votes {
		if v.SuggestionID == suggestionID {
			count++
		}
	}
	return count, nil
}

type memoryContents struct {
	db *memoryDB
}

func (r *memoryContents) find(id string) int {
	for i := range r.db.contents {
		if r.db.contents[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *memoryContents) List(_ context.Context) ([]*entity.Content, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*entity.Content, 0, len(r.db.contents))
	for i := range r.db.contents {
		out = append(out, FromContentRecord(&r.db.contents[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryContents) GetByID(_ context.Context, id string) (*entity.Content, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := r.find(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return FromContentRecord(&r.db.contents[i]), nil
}

func (r *memoryContents) Create(_ context.Context, content *entity.Content) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row := ToContentRecord(content)
	if row.ID == "" {
		row.ID = uuid.New().String()
	} else if r.find(row.ID) >= 0 {
		return ErrConflict
	}
	row.CreatedAt = stamp(row.CreatedAt)
	row.UpdatedAt = stamp(row.UpdatedAt)
	r.db.contents = append(r.db.contents, *row)
	*content = *FromContentRecord(row)
	return nil
}

func (r *memoryContents) Update(_ context.Context, content *entity.Content) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(content.ID)
	if i < 0 {
		return ErrNotFound
	}
	row := ToContentRecord(content)
	row.CreatedAt = r.db.contents[i].CreatedAt
	row.UpdatedAt = time.Now().UTC()
	r.db.contents[i] = *row
	*content = *FromContentRecord(row)
	return nil
}

func (r *memoryContents) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return ErrNotFound
	}
	r.db.contents = append(r.db.contents[:i], r.db.contents[i+1:]...)

	kept := r.db.saved[:0]
	for _, s := range r.db.saved {
		if s.ContentID != id {
			kept = append(kept, s)
		}
	}
	r.db.saved = kept
	return nil
}

type memorySaved struct {
	db *memoryDB
}

func (r *memorySaved) ListContentIDs(_ context.Context, userID string) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var ids []string
	for _, s := range r.db.saved {
		if s.UserID == userID {
			ids = append(ids, s.ContentID)
		}
	}
	return ids, nil
}

func (r *memorySaved) Create(_ context.Context, userID, contentID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.saved {
		if s.UserID == userID && s.ContentID == contentID {
			return ErrConflict
		}
	}
	r.db.saved = append(r.db.saved, models.SavedContent{
		ID:        uuid.New().String(),
		UserID:    userID,
		ContentID: contentID,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *memorySaved) Delete(_ context.Context, userID, contentID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	kept := r.db.saved[:0]
	for _, s := range r.db.saved {
		if !(s.UserID == userID && s.ContentID == contentID) {
			kept = append(kept, s)
		}
	}
	r.db.saved = kept
	return nil
}

type memoryLeads struct {
	db *memoryDB
}

func (r *memoryLeads) Create(_ context.Context, lead *entity.Lead) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, l := range r.db.leads {
		if strings.EqualFold(l.Email, lead.Email) {
			return ErrConflict
		}
	}
	row := ToLeadModel(lead)
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row.CreatedAt = stamp(row.CreatedAt)
	r.db.leads = append(r.db.leads, *row)
	*lead = *ToLeadEntity(row)
	return nil
}

func (r *memoryLeads) List(_ context.Context) ([]*entity.Lead, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*entity.Lead, 0, len(r.db.leads))
	for i := range r.db.leads {
		out = append(out, ToLeadEntity(&r.db.leads[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type memoryUsers struct {
	db *memoryDB
}

func (r *memoryUsers) Create(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrConflict
		}
	}
	row := ToUserModel(user)
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row.CreatedAt = stamp(row.CreatedAt)
	row.UpdatedAt = stamp(row.UpdatedAt)
	r.db.users = append(r.db.users, *row)
	*user = *ToUserEntity(row)
	return nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for i := range r.db.users {
		if r.db.users[i].Email == email {
			return ToUserEntity(&r.db.users[i]), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for i := range r.db.users {
		if r.db.users[i].ID == id {
			return ToUserEntity(&r.db.users[i]), nil
		}
	}
	return nil, ErrNotFound
}
