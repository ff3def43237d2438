package persistent

import (
	"context"

	"veltta-hub/pkg/models"
	"veltta-hub/services/hub/internal/entity"

	"gorm.io/gorm"
)

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func toSuggestionEntities(rows []models.Suggestion) []*entity.Suggestion {
	out := make([]*entity.Suggestion, len(rows))
	for i := range rows {
		out[i] = ToSuggestionEntity(&rows[i])
	}
	return out
}

func (r *suggestionRepository) ListByStatus(ctx context.Context, statuses []entity.SuggestionStatus) ([]*entity.Suggestion, error) {
	var rows []models.Suggestion
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("votes DESC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toSuggestionEntities(rows), nil
}

func (r *suggestionRepository) ListPending(ctx context.Context) ([]*entity.Suggestion, error) {
	var rows []models.Suggestion
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SuggestionPending).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toSuggestionEntities(rows), nil
}

func (r *suggestionRepository) GetByID(ctx context.Context, id string) (*entity.Suggestion, error) {
	var row models.Suggestion
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return ToSuggestionEntity(&row), nil
}

func (r *suggestionRepository) Create(ctx context.Context, suggestion *entity.Suggestion) error {
	row := ToSuggestionModel(suggestion)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	*suggestion = *ToSuggestionEntity(row)
	return nil
}

func (r *suggestionRepository) Update(ctx context.Context, suggestion *entity.Suggestion) error {
	row := ToSuggestionModel(suggestion)
	result := r.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("id = ?", row.ID).
		Select("name", "position", "company_segment", "email", "suggestion", "votes", "status").
		Updates(row)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *suggestionRepository) UpdateStatus(ctx context.Context, id string, status entity.SuggestionStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *suggestionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("suggestion_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return translateError(err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Suggestion{})
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *suggestionRepository) IncrementVotes(ctx context.Context, id string) error {
	return translateError(r.db.WithContext(ctx).Exec("SELECT increment_suggestion_votes(?)", id).Error)
}

func (r *suggestionRepository) SetVotes(ctx context.Context, id string, votes int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("id = ?", id).
		Update("votes", votes)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, suggestionID, voterIdentifier string) error {
	vote := &models.Vote{
		SuggestionID:    suggestionID,
		VoterIdentifier: voterIdentifier,
	}
	return translateError(r.db.WithContext(ctx).Create(vote).Error)
}

func (r *voteRepository) ListSuggestionIDs(ctx context.Context, voterIdentifier string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("voter_identifier = ?", voterIdentifier).
		Pluck("suggestion_id", &ids).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

func (r *voteRepository) CountBySuggestion(ctx context.Context, suggestionID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("suggestion_id = ?", suggestionID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return int(count), nil
}
