package persistent

import (
	"context"
	"time"

	"veltta-hub/pkg/models"
	"veltta-hub/services/hub/internal/entity"

	"gorm.io/gorm"
)

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) List(ctx context.Context) ([]*entity.Content, error) {
	var rows []models.Content
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	contents := make([]*entity.Content, len(rows))
	for i := range rows {
		contents[i] = FromContentRecord(&rows[i])
	}
	return contents, nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*entity.Content, error) {
	var row models.Content
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return FromContentRecord(&row), nil
}

func (r *contentRepository) Create(ctx context.Context, content *entity.Content) error {
	row := ToContentRecord(content)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	*content = *FromContentRecord(row)
	return nil
}

func (r *contentRepository) Update(ctx context.Context, content *entity.Content) error {
	var existing models.Content
	if err := r.db.WithContext(ctx).Where("id = ?", content.ID).First(&existing).Error; err != nil {
		return translateError(err)
	}

	row := ToContentRecord(content)
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return translateError(err)
	}
	*content = *FromContentRecord(row)
	return nil
}

func (r *contentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", id).Delete(&models.SavedContent{}).Error; err != nil {
			return translateError(err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Content{})
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type savedContentRepository struct {
	db *gorm.DB
}

func NewSavedContentRepository(db *gorm.DB) SavedContentRepository {
	return &savedContentRepository{db: db}
}

func (r *savedContentRepository) ListContentIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.SavedContent{}).
		Where("user_id = ?", userID).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

func (r *savedContentRepository) Create(ctx context.Context, userID, contentID string) error {
	saved := &models.SavedContent{
		UserID:    userID,
		ContentID: contentID,
	}
	return translateError(r.db.WithContext(ctx).Create(saved).Error)
}

func (r *savedContentRepository) Delete(ctx context.Context, userID, contentID string) error {
	return translateError(r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Delete(&models.SavedContent{}).Error)
}
