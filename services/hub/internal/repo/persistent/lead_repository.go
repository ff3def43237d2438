package persistent

import (
	"context"

	"veltta-hub/pkg/models"
	"veltta-hub/services/hub/internal/entity"

	"gorm.io/gorm"
)

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	row := ToLeadModel(lead)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	*lead = *ToLeadEntity(row)
	return nil
}

func (r *leadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	var rows []models.Lead
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	leads := make([]*entity.Lead, len(rows))
	for i := range rows {
		leads[i] = ToLeadEntity(&rows[i])
	}
	return leads, nil
}
