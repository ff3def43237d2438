package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const LeadSourceCourseWaitlist = "course_waitlist"

type Lead struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Position  *string   `json:"position"`
	Source    string    `gorm:"type:varchar(40);not null" json:"source"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Lead) TableName() string {
	return "leads"
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
