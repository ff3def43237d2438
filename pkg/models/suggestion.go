package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SuggestionStatus string

const (
	SuggestionPending     SuggestionStatus = "pending"
	SuggestionVoting      SuggestionStatus = "voting"
	SuggestionDevelopment SuggestionStatus = "development"
	SuggestionCompleted   SuggestionStatus = "completed"
)

type Suggestion struct {
	ID             string           `gorm:"type:uuid;primary_key" json:"id"`
	Name           string           `gorm:"not null" json:"name"`
	Position       *string          `json:"position"`
	CompanySegment *string          `gorm:"column:company_segment" json:"company_segment"`
	Email          *string          `json:"email"`
	Suggestion     string           `gorm:"type:text;not null" json:"suggestion"`
	Votes          int              `gorm:"not null;default:0" json:"votes"`
	Status         SuggestionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (Suggestion) TableName() string {
	return "cocreate_suggestions"
}

func (s *Suggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

type Vote struct {
	ID              string    `gorm:"type:uuid;primary_key" json:"id"`
	SuggestionID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_votes_suggestion_voter" json:"suggestion_id"`
	VoterIdentifier string    `gorm:"not null;uniqueIndex:idx_votes_suggestion_voter;index" json:"voter_identifier"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Vote) TableName() string {
	return "cocreate_votes"
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
