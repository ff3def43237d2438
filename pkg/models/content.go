package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content is the stored row; json tags follow the column names.
type Content struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	Type         string    `gorm:"type:varchar(20);not null;index" json:"type"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Content      string    `gorm:"type:text" json:"content"`
	Image        string    `json:"image"`
	Link         string    `json:"link"`
	VideoURL     string    `gorm:"column:video_url" json:"video_url"`
	DownloadURL  string    `gorm:"column:download_url" json:"download_url"`
	DownloadName string    `gorm:"column:download_name" json:"download_name"`
	FileSize     string    `gorm:"column:file_size" json:"file_size"`
	FileType     string    `gorm:"column:file_type" json:"file_type"`
	Date         string    `json:"date"`
	ReadTime     string    `gorm:"column:read_time" json:"read_time"`
	Author       string    `json:"author"`
	Category     string    `gorm:"type:varchar(40);index" json:"category"`
	Tags         []string  `gorm:"type:jsonb;serializer:json" json:"tags"`
	Featured     bool      `gorm:"default:false" json:"featured"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Content) TableName() string {
	return "contents"
}

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type SavedContent struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_saved_contents_user_content" json:"user_id"`
	ContentID string    `gorm:"type:uuid;not null;uniqueIndex:idx_saved_contents_user_content" json:"content_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (SavedContent) TableName() string {
	return "saved_contents"
}

func (s *SavedContent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
