package persistent

import (
	"veltta-hub/pkg/models"
	"veltta-hub/services/hub/internal/entity"
)

// ToContentRecord converts the application field names to the storage columns.
func ToContentRecord(e *entity.Content) *models.Content {
	if e == nil {
		return nil
	}

	return &models.Content{
		ID:           e.ID,
		Type:         string(e.Type),
		Title:        e.Title,
		Description:  e.Description,
		Content:      e.Content,
		Image:        e.Image,
		Link:         e.Link,
		VideoURL:     e.VideoURL,
		DownloadURL:  e.DownloadURL,
		DownloadName: e.DownloadName,
		FileSize:     e.FileSize,
		FileType:     e.FileType,
		Date:         e.Date,
		ReadTime:     e.ReadTime,
		Author:       e.Author,
		Category:     e.Category,
		Tags:         copyTags(e.Tags),
		Featured:     e.Featured,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// FromContentRecord converts a stored row back to the application convention.
func FromContentRecord(m *models.Content) *entity.Content {
	if m == nil {
		return nil
	}

	return &entity.Content{
		ID:           m.ID,
		Type:         entity.ContentType(m.Type),
		Title:        m.Title,
		Description:  m.Description,
		Content:      m.Content,
		Image:        m.Image,
		Link:         m.Link,
		VideoURL:     m.VideoURL,
		DownloadURL:  m.DownloadURL,
		DownloadName: m.DownloadName,
		FileSize:     m.FileSize,
		FileType:     m.FileType,
		Date:         m.Date,
		ReadTime:     m.ReadTime,
		Author:       m.Author,
		Category:     m.Category,
		Tags:         copyTags(m.Tags),
		Featured:     m.Featured,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func copyTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func ToSuggestionEntity(m *models.Suggestion) *entity.Suggestion {
	if m == nil {
		return nil
	}

	return &entity.Suggestion{
		ID:             m.ID,
		Name:           m.Name,
		Position:       copyString(m.Position),
		CompanySegment: copyString(m.CompanySegment),
		Email:          copyString(m.Email),
		Suggestion:     m.Suggestion,
		Votes:          m.Votes,
		Status:         entity.SuggestionStatus(m.Status),
		CreatedAt:      m.CreatedAt,
	}
}

func ToSuggestionModel(e *entity.Suggestion) *models.Suggestion {
	if e == nil {
		return nil
	}

	return &models.Suggestion{
		ID:             e.ID,
		Name:           e.Name,
		Position:       copyString(e.Position),
		CompanySegment: copyString(e.CompanySegment),
		Email:          copyString(e.Email),
		Suggestion:     e.Suggestion,
		Votes:          e.Votes,
		Status:         models.SuggestionStatus(e.Status),
		CreatedAt:      e.CreatedAt,
	}
}

func ToLeadEntity(m *models.Lead) *entity.Lead {
	if m == nil {
		return nil
	}

	return &entity.Lead{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     copyString(m.Phone),
		Company:   copyString(m.Company),
		Position:  copyString(m.Position),
		Source:    m.Source,
		CreatedAt: m.CreatedAt,
	}
}

func ToLeadModel(e *entity.Lead) *models.Lead {
	if e == nil {
		return nil
	}

	return &models.Lead{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     copyString(e.Phone),
		Company:   copyString(e.Company),
		Position:  copyString(e.Position),
		Source:    e.Source,
		CreatedAt: e.CreatedAt,
	}
}

func ToUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		Password:  m.Password,
		Role:      entity.UserRole(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *models.User {
	if e == nil {
		return nil
	}

	return &models.User{
		ID:        e.ID,
		Email:     e.Email,
		Name:      e.Name,
		Password:  e.Password,
		Role:      models.UserRole(e.Role),
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
