package entity

import "time"

type ContentType string

const (
	TypeArticle ContentType = "artigo"
	TypeVideo   ContentType = "video"
	TypeTool    ContentType = "ferramenta"
	TypePodcast ContentType = "podcast"

	// TypeAll selects every type in filtered views.
	TypeAll ContentType = "todos"
)

func (t ContentType) Valid() bool {
	switch t {
	case TypeArticle, TypeVideo, TypeTool, TypePodcast:
		return true
	}
	return false
}

var Categories = []string{"procurement", "negociacao", "gestao", "analytics", "carreira", "tecnologia"}

func ValidCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

const DefaultAuthor = "Equipe Veltta"

// Content uses the application naming convention; storage rows use snake_case columns.
type Content struct {
	ID           string      `json:"id"`
	Type         ContentType `json:"type"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Content      string      `json:"content"`
	Image        string      `json:"image"`
	Link         string      `json:"link"`
	VideoURL     string      `json:"videoUrl"`
	DownloadURL  string      `json:"downloadUrl"`
	DownloadName string      `json:"downloadName"`
	FileSize     string      `json:"fileSize"`
	FileType     string      `json:"fileType"`
	Date         string      `json:"date"`
	ReadTime     string      `json:"readTime"`
	Author       string      `json:"author"`
	Category     string      `json:"category"`
	Tags         []string    `json:"tags"`
	Featured     bool        `json:"featured"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Asset describes an uploaded image or download file.
type Asset struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	FileSize string `json:"fileSize"`
	FileType string `json:"fileType"`
}

type SaveResult struct {
	ContentID string `json:"content_id"`
	Saved     bool   `json:"saved"`
}
