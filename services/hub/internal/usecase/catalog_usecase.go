package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"veltta-hub/pkg/logger"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/repo/persistent"

	"github.com/google/uuid"
)

const featuredLimit = 3

// AssetStorage stores uploaded files and returns their public URL. *s3.Client implements it.
type AssetStorage interface {
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
}

type AssetKind string

const (
	AssetImage    AssetKind = "image"
	AssetDownload AssetKind = "download"
)

type AssetUpload struct {
	Kind        AssetKind
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

type CatalogUseCase interface {
	// Catalog returns the catalog view for session, which may be nil for anonymous visitors.
	Catalog(session *entity.Session) Catalog
}

type Catalog interface {
	FetchContents(ctx context.Context) error
	Contents() []*entity.Content
	AddContent(ctx context.Context, input entity.Content) (*entity.Content, error)
	UpdateContent(ctx context.Context, id string, input entity.Content) (*entity.Content, error)
	DeleteContent(ctx context.Context, id string) error
	UploadAsset(ctx context.Context, upload AssetUpload) (*entity.Asset, error)

	LoadSavedContents(ctx context.Context) error
	ToggleSaveContent(ctx context.Context, contentID string) (entity.SaveResult, error)
	IsSaved(contentID string) bool
	SavedContents() []*entity.Content

	ByType(t entity.ContentType) []*entity.Content
	ByCategory(category string) []*entity.Content
	Featured() []*entity.Content
	Search(query string) []*entity.Content
	GetByID(id string) *entity.Content
}

type catalogUseCase struct {
	contentRepo persistent.ContentRepository
	savedRepo   persistent.SavedContentRepository
	assets      AssetStorage
	logger      *logger.Logger
}

func NewCatalogUseCase(
	contentRepo persistent.ContentRepository,
	savedRepo persistent.SavedContentRepository,
	assets AssetStorage,
	logger *logger.Logger,
) CatalogUseCase {
	return &catalogUseCase{
		contentRepo: contentRepo,
		savedRepo:   savedRepo,
		assets:      assets,
		logger:      logger,
	}
}

func (uc *catalogUseCase) Catalog(session *entity.Session) Catalog {
	c := &catalog{uc: uc, isAdmin: session.IsAdmin(), saved: make(map[string]bool)}
	if session != nil && session.User != nil {
		c.userID = session.User.ID
	}
	return c
}

type catalog struct {
	uc      *catalogUseCase
	userID  string
	isAdmin bool

	mu       sync.RWMutex
	contents []*entity.Content
	saved    map[string]bool
}

func (c *catalog) FetchContents(ctx context.Context) error {
	contents, err := c.uc.contentRepo.List(ctx)
	if err != nil {
		c.uc.logger.Error("Failed to fetch contents: %v", err)
		return fmt.Errorf("failed to fetch contents: %w", err)
	}

	c.mu.Lock()
	c.contents = contents
	c.mu.Unlock()
	return nil
}

func (c *catalog) Contents() []*entity.Content {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneContents(c.contents)
}

func (c *catalog) AddContent(ctx context.Context, input entity.Content) (*entity.Content, error) {
	if !c.isAdmin {
		return nil, ErrForbidden
	}
	content, err := normalizeContent(input)
	if err != nil {
		return nil, err
	}
	content.ID = ""
	now := time.Now().UTC()
	content.CreatedAt = now
	content.UpdatedAt = now

	if err := c.uc.contentRepo.Create(ctx, content); err != nil {
		c.uc.logger.Error("Failed to add content: %v", err)
		return nil, fmt.Errorf("failed to add content: %w", err)
	}

	c.mu.Lock()
	c.contents = append([]*entity.Content{cloneContent(content)}, c.contents...)
	c.mu.Unlock()

	c.uc.logger.Info("Content %s added: %s", content.ID, content.Title)
	return content, nil
}

func (c *catalog) UpdateContent(ctx context.Context, id string, input entity.Content) (*entity.Content, error) {
	if !c.isAdmin {
		return nil, ErrForbidden
	}
	content, err := normalizeContent(input)
	if err != nil {
		return nil, err
	}

	existing, err := c.uc.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, c.contentError("load", id, err)
	}
	content.ID = existing.ID
	content.CreatedAt = existing.CreatedAt
	content.UpdatedAt = time.Now().UTC()

	if err := c.uc.contentRepo.Update(ctx, content); err != nil {
		return nil, c.contentError("update", id, err)
	}

	c.mu.Lock()
	for i, item := range c.contents {
		if item.ID == id {
			c.contents[i] = cloneContent(content)
			break
		}
	}
	c.mu.Unlock()
	return content, nil
}

func (c *catalog) DeleteContent(ctx context.Context, id string) error {
	if !c.isAdmin {
		return ErrForbidden
	}
	if err := c.uc.contentRepo.Delete(ctx, id); err != nil {
		return c.contentError("delete", id, err)
	}

	c.mu.Lock()
	kept := c.contents[:0]
	for _, item := range c.contents {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.contents = kept
	delete(c.saved, id)
	c.mu.Unlock()

	c.uc.logger.Info("Content %s deleted", id)
	return nil
}

// UploadAsset stores an editor upload and returns the metadata the content form needs.
func (c *catalog) UploadAsset(ctx context.Context, upload AssetUpload) (*entity.Asset, error) {
	if !c.isAdmin {
		return nil, ErrForbidden
	}
	if c.uc.assets == nil {
		return nil, ErrUploadDisabled
	}
	if upload.Body == nil || strings.TrimSpace(upload.Filename) == "" {
		return nil, invalid(ErrUploadInvalid, "file", "Arquivo é obrigatório.")
	}
	if upload.Kind != AssetImage && upload.Kind != AssetDownload {
		return nil, invalid(ErrUploadInvalid, "kind", "Tipo de upload inválido.")
	}
	if upload.Kind == AssetImage && !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, invalid(ErrUploadInvalid, "file", "A imagem deve ser um arquivo de imagem.")
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("contents/%s/%s%s", upload.Kind, uuid.New().String(), getFileExtension(upload.Filename))
	url, err := c.uc.assets.UploadFile(ctx, key, upload.Body, contentType)
	if err != nil {
		c.uc.logger.Error("Failed to upload asset %s: %v", upload.Filename, err)
		return nil, fmt.Errorf("failed to upload asset: %w", err)
	}

	return &entity.Asset{
		URL:      url,
		Name:     upload.Filename,
		FileSize: fileSizeLabel(upload.Size),
		FileType: fileTypeOf(upload.Filename),
	}, nil
}

func (c *catalog) LoadSavedContents(ctx context.Context) error {
	if c.userID == "" {
		return ErrNotLoggedIn
	}
	ids, err := c.uc.savedRepo.ListContentIDs(ctx, c.userID)
	if err != nil {
		c.uc.logger.Error("Failed to load saved contents for user %s: %v", c.userID, err)
		return fmt.Errorf("failed to load saved contents: %w", err)
	}

	saved := make(map[string]bool, len(ids))
	for _, id := range ids {
		saved[id] = true
	}
	c.mu.Lock()
	c.saved = saved
	c.mu.Unlock()
	return nil
}

// ToggleSaveContent flips the bookmark of contentID for the current user.
func (c *catalog) ToggleSaveContent(ctx context.Context, contentID string) (entity.SaveResult, error) {
	result := entity.SaveResult{ContentID: contentID}
	if c.userID == "" {
		return result, ErrNotLoggedIn
	}

	c.mu.RLock()
	saved := c.saved[contentID]
	c.mu.RUnlock()

	if saved {
		err := c.uc.savedRepo.Delete(ctx, c.userID, contentID)
		if err != nil && !errors.Is(err, persistent.ErrNotFound) {
			c.uc.logger.Error("Failed to unsave content %s: %v", contentID, err)
			result.Saved = true
			return result, fmt.Errorf("failed to unsave content: %w", err)
		}
	} else {
		if _, err := c.uc.contentRepo.GetByID(ctx, contentID); err != nil {
			return result, c.contentError("save", contentID, err)
		}
		err := c.uc.savedRepo.Create(ctx, c.userID, contentID)
		if err != nil && !errors.Is(err, persistent.ErrConflict) {
			c.uc.logger.Error("Failed to save content %s: %v", contentID, err)
			return result, fmt.Errorf("failed to save content: %w", err)
		}
	}

	c.mu.Lock()
	if saved {
		delete(c.saved, contentID)
	} else {
		c.saved[contentID] = true
	}
	c.mu.Unlock()

	result.Saved = !saved
	return result, nil
}

func (c *catalog) IsSaved(contentID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saved[contentID]
}

func (c *catalog) SavedContents() []*entity.Content {
	return c.filter(func(item *entity.Content) bool { return c.saved[item.ID] })
}

func (c *catalog) ByType(t entity.ContentType) []*entity.Content {
	if t == "" || t == entity.TypeAll {
		return c.Contents()
	}
	return c.filter(func(item *entity.Content) bool { return item.Type == t })
}

func (c *catalog) ByCategory(category string) []*entity.Content {
	if category == "" || category == string(entity.TypeAll) {
		return c.Contents()
	}
	return c.filter(func(item *entity.Content) bool { return item.Category == category })
}

func (c *catalog) Featured() []*entity.Content {
	featured := c.filter(func(item *entity.Content) bool { return item.Featured })
	if len(featured) > featuredLimit {
		featured = featured[:featuredLimit]
	}
	return featured
}

func (c *catalog) Search(query string) []*entity.Content {
	q := strings.ToLower(query)
	return c.filter(func(item *entity.Content) bool {
		if strings.Contains(strings.ToLower(item.Title), q) || strings.Contains(strings.ToLower(item.Description), q) {
			return true
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

func (c *catalog) GetByID(id string) *entity.Content {
	items := c.filter(func(item *entity.Content) bool { return item.ID == id })
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

func (c *catalog) filter(keep func(*entity.Content) bool) []*entity.Content {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*entity.Content, 0)
	for _, item := range c.contents {
		if keep(item) {
			out = append(out, cloneContent(item))
		}
	}
	return out
}

func (c *catalog) contentError(action, id string, err error) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return ErrContentNotFound
	}
	c.uc.logger.Error("Failed to %s content %s: %v", action, id, err)
	return fmt.Errorf("failed to %s content: %w", action, err)
}

func normalizeContent(input entity.Content) (*entity.Content, error) {
	content := input
	content.Title = strings.TrimSpace(content.Title)
	if content.Title == "" {
		return nil, invalid(ErrContentInvalid, "title", "O título é obrigatório.")
	}
	if !content.Type.Valid() {
		return nil, invalid(ErrContentInvalid, "type", "Tipo de conteúdo inválido.")
	}
	if !entity.ValidCategory(content.Category) {
		return nil, invalid(ErrContentInvalid, "category", "Categoria inválida.")
	}
	if strings.TrimSpace(content.Author) == "" {
		content.Author = entity.DefaultAuthor
	}

	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	content.Tags = tags
	return &content, nil
}

func fileSizeLabel(size int64) string {
	return fmt.Sprintf("%.0f KB", math.Round(float64(size)/1024))
}

func fileTypeOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i+1:]
	}
	return filename
}

func getFileExtension(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ""
}

func cloneContent(item *entity.Content) *entity.Content {
	c := *item
	c.Tags = append([]string{}, item.Tags...)
	return &c
}

func cloneContents(list []*entity.Content) []*entity.Content {
	out := make([]*entity.Content, 0, len(list))
	for _, item := range list {
		out = append(out, cloneContent(item))
	}
	return out
}
