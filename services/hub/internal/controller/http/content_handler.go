package http

import (
	"net/http"
	"strconv"

	"veltta-hub/pkg/logger"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 20 << 20

type ContentHandler struct {
	catalogUseCase usecase.CatalogUseCase
	logger         *logger.Logger
}

func NewContentHandler(catalogUseCase usecase.CatalogUseCase, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		catalogUseCase: catalogUseCase,
		logger:         logger,
	}
}

func (h *ContentHandler) load(c *gin.Context) (usecase.Catalog, bool) {
	catalog := h.catalogUseCase.Catalog(sessionFrom(c))
	if err := catalog.FetchContents(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return catalog, true
}

// ListContents godoc
// @Summary      List contents
// @Description  Catalog items, newest first. Filters combine.
// @Tags         contents
// @Produce      json
// @Param        type query string false "Content type" Enums(todos, artigo, video, ferramenta, podcast)
// @Param        category query string false "Category"
// @Param        q query string false "Search over title, description and tags"
// @Param        featured query bool false "Only the first three featured items"
// @Success      200  {array}   entity.Content
// @Failure      500  {object}  map[string]string
// @Router       /contents [get]
func (h *ContentHandler) ListContents(c *gin.Context) {
	catalog, ok := h.load(c)
	if !ok {
		return
	}

	if featured, _ := strconv.ParseBool(c.Query("featured")); featured {
		c.JSON(http.StatusOK, catalog.Featured())
		return
	}

	items := catalog.ByType(entity.ContentType(c.Query("type")))
	if category := c.Query("category"); category != "" {
		items = intersect(items, catalog.ByCategory(category))
	}
	if q := c.Query("q"); q != "" {
		items = intersect(items, catalog.Search(q))
	}

	c.JSON(http.StatusOK, items)
}

// GetContent godoc
// @Summary      Get content by ID
// @Tags         contents
// @Produce      json
// @Param        id path string true "Content ID"
// @Success      200  {object}  entity.Content
// @Failure      404  {object}  map[string]string
// @Router       /contents/{id} [get]
func (h *ContentHandler) GetContent(c *gin.Context) {
	catalog, ok := h.load(c)
	if !ok {
		return
	}

	content := catalog.GetByID(c.Param("id"))
	if content == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}

	c.JSON(http.StatusOK, content)
}

// ListSavedContents godoc
// @Summary      List saved contents
// @Description  Contents bookmarked by the authenticated user
// @Tags         contents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.Content
// @Failure      401  {object}  map[string]string
// @Router       /me/saved-contents [get]
func (h *ContentHandler) ListSavedContents(c *gin.Context) {
	catalog, ok := h.load(c)
	if !ok {
		return
	}
	if err := catalog.LoadSavedContents(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, catalog.SavedContents())
}

// ToggleSaveContent godoc
// @Summary      Save or unsave a content
// @Tags         contents
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Content ID"
// @Success      200  {object}  entity.SaveResult
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /contents/{id}/save [post]
func (h *ContentHandler) ToggleSaveContent(c *gin.Context) {
	catalog := h.catalogUseCase.Catalog(sessionFrom(c))
	if err := catalog.LoadSavedContents(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := catalog.ToggleSaveContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateContent godoc
// @Summary      Create content
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body entity.Content true "Content"
// @Success      201  {object}  entity.Content
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/contents [post]
func (h *ContentHandler) CreateContent(c *gin.Context) {
	var req entity.Content
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := h.catalogUseCase.Catalog(sessionFrom(c)).AddContent(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, content)
}

// UpdateContent godoc
// @Summary      Update content
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Content ID"
// @Param        request body entity.Content true "Content"
// @Success      200  {object}  entity.Content
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/contents/{id} [put]
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	var req entity.Content
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := h.catalogUseCase.Catalog(sessionFrom(c)).UpdateContent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, content)
}

// DeleteContent godoc
// @Summary      Delete content
// @Tags         admin
// @Security     BearerAuth
// @Param        id path string true "Content ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/contents/{id} [delete]
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	if err := h.catalogUseCase.Catalog(sessionFrom(c)).DeleteContent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadAsset godoc
// @Summary      Upload an image or download file
// @Description  Stores the file and returns the metadata for the content form
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        kind formData string true "Upload kind" Enums(image, download)
// @Param        file formData file true "File"
// @Success      201  {object}  entity.Asset
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /admin/uploads [post]
func (h *ContentHandler) UploadAsset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	asset, err := h.catalogUseCase.Catalog(sessionFrom(c)).UploadAsset(c.Request.Context(), usecase.AssetUpload{
		Kind:        usecase.AssetKind(c.PostForm("kind")),
		Filename:    file.Filename,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
		Body:        src,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func intersect(items, allowed []*entity.Content) []*entity.Content {
	keep := make(map[string]bool, len(allowed))
	for _, item := range allowed {
		keep[item.ID] = true
	}
	out := make([]*entity.Content, 0, len(items))
	for _, item := range items {
		if keep[item.ID] {
			out = append(out, item)
		}
	}
	return out
}
