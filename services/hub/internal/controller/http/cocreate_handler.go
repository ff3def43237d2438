package http

import (
	"net/http"

	"veltta-hub/pkg/logger"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CoCreateHandler struct {
	coCreateUseCase usecase.CoCreateUseCase
	logger          *logger.Logger
}

func NewCoCreateHandler(coCreateUseCase usecase.CoCreateUseCase, logger *logger.Logger) *CoCreateHandler {
	return &CoCreateHandler{
		coCreateUseCase: coCreateUseCase,
		logger:          logger,
	}
}

func (h *CoCreateHandler) board(c *gin.Context) usecase.Board {
	return h.coCreateUseCase.Board(c.GetString(ContextVoterID), sessionFrom(c).IsAdmin())
}

// ListSuggestions godoc
// @Summary      List co-create suggestions
// @Description  Public suggestions ordered by votes, the ids the visitor already voted for and, for administrators, the pending queue
// @Tags         cocreate
// @Produce      json
// @Success      200  {object}  entity.BoardSnapshot
// @Router       /cocreate/suggestions [get]
func (h *CoCreateHandler) ListSuggestions(c *gin.Context) {
	b := h.board(c)
	b.LoadSuggestions(c.Request.Context())
	b.LoadVotedSuggestions(c.Request.Context())
	c.JSON(http.StatusOK, b.Snapshot())
}

// SubmitSuggestion godoc
// @Summary      Submit a suggestion
// @Description  Stores a suggestion for moderation. Name and suggestion are required.
// @Tags         cocreate
// @Accept       json
// @Produce      json
// @Param        request body entity.SuggestionInput true "Suggestion"
// @Success      201  {object}  entity.Suggestion
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /cocreate/suggestions [post]
func (h *CoCreateHandler) SubmitSuggestion(c *gin.Context) {
	var req entity.SuggestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := h.board(c).SubmitSuggestion(c.Request.Context(), entity.SuggestionInput{
		Name:           req.Name,
		Position:       req.Position,
		CompanySegment: req.CompanySegment,
		Email:          req.Email,
		Suggestion:     req.Suggestion,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, suggestion)
}

// Vote godoc
// @Summary      Vote for a suggestion
// @Description  Casts the visitor's vote. A second vote from the same visitor is a no-op.
// @Tags         cocreate
// @Produce      json
// @Param        id path string true "Suggestion ID"
// @Success      200  {object}  entity.VoteResult
// @Failure      404  {object}  map[string]string
// @Router       /cocreate/suggestions/{id}/vote [post]
func (h *CoCreateHandler) Vote(c *gin.Context) {
	ctx := c.Request.Context()
	b := h.board(c)
	b.LoadSuggestions(ctx)
	b.LoadVotedSuggestions(ctx)

	result, err := b.Vote(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateSuggestion godoc
// @Summary      Create a suggestion as administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body entity.SuggestionInput true "Suggestion"
// @Success      201  {object}  entity.Suggestion
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/cocreate/suggestions [post]
func (h *CoCreateHandler) CreateSuggestion(c *gin.Context) {
	var req entity.SuggestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := h.board(c).CreateSuggestion(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, suggestion)
}

// UpdateSuggestion godoc
// @Summary      Edit a suggestion
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Suggestion ID"
// @Param        request body entity.SuggestionInput true "Suggestion"
// @Success      200  {object}  entity.Suggestion
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/cocreate/suggestions/{id} [put]
func (h *CoCreateHandler) UpdateSuggestion(c *gin.Context) {
	var req entity.SuggestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := h.board(c).EditSuggestion(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// DeleteSuggestion godoc
// @Summary      Delete a suggestion
// @Tags         admin
// @Security     BearerAuth
// @Param        id path string true "Suggestion ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/cocreate/suggestions/{id} [delete]
func (h *CoCreateHandler) DeleteSuggestion(c *gin.Context) {
	if err := h.board(c).DeleteSuggestion(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ApproveSuggestion godoc
// @Summary      Approve a pending suggestion
// @Description  Moves the suggestion to the public board with status voting
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Suggestion ID"
// @Success      200  {object}  entity.Suggestion
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/cocreate/suggestions/{id}/approve [post]
func (h *CoCreateHandler) ApproveSuggestion(c *gin.Context) {
	b := h.board(c)
	b.LoadSuggestions(c.Request.Context())

	suggestion, err := b.ApproveSuggestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// RejectSuggestion godoc
// @Summary      Reject a pending suggestion
// @Description  Deletes the suggestion permanently
// @Tags         admin
// @Security     BearerAuth
// @Param        id path string true "Suggestion ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/cocreate/suggestions/{id}/reject [post]
func (h *CoCreateHandler) RejectSuggestion(c *gin.Context) {
	if err := h.board(c).RejectSuggestion(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
