package http

import (
	"fmt"
	"net/http"
	"time"

	"veltta-hub/pkg/logger"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadUseCase usecase.LeadUseCase
	logger      *logger.Logger
}

func NewLeadHandler(leadUseCase usecase.LeadUseCase, logger *logger.Logger) *LeadHandler {
	return &LeadHandler{
		leadUseCase: leadUseCase,
		logger:      logger,
	}
}

type WaitlistResponse struct {
	Lead         *entity.Lead `json:"lead"`
	Message      string       `json:"message"`
	CloseAfterMs int64        `json:"close_after_ms"`
}

// JoinWaitlist godoc
// @Summary      Join the course waitlist
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body entity.LeadInput true "Lead"
// @Success      201  {object}  WaitlistResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /leads/waitlist [post]
func (h *LeadHandler) JoinWaitlist(c *gin.Context) {
	var req entity.LeadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.leadUseCase.SubmitWaitlist(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, WaitlistResponse{
		Lead:         result.Lead,
		Message:      "Cadastro realizado com sucesso!",
		CloseAfterMs: result.CloseAfter.Milliseconds(),
	})
}

// ListLeads godoc
// @Summary      List leads
// @Description  Newest first, filtered by name, email or company
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Search term"
// @Success      200  {array}   entity.Lead
// @Failure      403  {object}  map[string]string
// @Router       /admin/leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	leads, err := h.leadUseCase.ListLeads(c.Request.Context(), sessionFrom(c), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, leads)
}

// ExportLeads godoc
// @Summary      Export leads as CSV
// @Tags         admin
// @Produce      text/csv
// @Security     BearerAuth
// @Param        q query string false "Search term"
// @Success      200  {file}  file
// @Failure      403  {object}  map[string]string
// @Router       /admin/leads/export [get]
func (h *LeadHandler) ExportLeads(c *gin.Context) {
	leads, err := h.leadUseCase.ListLeads(c.Request.Context(), sessionFrom(c), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("leads_veltta_%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.leadUseCase.ExportCSV(c.Writer, leads); err != nil {
		h.logger.Error("Failed to write leads export: %v", err)
	}
}
