package http

import (
	"errors"
	"net/http"

	"veltta-hub/pkg/logger"
	"veltta-hub/services/hub/internal/usecase"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verr *usecase.ValidationError

	switch {
	case errors.Is(err, usecase.ErrLeadRetry):
		log.Error("Request %s failed: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, usecase.ErrNotLoggedIn),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrSessionInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrForbidden), errors.Is(err, usecase.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrSuggestionNotFound), errors.Is(err, usecase.ErrContentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrUploadDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Error("Request %s failed: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
