package http

import (
	"net/http"
	"time"

	"veltta-hub/pkg/middleware"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ContextVoterID = "voter_id"

	voterCookieMaxAge = int(365 * 24 * time.Hour / time.Second)
)

// sessionFrom rebuilds the caller identity set by the auth middleware. Nil for anonymous callers.
func sessionFrom(c *gin.Context) *entity.Session {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return nil
	}
	return &entity.Session{
		Token:   c.GetString(middleware.ContextToken),
		TokenID: c.GetString(middleware.ContextTokenID),
		User: &entity.User{
			ID:   userID,
			Role: entity.UserRole(c.GetString(middleware.ContextRole)),
		},
	}
}

type cookieStorage struct {
	c *gin.Context
}

func (s *cookieStorage) Get(key string) (string, bool) {
	value, err := s.c.Cookie(key)
	if err != nil || !usecase.ValidVoterToken(value) {
		return "", false
	}
	return value, true
}

func (s *cookieStorage) Set(key, value string) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, voterCookieMaxAge, "/", "", s.c.Request.TLS != nil, true)
}

// VoterMiddleware gives every visitor a voter token kept in a long-lived cookie.
func VoterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allocator := usecase.NewVoterAllocator(&cookieStorage{c: c})
		c.Set(ContextVoterID, allocator.GetVoterIdentifier())
		c.Next()
	}
}
