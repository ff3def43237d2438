package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/middleware"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/repo/persistent"
	"veltta-hub/services/hub/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func asAdmin(c *gin.Context) {
	c.Set(middleware.ContextUserID, "admin-1")
	c.Set(middleware.ContextRole, string(entity.RoleAdmin))
	c.Next()
}

func setupCoCreate(t *testing.T) (*persistent.Store, *gin.Engine) {
	t.Helper()
	store := persistent.NewMemoryStore()
	log := logger.New()
	handler := NewCoCreateHandler(usecase.NewCoCreateUseCase(store.Suggestions, store.Votes, nil, log), log)

	router := setupTestRouter()
	public := router.Group("/cocreate", VoterMiddleware())
	public.GET("/suggestions", handler.ListSuggestions)
	public.POST("/suggestions", handler.SubmitSuggestion)
	public.POST("/suggestions/:id/vote", handler.Vote)

	admin := router.Group("/admin/cocreate", asAdmin)
	admin.POST("/suggestions", handler.CreateSuggestion)
	admin.PUT("/suggestions/:id", handler.UpdateSuggestion)
	admin.DELETE("/suggestions/:id", handler.DeleteSuggestion)
	admin.POST("/suggestions/:id/approve", handler.ApproveSuggestion)
	admin.POST("/suggestions/:id/reject", handler.RejectSuggestion)
	return store, router
}

func voterCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == usecase.VoterStorageKey {
			return cookie
		}
	}
	t.Fatalf("voter cookie not set")
	return nil
}

func TestVoterMiddleware_SetsAndReusesCookie(t *testing.T) {
	_, router := setupCoCreate(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cocreate/suggestions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	cookie := voterCookie(t, w)
	assert.True(t, usecase.ValidVoterToken(cookie.Value))
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 365*24*3600, cookie.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/cocreate/suggestions", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Result().Cookies())
}

func TestVoterMiddleware_ReplacesForgedCookie(t *testing.T) {
	_, router := setupCoCreate(t)

	req := httptest.NewRequest(http.MethodGet, "/cocreate/suggestions", nil)
	req.AddCookie(&http.Cookie{Name: usecase.VoterStorageKey, Value: "'; DROP TABLE"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEqual(t, "'; DROP TABLE", voterCookie(t, w).Value)
}

func TestSubmitSuggestion_Handler(t *testing.T) {
	store, router := setupCoCreate(t)

	body, _ := json.Marshal(map[string]string{"name": "Ana", "suggestion": "Add supplier scorecard"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cocreate/suggestions", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	var created entity.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, entity.StatusPending, created.Status)

	pending, _ := store.Suggestions.ListPending(context.Background())
	assert.Len(t, pending, 1)
}

func TestSubmitSuggestion_HandlerValidation(t *testing.T) {
	_, router := setupCoCreate(t)

	body, _ := json.Marshal(map[string]string{"name": "Ana"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cocreate/suggestions", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "suggestion", resp["field"])
}

func TestVote_HandlerEndToEnd(t *testing.T) {
	store, router := setupCoCreate(t)
	s := &entity.Suggestion{Name: "Ana", Suggestion: "Add supplier scorecard", Status: entity.StatusPending}
	require.NoError(t, store.Suggestions.Create(context.Background(), s))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/cocreate/suggestions/"+s.ID+"/approve", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cocreate/suggestions/"+s.ID+"/vote", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookie := voterCookie(t, w)

	var first entity.VoteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, 1, first.Votes)
	assert.Equal(t, entity.VoteCommitted, first.State)

	req := httptest.NewRequest(http.MethodPost, "/cocreate/suggestions/"+s.ID+"/vote", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var second entity.VoteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.AlreadyVoted)
	assert.Equal(t, 1, second.Votes)

	req = httptest.NewRequest(http.MethodGet, "/cocreate/suggestions", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var snap entity.BoardSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, []string{s.ID}, snap.VotedIDs)
	assert.Nil(t, snap.Pending)
}

func TestVote_HandlerUnknownSuggestion(t *testing.T) {
	_, router := setupCoCreate(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cocreate/suggestions/missing/vote", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModeration_HandlerStatusCodes(t *testing.T) {
	store, router := setupCoCreate(t)
	s := &entity.Suggestion{Name: "Ana", Suggestion: "Idea", Status: entity.StatusVoting}
	require.NoError(t, store.Suggestions.Create(context.Background(), s))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/cocreate/suggestions/"+s.ID+"/approve", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/cocreate/suggestions/missing/reject", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := []byte(`{"name":"Ana","suggestion":"Idea","votes":-3}`)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/cocreate/suggestions/"+s.ID, bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/cocreate/suggestions/"+s.ID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCreateSuggestion_HandlerDefaultsToVoting(t *testing.T) {
	_, router := setupCoCreate(t)

	body := []byte(`{"name":"Equipe Veltta","suggestion":"Roadmap"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/cocreate/suggestions", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	var created entity.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, entity.StatusVoting, created.Status)
}
