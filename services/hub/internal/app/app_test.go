package internal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"veltta-hub/pkg/config"
	"veltta-hub/pkg/jwt"
	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/models"
	"veltta-hub/services/hub/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		StoreBackend:  config.StoreBackendMemory,
		CORSOrigins:   []string{"http://localhost:5173"},
		AdminEmail:    "Admin@Veltta.com.br",
		AdminPassword: "segredo123",
		AdminName:     "Equipe Veltta",
	}
	store, err := newMemoryStore(cfg)
	require.NoError(t, err)

	return &App{
		cfg:        cfg,
		log:        logger.New(),
		store:      store,
		jwtService: jwt.NewService("test-secret").WithTTL(time.Hour),
		denylist:   jwt.NewMemoryDenylist(),
	}
}

func serve(router *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := serve(router, http.MethodPost, "/api/v1/auth/login", "", []byte(`{"email":"admin@veltta.com.br","password":"segredo123"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var session entity.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := newTestApp(t).setupRouter()

	w := serve(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = serve(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MemoryStoreIsSeeded(t *testing.T) {
	router := newTestApp(t).setupRouter()

	w := serve(router, http.MethodGet, "/api/v1/contents", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []entity.Content
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, len(models.InitialContents()))
	assert.Equal(t, models.InitialToolID, items[0].ID)
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	router := newTestApp(t).setupRouter()

	w := serve(router, http.MethodGet, "/api/v1/me/saved-contents", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/admin/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, router)

	w = serve(router, http.MethodPost, "/api/v1/contents/"+models.InitialArticleID+"/save", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/admin/leads", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/admin/leads", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_WaitlistThenExport(t *testing.T) {
	router := newTestApp(t).setupRouter()

	w := serve(router, http.MethodPost, "/api/v1/leads/waitlist", "", []byte(`{"name":"Ana","email":"ana@alfa.com","company":"Alfa"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, http.MethodPost, "/api/v1/leads/waitlist", "", []byte(`{"name":"Ana","email":"ANA@alfa.com"}`))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/admin/leads/export", login(t, router), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@alfa.com")
}

func TestNewMemoryStore_WithoutAdminPassword(t *testing.T) {
	store, err := newMemoryStore(&config.Config{AdminEmail: "admin@veltta.com.br"})
	require.NoError(t, err)

	_, err = store.Users.GetByEmail(t.Context(), "admin@veltta.com.br")
	assert.Error(t, err)
}
