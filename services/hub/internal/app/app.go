package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"veltta-hub/pkg/cache"
	"veltta-hub/pkg/config"
	"veltta-hub/pkg/database"
	"veltta-hub/pkg/jwt"
	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/middleware"
	"veltta-hub/pkg/models"
	"veltta-hub/pkg/queue"
	"veltta-hub/pkg/s3"
	hubHTTP "veltta-hub/services/hub/internal/controller/http"
	"veltta-hub/services/hub/internal/entity"
	"veltta-hub/services/hub/internal/repo/persistent"
	"veltta-hub/services/hub/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	_ "veltta-hub/services/hub/docs" // Swagger docs
)

const (
	writeRateLimit  = 20
	writeRateWindow = time.Minute
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	store       *persistent.Store
	redisClient *redis.Client
	queueClient *queue.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	denylist    jwt.Denylist
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithLevel(cfg.LogLevel)

	a := &App{
		cfg:        cfg,
		log:        log,
		jwtService: jwt.NewService(cfg.JWTSecret).WithTTL(time.Duration(cfg.JWTTTLHours) * time.Hour),
	}

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		store, err := newMemoryStore(cfg)
		if err != nil {
			log.Error("Failed to seed memory store: %v", err)
			return nil, err
		}
		a.store = store
		log.Info("Using in-memory store")
	case config.StoreBackendPostgres:
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Error("Failed to connect to database: %v", err)
			return nil, err
		}
		a.db = db
		a.store = persistent.NewGormStore(db)
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (sessions revoked in memory, no rate limit)", err)
		redisClient = nil
	}
	a.redisClient = redisClient
	if redisClient != nil {
		a.denylist = jwt.NewRedisDenylist(redisClient)
	} else {
		a.denylist = jwt.NewMemoryDenylist()
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (notifications are only logged)", err)
		queueClient = nil
	}
	a.queueClient = queueClient

	if cfg.AWSAccessKeyID != "" || cfg.AWSEndpoint != "" {
		s3Client, err := s3.NewClient(cfg)
		if err != nil {
			log.Warn("Failed to create S3 client: %v (uploads disabled)", err)
		} else {
			a.s3Client = s3Client
		}
	}

	return a, nil
}

func newMemoryStore(cfg *config.Config) (*persistent.Store, error) {
	ctx := context.Background()
	store := persistent.NewMemoryStore()
	if err := persistent.SeedContents(ctx, store.Contents, models.InitialContents()); err != nil {
		return nil, err
	}
	if cfg.AdminPassword == "" {
		return store, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	err = persistent.EnsureUser(ctx, store.Users, &entity.User{
		Email:    strings.ToLower(cfg.AdminEmail),
		Name:     cfg.AdminName,
		Password: string(hash),
		Role:     entity.RoleAdmin,
		IsActive: true,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (a *App) notifier() usecase.Notifier {
	if a.queueClient != nil {
		return usecase.NewQueueNotifier(a.queueClient)
	}
	return usecase.NewLogNotifier(a.log)
}

func (a *App) assetStorage() usecase.AssetStorage {
	if a.s3Client == nil {
		return nil
	}
	return a.s3Client
}

func (a *App) setupRouter() *gin.Engine {
	notifier := a.notifier()

	// Initialize use cases
	identity := usecase.NewIdentityProvider(a.store.Users, a.jwtService, a.denylist, a.log)
	coCreateUseCase := usecase.NewCoCreateUseCase(a.store.Suggestions, a.store.Votes, notifier, a.log)
	catalogUseCase := usecase.NewCatalogUseCase(a.store.Contents, a.store.SavedContents, a.assetStorage(), a.log)
	leadUseCase := usecase.NewLeadUseCase(a.store.Leads, notifier, a.log)

	// Initialize HTTP handlers
	authHandler := hubHTTP.NewAuthHandler(identity, a.log)
	coCreateHandler := hubHTTP.NewCoCreateHandler(coCreateUseCase, a.log)
	contentHandler := hubHTTP.NewContentHandler(catalogUseCase, a.log)
	leadHandler := hubHTTP.NewLeadHandler(leadUseCase, a.log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "store": a.cfg.StoreBackend})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	rateLimit := middleware.RateLimitMiddleware(a.redisClient, writeRateLimit, writeRateWindow)

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth(a.jwtService, a.denylist))
	{
		api.GET("/contents", contentHandler.ListContents)
		api.GET("/contents/:id", contentHandler.GetContent)

		cocreate := api.Group("/cocreate", hubHTTP.VoterMiddleware())
		{
			cocreate.GET("/suggestions", coCreateHandler.ListSuggestions)
			cocreate.POST("/suggestions", rateLimit, coCreateHandler.SubmitSuggestion)
			cocreate.POST("/suggestions/:id/vote", rateLimit, coCreateHandler.Vote)
		}

		api.POST("/leads/waitlist", rateLimit, leadHandler.JoinWaitlist)

		api.POST("/auth/login", rateLimit, authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/session", authHandler.Session)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService, a.denylist))
		{
			protected.GET("/me/saved-contents", contentHandler.ListSavedContents)
			protected.POST("/contents/:id/save", contentHandler.ToggleSaveContent)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(a.jwtService, a.denylist), middleware.RequireRole(string(entity.RoleAdmin)))
		{
			admin.POST("/contents", contentHandler.CreateContent)
			admin.PUT("/contents/:id", contentHandler.UpdateContent)
			admin.DELETE("/contents/:id", contentHandler.DeleteContent)
			admin.POST("/uploads", contentHandler.UploadAsset)

			admin.POST("/cocreate/suggestions", coCreateHandler.CreateSuggestion)
			admin.PUT("/cocreate/suggestions/:id", coCreateHandler.UpdateSuggestion)
			admin.DELETE("/cocreate/suggestions/:id", coCreateHandler.DeleteSuggestion)
			admin.POST("/cocreate/suggestions/:id/approve", coCreateHandler.ApproveSuggestion)
			admin.POST("/cocreate/suggestions/:id/reject", coCreateHandler.RejectSuggestion)

			admin.GET("/leads", leadHandler.ListLeads)
			admin.GET("/leads/export", leadHandler.ExportLeads)
		}
	}

	return r
}

func (a *App) Run() error {
	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           a.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Hub service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down hub service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.Error("Error closing database: %v", err)
			}
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		a.queueClient.Close()
	}

	a.log.Info("Hub service exited")
	a.log.Sync()
	return nil
}
