package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"veltta-hub/pkg/config"
	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/mailer"
	"veltta-hub/pkg/queue"
	"veltta-hub/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App runs the queue consumer and a small health server.
type App struct {
	cfg         *config.Config
	log         *logger.Logger
	queueClient *queue.Client
	breaker     *mailer.BreakerSender
	relay       usecase.RelayUseCase
	httpServer  *http.Server
	cancel      context.CancelFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithLevel(cfg.LogLevel)

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	var sender mailer.Sender
	if cfg.SendGridAPIKey != "" {
		sender = mailer.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
	} else {
		log.Warn("SENDGRID_API_KEY is not set, e-mails are only logged")
		sender = usecase.NewLogSender(log)
	}
	breaker := mailer.NewBreakerSender(sender, log)

	if len(cfg.NotifyDestinations) == 0 {
		log.Warn("NOTIFY_DESTINATIONS is empty, only literal addresses are delivered")
	}

	return &App{
		cfg:         cfg,
		log:         log,
		queueClient: queueClient,
		breaker:     breaker,
		relay:       usecase.NewRelayUseCase(breaker, cfg.NotifyDestinations, log),
	}, nil
}

func (a *App) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "mail_relay": a.breaker.State().String()}
		if a.queueClient != nil {
			if length, err := a.queueClient.GetQueueLength(); err == nil {
				status["queue_length"] = length
			}
		}
		c.JSON(http.StatusOK, status)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.log.Info("Starting notification queue consumer...")
	err := a.queueClient.ConsumeNotificationTasks(ctx, func(task queue.NotificationTask) error {
		return a.relay.HandleTask(ctx, task)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to start notification consumer: %w", err)
	}

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           a.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Notification service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down notification service...")
}

func (a *App) Shutdown() error {
	if a.cancel != nil {
		a.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			return err
		}
	}

	if a.queueClient != nil {
		a.queueClient.Close()
	}

	a.log.Info("Notification service exited")
	a.log.Sync()
	return nil
}
