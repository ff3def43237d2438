package main

import (
	"veltta-hub/pkg/config"
	app "veltta-hub/services/hub/internal/app"

	_ "veltta-hub/services/hub/docs" // Swagger docs
)

// @title           Veltta Hub API
// @version         1.0
// @description     Co-create board, content catalog and waitlist for the Veltta procurement hub
// @termsOfService  http://swagger.io/terms/

// @contact.name   Equipe Veltta
// @contact.email  contato@veltta.com.br

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		if cfg.StoreBackend != config.StoreBackendMemory {
			panic("JWT_SECRET must be set in environment variables")
		}
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
