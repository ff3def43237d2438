package database

import (
	"testing"

	"veltta-hub/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db",
		DBPort:     "5433",
		DBUser:     "veltta",
		DBPassword: "secret",
		DBName:     "hub",
		DBSSLMode:  "disable",
	}

	assert.Equal(t, "host=db user=veltta password=secret dbname=hub port=5433 sslmode=disable", DSN(cfg))
}
