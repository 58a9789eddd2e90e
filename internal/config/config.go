// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains the server configuration parameters.
type Config struct {
	Environment string   `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"INFO"`
	ServiceName string   `env:"SERVICE_NAME" envDefault:"code-atlas"`
	HTTP        HTTP     `envPrefix:"HTTP_"`
	Database    Database `envPrefix:"DB_"`
	JWT         JWT      `envPrefix:"JWT_"`
	CORS        CORS     `envPrefix:"CORS_"`
	Catalog     Catalog  `envPrefix:"CATALOG_CACHE_"`
}

// HTTP contains listener parameters.
type HTTP struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Database contains the postgres connection parameters.
type Database struct {
	Host     string `env:"HOST,required,notEmpty"`
	Port     string `env:"PORT,required,notEmpty"`
	User     string `env:"USER,required,notEmpty"`
	Password string `env:"PASS,required,notEmpty"`
	Name     string `env:"NAME,required,notEmpty"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	MinConns int32  `env:"MIN_CONNS" envDefault:"5"`
	MaxConns int32  `env:"MAX_CONNS" envDefault:"30"`
}

// DSN returns the keyword/value connection string understood by pgx.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// JWT contains the session token parameters.
type JWT struct {
	KeyPairPath string `env:"KEY_PAIR_PATH" envDefault:"jwt_keypair.bin"`
	Issuer      string `env:"ISSUER" envDefault:"code-atlas"`
}

// CORS contains the allowed browser origins.
type CORS struct {
	AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// Catalog contains the language lookup cache parameters.
type Catalog struct {
	Size int           `env:"SIZE" envDefault:"256"`
	TTL  time.Duration `env:"TTL" envDefault:"10m"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
