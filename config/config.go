package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8081"`
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-super-secret-change-me"`
	// Sessions live 30 days unless overridden.
	SessionTTLHours int    `envconfig:"SESSION_TTL_HOURS" default:"720"`
	DBPath          string `envconfig:"DB_PATH" default:"chathub.db"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
