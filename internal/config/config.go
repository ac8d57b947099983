package config

import (
	"log"
	"os"
)

const (
	defaultDBPath = "./dev.db"
	defaultPort   = "8080"
	defaultEnv    = "development"
)

// Config holds application configuration sourced from environment variables.
// Estimator tunables (setup minutes, thresholds, top-K) are not here: they
// live in the estimator_config database singleton so the shop can adjust
// them without a redeploy.
type Config struct {
	Env          string
	DBPath       string
	Port         string
	TokenSecret  string
	ShopToken    string
	MigrationsOn bool
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:         os.Getenv("APP_ENV"),
		DBPath:      os.Getenv("DB_PATH"),
		Port:        os.Getenv("PORT"),
		TokenSecret: os.Getenv("TOKEN_SECRET"),
		ShopToken:   os.Getenv("SHOP_TOKEN"),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	cfg.MigrationsOn = os.Getenv("SKIP_MIGRATIONS") != "1"

	if cfg.TokenSecret == "" {
		log.Print("warning: TOKEN_SECRET is not set")
	}
	if cfg.ShopToken == "" {
		log.Print("warning: SHOP_TOKEN is not set")
	}

	return cfg
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	return c.Env != "prod" && c.Env != "production"
}
