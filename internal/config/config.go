package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Skotchmaster/refurb_shop/pkg/config"
)

// Admin is the staff account created on first start when all three values are set.
type Admin struct {
	Username string
	Email    string
	Password string
}

func (a Admin) Enabled() bool {
	return a.Username != "" && a.Email != "" && a.Password != ""
}

type Config struct {
	pkgconfig.Config
	Admin Admin
}

// Load reads envFile when it exists, then the process environment, and
// checks the values the shop cannot start without.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		} else if err != nil {
			slog.Info("env file not found, using process environment", "file", envFile)
		}
	}

	cfg := &Config{
		Config: pkgconfig.Load(),
		Admin: Admin{
			Username: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
			Email:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	if missing := pkgconfig.Missing(map[string]string{
		"DATABASE_URL":       cfg.DatabaseURL,
		"JWT_SECRET":         string(cfg.JWTAccessSecret),
		"JWT_REFRESH_SECRET": string(cfg.JWTRefreshSecret),
	}); len(missing) > 0 {
		return nil, fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
	}
	if !hasAnyPrefix(cfg.DatabaseURL, "postgres://", "postgresql://", "sqlite://") {
		return nil, errors.New("DATABASE_URL must start with postgres://, postgresql:// or sqlite://")
	}
	if string(cfg.JWTAccessSecret) == string(cfg.JWTRefreshSecret) {
		return nil, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return cfg, nil
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
