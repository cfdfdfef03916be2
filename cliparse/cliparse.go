package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// SecretKey signs verification and session tokens.
	SecretKey string
	// AdminAPIKey gates the dashboard and roster endpoints.
	AdminAPIKey string

	// BaseURL is the public origin used to build verification links.
	BaseURL string
	// EmailPattern lists substrings an email must contain to belong to the
	// organization (e.g. "sias,krea.ac.in").
	EmailPattern []string
	// CoolDown is how long after voting a voter stays locked out before
	// regaining eligibility.
	CoolDown time.Duration

	// SMTP settings; when Host is empty, verification links are logged
	// instead of mailed.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// ParseFlags validates flags and environment variables into a Config.
// Missing required secrets are a startup error; the process must not run
// without them.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var coolDownDays int
	var pattern string

	fs := flag.NewFlagSet("easemyvote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public origin for verification links")
	fs.StringVar(&pattern, "email-pattern", "", "Comma-separated substrings required in voter emails")
	fs.IntVar(&coolDownDays, "cool-down-days", 0, "Days before a voter may vote again")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SecretKey, "secret-key", "", "Token signing secret (prefer env)")
	fs.StringVar(&cfg.AdminAPIKey, "admin-key", "", "Admin API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://127.0.0.1:8000"
		}
	}

	if pattern == "" {
		pattern = os.Getenv("EMAIL_PATTERN")
		if pattern == "" {
			pattern = "sias,krea.ac.in"
		}
	}
	for _, p := range strings.Split(pattern, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.EmailPattern = append(cfg.EmailPattern, p)
		}
	}

	if coolDownDays == 0 {
		if dayStr := os.Getenv("COOL_DOWN_DAYS"); dayStr != "" {
			days, err := strconv.Atoi(dayStr)
			if err != nil || days < 0 {
				return Config{}, errors.New("invalid COOL_DOWN_DAYS env variable")
			}
			coolDownDays = days
		} else {
			coolDownDays = 180 // default: six months
		}
	}
	cfg.CoolDown = time.Duration(coolDownDays) * 24 * time.Hour

	// Secrets - MUST be provided
	if cfg.SecretKey == "" {
		cfg.SecretKey = os.Getenv("SECRET_KEY")
	}
	if cfg.SecretKey == "" {
		return Config{}, errors.New("SECRET_KEY required")
	}

	if cfg.AdminAPIKey == "" {
		cfg.AdminAPIKey = os.Getenv("ADMIN_API_KEY")
	}
	if cfg.AdminAPIKey == "" {
		return Config{}, errors.New("ADMIN_API_KEY required")
	}

	// Optional SMTP delivery
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, errors.New("invalid SMTP_PORT env variable")
		}
		cfg.SMTPPort = port
	} else {
		cfg.SMTPPort = 587
	}
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	return cfg, nil
}
