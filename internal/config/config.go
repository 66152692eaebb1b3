// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// MinSecretLength is the minimum required length for each JWT secret.
const MinSecretLength = 32

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"your-super-secret-jwt-key-change-this-in-production",
	"your-super-secret-refresh-key-change-this-in-production",
}

// Duration is a time.Duration that also accepts a whole-day suffix ("7d").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid day duration %q", s)
		}
		*d = Duration(time.Duration(n) * 24 * time.Hour)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("duration must be positive, got %q", s)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"HOST" envDefault:"0.0.0.0"`
	ServerPort int    `env:"PORT" envDefault:"5000"`
	Env        string `env:"NODE_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath     string `env:"DB_PATH" envDefault:"./data/portfolio.db"`
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"./uploads"`

	JWTSecret        string   `env:"JWT_SECRET,required"`
	JWTRefreshSecret string   `env:"JWT_REFRESH_SECRET,required"`
	JWTExpire        Duration `env:"JWT_EXPIRE" envDefault:"1h"`
	JWTRefreshExpire Duration `env:"JWT_REFRESH_EXPIRE" envDefault:"7d"`

	// Seed admin account, created on first start when absent.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	TrustProxy  bool     `env:"TRUST_PROXY" envDefault:"false"` // honour X-Forwarded-For

	// Cache configuration
	RedisURL    string `env:"REDIS_URL"`                            // Optional Redis URL for refresh tokens and settings
	CachePrefix string `env:"CACHE_PREFIX" envDefault:"portfolio:"` // Redis key prefix

	// Contact notification mail
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
	NotifyEmail  string `env:"NOTIFY_EMAIL"`

	// Outbound change notifications
	WebhookURL    string   `env:"WEBHOOK_URL"`
	WebhookSecret string   `env:"WEBHOOK_SECRET"`
	WebhookEvents []string `env:"WEBHOOK_EVENTS" envSeparator:","` // empty means all events

	// Contact form captcha; empty disables verification
	HCaptchaSecret string `env:"HCAPTCHA_SECRET"`

	// Public site address used in sitemap.xml and robots.txt
	SiteURL string `env:"SITE_URL" envDefault:"http://localhost:3000"`

	// GeoIP configuration
	GeoIPDBPath string `env:"GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true in production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MailEnabled returns true if contact notifications can be sent.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.NotifyEmail != ""
}

// WebhookEnabled returns true if change events are posted to a webhook.
func (c Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// CaptchaEnabled returns true if contact submissions require a captcha.
func (c Config) CaptchaEnabled() bool {
	return c.HCaptchaSecret != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("NODE_ENV must be one of development, production, test; got %q", c.Env))
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.ServerPort))
	}

	errs = append(errs, checkSecret("JWT_SECRET", c.JWTSecret))
	errs = append(errs, checkSecret("JWT_REFRESH_SECRET", c.JWTRefreshSecret))
	if c.JWTSecret != "" && c.JWTSecret == c.JWTRefreshSecret {
		errs = append(errs, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ"))
	}

	if c.JWTRefreshExpire.Std() <= c.JWTExpire.Std() {
		errs = append(errs, errors.New("JWT_REFRESH_EXPIRE must be longer than JWT_EXPIRE"))
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}

	if c.WebhookURL != "" {
		if u, err := url.Parse(c.WebhookURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("WEBHOOK_URL must be an absolute http(s) URL, got %q", c.WebhookURL))
		}
		if c.WebhookSecret == "" {
			errs = append(errs, errors.New("WEBHOOK_SECRET is required when WEBHOOK_URL is set"))
		}
	}

	if u, err := url.Parse(c.SiteURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("SITE_URL must be an absolute URL, got %q", c.SiteURL))
	}

	return errors.Join(errs...)
}

func checkSecret(name, secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("%s must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			name, MinSecretLength, len(secret))
	}

	for _, weak := range knownWeakSecrets {
		if secret == weak {
			return fmt.Errorf("%s is a known default value and must not be used; "+
				"generate a secure secret with: openssl rand -base64 32", name)
		}
	}

	if !hasMinimumEntropy(secret) {
		slog.Warn(name + " has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
