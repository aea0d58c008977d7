package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Delivery methods for inquiries received on POST /contact.
const (
	DeliveryNone   = "none"
	DeliveryRelay  = "relay"
	DeliveryResend = "resend"
)

// ErrInvalidDelivery is returned when BAMTECH_DELIVERY names an unknown method.
var ErrInvalidDelivery = errors.New("invalid delivery method")

// Settings holds application configuration
type Settings struct {
	Environment string `env:"BAMTECH_ENV" envDefault:"development"`
	Host        string `env:"BAMTECH_HOST" envDefault:"127.0.0.1"`
	Port        int    `env:"BAMTECH_PORT" envDefault:"5000"`

	// Database is a SQLite path (relative to the data dir) or a postgres:// DSN.
	Database      string `env:"BAMTECH_DATABASE" envDefault:"inquiries.db"`
	DataDirectory string `env:"BAMTECH_DATA_DIR" envDefault:"."`

	PersistLanguage   bool `env:"BAMTECH_PERSIST_LANGUAGE" envDefault:"false"`
	NegotiateLanguage bool `env:"BAMTECH_NEGOTIATE_LANGUAGE" envDefault:"false"`

	AdminUsername string `env:"BAMTECH_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"BAMTECH_ADMIN_PASSWORD"`

	RedisAddress  string `env:"BAMTECH_REDIS_ADDRESS"`
	RedisPassword string `env:"BAMTECH_REDIS_PASSWORD"`

	RateLimit       int           `env:"BAMTECH_RATE_LIMIT" envDefault:"5"`
	RateLimitWindow time.Duration `env:"BAMTECH_RATE_LIMIT_WINDOW" envDefault:"10m"`
	// TrustedProxies are addresses or CIDRs whose forwarding headers name
	// the client. Empty means the TCP peer is the client.
	TrustedProxies []string `env:"BAMTECH_TRUSTED_PROXIES" envSeparator:","`

	Delivery     string `env:"BAMTECH_DELIVERY" envDefault:"none"`
	ResendAPIKey string `env:"BAMTECH_RESEND_API_KEY"`
	MailFrom     string `env:"BAMTECH_MAIL_FROM" envDefault:"noreply@bamtechcenter.com"`
	MailTo       string `env:"BAMTECH_MAIL_TO" envDefault:"info@bamtechcenter.com"`

	CORSOrigins []string `env:"BAMTECH_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	Root string `env:"-"`
}

// Addr returns the listen address.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsPostgres reports whether the database setting is a postgres DSN.
func (s *Settings) IsPostgres() bool {
	return strings.HasPrefix(s.Database, "postgres://") || strings.HasPrefix(s.Database, "postgresql://")
}

func resolveDirectory(root, candidate string) (string, error) {
	target := candidate
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}
	return target, nil
}

// LoadEnvFile loads a .env file into the process environment. A missing file
// is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load loads settings from environment variables
func Load(rootPath string) (*Settings, error) {
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	s.Root = root
	s.Environment = strings.ToLower(strings.TrimSpace(s.Environment))

	switch s.Delivery {
	case DeliveryNone, DeliveryRelay:
	case DeliveryResend:
		if s.ResendAPIKey == "" {
			return nil, fmt.Errorf("BAMTECH_RESEND_API_KEY is required for resend delivery")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelivery, s.Delivery)
	}

	if s.RateLimit <= 0 {
		return nil, fmt.Errorf("BAMTECH_RATE_LIMIT must be positive, got %d", s.RateLimit)
	}

	if !s.IsPostgres() {
		dataDir, err := resolveDirectory(root, s.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		s.DataDirectory = dataDir
		if !filepath.IsAbs(s.Database) {
			s.Database = filepath.Join(dataDir, s.Database)
		}
	}

	return &s, nil
}
