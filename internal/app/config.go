package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the complete application configuration, loadable from
// environment variables (SEHATI_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL   string `usage:"PostgreSQL connection URL (SEHATI_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	ImageBaseURL  string `default:"" usage:"Base URL for relative image paths (e.g. https://cdn.example.com)" flag:"image-base-url"`
	SecureCookies bool   `default:"false" usage:"Mark preference cookies Secure" flag:"secure-cookies"`
	Storage       StorageConfig
	Catalog       CatalogConfig
	Contact       ContactConfig
	Admin         AdminConfig
	AMQP          AMQPConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
}

// StorageConfig selects the data backend.
type StorageConfig struct {
	Driver   string `default:"postgres" usage:"Storage driver: postgres or memory"`
	SeedFile string `default:"" usage:"JSON or gzipped JSON fixture loaded into the memory driver" flag:"seed-file"`
}

// CatalogConfig controls catalog presentation.
type CatalogConfig struct {
	FeaturedLimit int `default:"3" usage:"Products shown on the home page" flag:"featured-limit"`
}

// ContactConfig controls contact form handling.
type ContactConfig struct {
	WhatsAppFallback string        `default:"6281234567890" usage:"WhatsApp number used when the setting is missing" flag:"whatsapp-fallback"`
	DedupeCapacity   uint          `default:"100000" usage:"Expected messages within the de-duplication window" flag:"dedupe-capacity"`
	DedupeFPR        float64       `default:"0.001" usage:"Duplicate filter false positive rate" flag:"dedupe-fpr"`
	DedupeWindow     time.Duration `default:"24h" usage:"Window in which identical messages are rejected" flag:"dedupe-window"`
}

// AdminConfig controls the admin login. An empty hash disables it.
type AdminConfig struct {
	PasswordHash string        `usage:"bcrypt hash of the admin password" flag:"admin-password-hash"`
	JWTSecret    string        `usage:"HMAC secret for admin tokens" flag:"admin-jwt-secret"`
	TokenTTL     time.Duration `default:"12h" usage:"Admin token lifetime" flag:"admin-token-ttl"`
}

// AMQPConfig controls contact notifications. An empty URL disables them.
type AMQPConfig struct {
	URL        string `usage:"RabbitMQ URL for contact notifications" flag:"amqp-url"`
	Exchange   string `default:"sehati.events" usage:"Exchange contact events are published to" flag:"amqp-exchange"`
	RoutingKey string `default:"contact.received" usage:"Routing key of contact events" flag:"amqp-routing-key"`
}

// RateLimitConfig controls the per-client limiter on the contact form and
// admin login.
type RateLimitConfig struct {
	Max    int           `default:"10" usage:"Requests a client may burst"`
	Window time.Duration `default:"1m" usage:"Time for an exhausted client to regain the full burst"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads .env (when present), then configuration from environment
// variables and YAML config files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SEHATI",
		Files:     []string{"config.yaml", "/etc/sehati/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("database URL is required: set SEHATI_DATABASE_URL or DATABASE_URL")
		}
	case DriverMemory:
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Admin.PasswordHash != "" && c.Admin.JWTSecret == "" {
		return errors.New("admin JWT secret is required when the admin password is set")
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's SEHATI_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
