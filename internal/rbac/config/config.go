package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	StoreDriver  string        `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI     string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	DBName       string        `envconfig:"DB_NAME" default:"creatorstack"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`

	RolesCollection         string `envconfig:"COLLECTION_ROLES" default:"roles"`
	UsersCollection         string `envconfig:"COLLECTION_USERS" default:"users"`
	SubmissionsCollection   string `envconfig:"COLLECTION_SUBMISSIONS" default:"submissions"`
	AuditLogsCollection     string `envconfig:"COLLECTION_AUDIT_LOGS" default:"audit_logs"`
	CategoriesCollection    string `envconfig:"COLLECTION_CATEGORIES" default:"categories"`
	NotificationsCollection string `envconfig:"COLLECTION_NOTIFICATIONS" default:"notifications"`

	// Redis is optional: without it principals are not cached and
	// notifications are written inline instead of queued.
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	PrincipalCacheTTL time.Duration `envconfig:"PRINCIPAL_CACHE_TTL" default:"30s"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	BulkConcurrency  int      `envconfig:"BULK_CONCURRENCY" default:"4"`
	LogLevel         string   `envconfig:"LOG_LEVEL" default:"info"`
	SeedSystemRoles  bool     `envconfig:"SEED_SYSTEM_ROLES" default:"true"`
	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`

	// BootstrapAdminID, when set, is created as an Admin on boot if missing.
	BootstrapAdminID    string `envconfig:"BOOTSTRAP_ADMIN_ID"`
	BootstrapAdminName  string `envconfig:"BOOTSTRAP_ADMIN_NAME" default:"Administrator"`
	BootstrapAdminEmail string `envconfig:"BOOTSTRAP_ADMIN_EMAIL"`

	WorkerConcurrency int `envconfig:"WORKER_CONCURRENCY" default:"5"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, c.StoreDriver)
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.BulkConcurrency < 1 {
		return fmt.Errorf("BULK_CONCURRENCY must be positive")
	}
	if c.PrincipalCacheTTL < 0 {
		return fmt.Errorf("PRINCIPAL_CACHE_TTL must not be negative")
	}
	return nil
}

// UseRedis reports whether a Redis address was configured
func (c *Config) UseRedis() bool {
	return c.RedisAddr != ""
}
