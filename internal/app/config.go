package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/pathways-backend/internal/clients/kafka"
	"github.com/yungbote/pathways-backend/internal/clients/redis"
	"github.com/yungbote/pathways-backend/internal/data/db"
	"github.com/yungbote/pathways-backend/internal/observability"
	"github.com/yungbote/pathways-backend/internal/platform/envutil"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime/bus"
)

const (
	serviceName       = "pathways-backend"
	devJWTSecret      = "dev-only-secret-change-me"
	defaultAccessTTLs = 86400
)

type Config struct {
	Env     string
	Port    string
	LogMode string
	Version string

	DB db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration
	BcryptCost     int

	CORSOrigins []string

	Redis        redis.Config
	RedisChannel string
	LockTTL      time.Duration
	LockWait     time.Duration

	Kafka kafka.Config

	MetricsEnabled bool
	MetricsAddr    string
	Otel           observability.OtelConfig

	SeedOnStart     bool
	SeedCatalogPath string
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// LoadConfig reads the environment. Optional integrations (Redis, Kafka,
// metrics, tracing) stay off when their variables are unset.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Env:     envutil.String("APP_ENV", "development"),
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		Version: envutil.String("APP_VERSION", "dev"),

		DB: db.Config{
			Driver:       envutil.String("DB_DRIVER", db.DriverPostgres),
			DSN:          envutil.String("POSTGRES_DSN", ""),
			Host:         envutil.String("POSTGRES_HOST", "localhost"),
			Port:         envutil.String("POSTGRES_PORT", "5432"),
			User:         envutil.String("POSTGRES_USER", "postgres"),
			Password:     envutil.String("POSTGRES_PASSWORD", ""),
			Name:         envutil.String("POSTGRES_NAME", "pathways"),
			SQLitePath:   envutil.String("SQLITE_PATH", ""),
			MaxOpenConns: envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5),
		},

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL: time.Duration(envutil.Int("JWT_EXPIRES_IN", defaultAccessTTLs)) * time.Second,
		BcryptCost:     envutil.Int("BCRYPT_COST", 0),

		CORSOrigins: envutil.List("CORS_ORIGINS", nil),

		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		},
		RedisChannel: envutil.String("REDIS_CHANNEL", bus.DefaultChannel),
		LockTTL:      envutil.Duration("PROGRESS_LOCK_TTL", redis.DefaultLockTTL),
		LockWait:     envutil.Duration("PROGRESS_LOCK_WAIT", redis.DefaultLockWait),

		Kafka: kafka.Config{
			Brokers: envutil.List("KAFKA_BROKERS", nil),
			Topic:   envutil.String("KAFKA_JOURNEY_TOPIC", kafka.DefaultJourneyTopic),
		},

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:    envutil.String("METRICS_ADDR", ""),

		SeedOnStart:     envutil.Bool("SEED_ON_START", false),
		SeedCatalogPath: envutil.String("SEED_CATALOG_PATH", ""),
	}
	cfg.Otel = observability.OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", serviceName),
		Environment: cfg.Env,
		Version:     cfg.Version,
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Headers:     observability.ParseOTLPHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; using the development secret")
		cfg.JWTSecretKey = devJWTSecret
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.IsProduction() && c.JWTSecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required in production"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.AccessTokenTTL))
	}
	switch strings.ToLower(c.DB.Driver) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}
	if c.LockWait <= 0 || c.LockTTL <= 0 {
		errs = append(errs, errors.New("PROGRESS_LOCK_TTL and PROGRESS_LOCK_WAIT must be positive"))
	}
	return errors.Join(errs...)
}
