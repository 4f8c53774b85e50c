package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   gateway endpoints), security settings
// - default: Values common across all environments (timeouts, limits, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Fiscal   FiscalConfig
	Catalog  CatalogConfig
	Terminal TerminalConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"America/Sao_Paulo"`

	MigrationsDir string `envconfig:"DB_MIGRATIONS_DIR" default:"migrations"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"15m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"America/Sao_Paulo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"-10800"` // -3*60*60
}

type JWTConfig struct {
	Secret          string        `envconfig:"JWT_SECRET" required:"true"`
	AccessDuration  time.Duration `envconfig:"JWT_ACCESS_DURATION" default:"15m"`
	RefreshDuration time.Duration `envconfig:"JWT_REFRESH_DURATION" default:"12h"`
}

// FiscalConfig points at the remote sale-creation service (NFC-e emission).
type FiscalConfig struct {
	BaseURL string        `envconfig:"FISCAL_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"FISCAL_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"FISCAL_TIMEOUT" default:"10s"`
}

// CatalogConfig points at the remote product/session service, the slowest
// tier of the loader chain.
type CatalogConfig struct {
	BaseURL    string        `envconfig:"CATALOG_BASE_URL" required:"true"`
	APIKey     string        `envconfig:"CATALOG_API_KEY" default:""`
	Timeout    time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
	FetchLimit int32         `envconfig:"CATALOG_FETCH_LIMIT" default:"2000"`
}

type TerminalConfig struct {
	// TrainingMode makes every checkout a simulation: no network call, no
	// persistence, synthetic document references.
	TrainingMode bool `envconfig:"TERMINAL_TRAINING_MODE" default:"false"`
	// ForceOffline skips the online attempt entirely and queues every sale.
	ForceOffline bool `envconfig:"TERMINAL_FORCE_OFFLINE" default:"false"`

	SyncInterval  time.Duration `envconfig:"TERMINAL_SYNC_INTERVAL" default:"30s"`
	SyncBatchSize int32         `envconfig:"TERMINAL_SYNC_BATCH_SIZE" default:"20"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "America/Sao_Paulo",

			MigrationsDir: "../../migrations",
		},
		Redis: RedisConfig{
			Addr:     "localhost:16379",
			CacheTTL: time.Minute,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "America/Sao_Paulo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: -10800,
		},
		JWT: JWTConfig{
			Secret:          "test-secret",
			AccessDuration:  15 * time.Minute,
			RefreshDuration: 12 * time.Hour,
		},
		Fiscal: FiscalConfig{
			BaseURL: "http://localhost:18080",
			APIKey:  "test",
			Timeout: time.Second,
		},
		Catalog: CatalogConfig{
			BaseURL:    "http://localhost:18081",
			Timeout:    time.Second,
			FetchLimit: 100,
		},
		Terminal: TerminalConfig{
			SyncInterval:  time.Second,
			SyncBatchSize: 10,
		},
	}
}
