package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	APIKey         string   `env:"API_KEY"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"1000"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"5m"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"underworld"`
	Version     string `env:"VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogDir      string `env:"LOG_DIR"`

	StorageEngine string        `env:"STORAGE_ENGINE" envDefault:"postgres"`
	DBUser        string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost        string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string        `env:"DB_PORT" envDefault:"5432"`
	DBName        string        `env:"DB_NAME" envDefault:"underworld"`
	DBMaxConns    int           `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMaxIdle     time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBMaxLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`

	CatalogPath      string        `env:"CATALOG_PATH" envDefault:"configs/catalog.yaml"`
	JournalPath      string        `env:"JOURNAL_PATH" envDefault:"data/journal.db"`
	JournalRetention time.Duration `env:"JOURNAL_RETENTION" envDefault:"720h"`

	RetryAttempts   int  `env:"RETRY_ATTEMPTS" envDefault:"3"`
	CooldownDevMode bool `env:"COOLDOWN_DEV_MODE" envDefault:"false"`

	EventMaxRetries     int           `env:"EVENT_MAX_RETRIES" envDefault:"5"`
	EventRetryDelay     time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
	EventDeadLetterPath string        `env:"EVENT_DEADLETTER_PATH" envDefault:"data/deadletter.jsonl"`

	AchievementCacheSize int           `env:"ACHIEVEMENT_CACHE_SIZE" envDefault:"4096"`
	AchievementCacheTTL  time.Duration `env:"ACHIEVEMENT_CACHE_TTL" envDefault:"10m"`

	WorkerCount     int `env:"WORKER_COUNT" envDefault:"4"`
	WorkerQueueSize int `env:"WORKER_QUEUE_SIZE" envDefault:"100"`

	Schedule ScheduleConfig `envPrefix:"SCHEDULE_"`
	Regen    RegenConfig    `envPrefix:"REGEN_"`
	Battle   BattleConfig   `envPrefix:"BATTLE_"`
	Market   MarketConfig   `envPrefix:"MARKET_"`

	OtelEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
}

// ScheduleConfig holds cron specs for background jobs
type ScheduleConfig struct {
	PropertyIncome string `env:"PROPERTY_INCOME" envDefault:"0 0 * * *"`
	Dividends      string `env:"DIVIDENDS" envDefault:"0 * * * *"`
	Regeneration   string `env:"REGENERATION" envDefault:"*/5 * * * *"`
	JournalCleanup string `env:"JOURNAL_CLEANUP" envDefault:"30 3 * * *"`
}

// RegenConfig holds the amounts restored per regeneration tick
type RegenConfig struct {
	Life      int `env:"LIFE" envDefault:"5"`
	Energy    int `env:"ENERGY" envDefault:"5"`
	Endurance int `env:"ENDURANCE" envDefault:"5"`
	Mood      int `env:"MOOD" envDefault:"2"`
}

// BattleConfig holds the battle tunables
type BattleConfig struct {
	AttackEnergyCost    int           `env:"ATTACK_ENERGY_COST" envDefault:"25"`
	StealFraction       float64       `env:"STEAL_FRACTION" envDefault:"0.10"`
	DamageVariance      float64       `env:"DAMAGE_VARIANCE" envDefault:"0"`
	BaseExperience      int64         `env:"BASE_EXPERIENCE" envDefault:"20"`
	HospitalBase        time.Duration `env:"HOSPITAL_BASE" envDefault:"30m"`
	HospitalPerDamage   time.Duration `env:"HOSPITAL_PER_DAMAGE" envDefault:"1m"`
	HospitalMaxDuration time.Duration `env:"HOSPITAL_MAX" envDefault:"24h"`
}

// MarketConfig holds stock market tunables
type MarketConfig struct {
	PriceImpact float64 `env:"PRICE_IMPACT" envDefault:"0.5"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed as env defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New(ErrMsgAPIKeyRequired)
	}
	if c.StorageEngine != StorageMemory && c.StorageEngine != StoragePostgres {
		return fmt.Errorf(ErrMsgUnknownStorage, c.StorageEngine)
	}
	if c.RetryAttempts < 1 {
		return errors.New(ErrMsgRetryAttempts)
	}
	if c.Battle.StealFraction < 0 || c.Battle.StealFraction > 1 {
		return errors.New(ErrMsgStealFraction)
	}
	if c.WorkerCount < 1 || c.WorkerQueueSize < 1 {
		return errors.New(ErrMsgWorkerPoolConfig)
	}
	return nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
