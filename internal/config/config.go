// Package config holds the service configuration loaded from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/ramusparts/catalog/internal/fitment"
	"github.com/ramusparts/catalog/internal/taxonomy"
	"github.com/ramusparts/catalog/pkg/config"
	"github.com/ramusparts/catalog/pkg/database"
)

// Config is the full service configuration.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"catalog-engine"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Engine   EngineConfig
}

// PostgresConfig maps environment variables onto the shared pool settings.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"catalog"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"catalog_secret"`
	DBName   string `env:"POSTGRES_DB" envDefault:"catalog"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"25"`
	MinConns int32  `env:"POSTGRES_MIN_CONNS" envDefault:"5"`
}

// RedisConfig maps environment variables onto the Redis client settings.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// KafkaConfig maps environment variables onto the Kafka producer settings.
// An empty broker list disables event publishing.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
}

// EngineConfig holds the classification engine tunables. The scoring weight
// table and the fitment fallback policy are configuration, not constants.
type EngineConfig struct {
	CatchAllSlug    string        `env:"CATCH_ALL_SLUG" envDefault:"other"`
	FitmentFallback string        `env:"FITMENT_FALLBACK" envDefault:"all"`
	Concurrency     int           `env:"CLASSIFY_CONCURRENCY" envDefault:"8"`
	BatchSize       int           `env:"ASSOCIATION_BATCH_SIZE" envDefault:"5000"`
	LockTTL         time.Duration `env:"PASS_LOCK_TTL" envDefault:"10m"`
	ConfigCacheTTL  time.Duration `env:"VEHICLE_CONFIG_CACHE_TTL" envDefault:"5m"`

	PhraseBonus       float64 `env:"SCORE_PHRASE_BONUS" envDefault:"1000"`
	KeywordMatch      float64 `env:"SCORE_KEYWORD_MATCH" envDefault:"150"`
	DepthWeight       float64 `env:"SCORE_DEPTH_WEIGHT" envDefault:"100"`
	Coverage          float64 `env:"SCORE_COVERAGE" envDefault:"20"`
	SynonymBonus      float64 `env:"SCORE_SYNONYM_BONUS" envDefault:"50"`
	AbbreviationBonus float64 `env:"SCORE_ABBREVIATION_BONUS" envDefault:"200"`
	MinKeywordMatches int     `env:"SCORE_MIN_KEYWORD_MATCHES" envDefault:"2"`
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if c.Engine.CatchAllSlug == "" {
		return fmt.Errorf("CATCH_ALL_SLUG must not be empty")
	}
	if c.Engine.Concurrency <= 0 {
		return fmt.Errorf("CLASSIFY_CONCURRENCY must be positive, got %d", c.Engine.Concurrency)
	}
	if c.Engine.BatchSize <= 0 {
		return fmt.Errorf("ASSOCIATION_BATCH_SIZE must be positive, got %d", c.Engine.BatchSize)
	}
	if _, err := fitment.ParseFallbackPolicy(c.Engine.FitmentFallback); err != nil {
		return err
	}
	return nil
}

// FallbackPolicy returns the parsed fitment fallback policy. Load validated
// the raw value already.
func (c *EngineConfig) FallbackPolicy() fitment.FallbackPolicy {
	policy, err := fitment.ParseFallbackPolicy(c.FitmentFallback)
	if err != nil {
		return fitment.FallbackAll
	}
	return policy
}

// ScoringWeights returns the configured scoring weight table.
func (c *EngineConfig) ScoringWeights() taxonomy.Weights {
	return taxonomy.Weights{
		PhraseBonus:       c.PhraseBonus,
		KeywordMatch:      c.KeywordMatch,
		DepthWeight:       c.DepthWeight,
		Coverage:          c.Coverage,
		SynonymBonus:      c.SynonymBonus,
		AbbreviationBonus: c.AbbreviationBonus,
		MinKeywordMatches: c.MinKeywordMatches,
	}
}

// PoolConfig converts the env-mapped settings into the shared pool config.
func (c *PostgresConfig) PoolConfig() database.PostgresConfig {
	pool := database.DefaultPostgresConfig()
	pool.Host = c.Host
	pool.Port = c.Port
	pool.User = c.User
	pool.Password = c.Password
	pool.DBName = c.DBName
	pool.SSLMode = c.SSLMode
	pool.MaxConns = c.MaxConns
	pool.MinConns = c.MinConns
	return pool
}

// ClientConfig converts the env-mapped settings into the shared Redis config.
func (c *RedisConfig) ClientConfig() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
	}
}
