package config

import (
	"fmt"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Transaction TransactionConfig `mapstructure:"transaction"`
	Pricing     PricingConfig     `mapstructure:"pricing"`
	Session     SessionConfig     `mapstructure:"session"`
	Assessment  AssessmentConfig  `mapstructure:"assessment"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Auth        AuthConfig        `mapstructure:"auth"`
	RateLimit   RateLimitConfig   `mapstructure:"rateLimit"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	IsolationLevel  string        `mapstructure:"isolationLevel"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// TransactionConfig controls retries of storage transactions that hit transient conflicts
type TransactionConfig struct {
	MaxRetries      int           `mapstructure:"maxRetries"`
	RetryInterval   time.Duration `mapstructure:"retryIntervalMs"` // milliseconds
	MaxRetryBackoff time.Duration `mapstructure:"maxRetryBackoffMs"`
}

// DurationBoundsConfig is the inclusive booking range of an activity kind in minutes
type DurationBoundsConfig struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// BonusTierConfig is one top-up bonus tier
type BonusTierConfig struct {
	Threshold  string `mapstructure:"threshold"`
	Percentage string `mapstructure:"percentage"`
}

// PricingConfig contains rates, booking limits and bonus tiers.
// Amounts are decimal strings so they never pass through float64.
type PricingConfig struct {
	Currency   string                          `mapstructure:"currency"`
	Rates      map[string]string               `mapstructure:"rates"`
	Durations  map[string]DurationBoundsConfig `mapstructure:"durations"`
	BonusTiers []BonusTierConfig               `mapstructure:"bonusTiers"`
}

// SessionConfig contains session lifecycle settings
type SessionConfig struct {
	ReservationTTL time.Duration `mapstructure:"reservationTTL"` // minutes
	ActiveGrace    time.Duration `mapstructure:"activeGrace"`    // minutes
	SweepInterval  time.Duration `mapstructure:"sweepInterval"`  // seconds
	SweepBatchSize int           `mapstructure:"sweepBatchSize"`
	VideoBaseURL   string        `mapstructure:"videoBaseURL"`
}

// AssessmentConfig points at the answer scoring service.
// An empty endpoint selects the built-in heuristic assessor.
type AssessmentConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"apiKey"`
	Timeout  time.Duration `mapstructure:"timeout"` // seconds
}

// RedisConfig contains the domain event sink settings
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	URL       string `mapstructure:"url"`
	Password  string `mapstructure:"password"`
	EventsKey string `mapstructure:"eventsKey"`
}

// AuthConfig contains bearer token settings
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwtSecret"`
	Issuer    string `mapstructure:"issuer"`
}

// RateLimitConfig contains per-client token bucket settings
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond"`
	Burst             int     `mapstructure:"burst"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// CostModel builds the pricing model, falling back to defaults for missing entries
func (p PricingConfig) CostModel() (*entity.CostModel, error) {
	rates := entity.DefaultRates()
	for name, raw := range p.Rates {
		activity, err := entity.ParseActivityType(name)
		if err != nil {
			return nil, fmt.Errorf("pricing.rates: %w", err)
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("pricing.rates.%s: %w", name, err)
		}
		rates[activity] = rate
	}

	bounds := entity.DefaultDurationBounds()
	for kind, b := range p.Durations {
		switch entity.ActivityKind(kind) {
		case entity.ActivityKindVoice, entity.ActivityKindVideo:
			bounds[entity.ActivityKind(kind)] = entity.DurationBounds{Min: b.Min, Max: b.Max}
		default:
			return nil, fmt.Errorf("pricing.durations: unknown activity kind %q", kind)
		}
	}

	return entity.NewCostModel(rates, bounds)
}

// BonusPolicy builds the top-up bonus policy; no tiers configured means the defaults
func (p PricingConfig) BonusPolicy() (*entity.BonusPolicy, error) {
	if len(p.BonusTiers) == 0 {
		return entity.DefaultBonusPolicy(), nil
	}

	tiers := make([]entity.BonusTier, 0, len(p.BonusTiers))
	for i, t := range p.BonusTiers {
		threshold, err := decimal.NewFromString(t.Threshold)
		if err != nil {
			return nil, fmt.Errorf("pricing.bonusTiers[%d].threshold: %w", i, err)
		}
		percentage, err := decimal.NewFromString(t.Percentage)
		if err != nil {
			return nil, fmt.Errorf("pricing.bonusTiers[%d].percentage: %w", i, err)
		}
		tiers = append(tiers, entity.BonusTier{Threshold: threshold, Percentage: percentage})
	}

	return entity.NewBonusPolicy(tiers)
}
