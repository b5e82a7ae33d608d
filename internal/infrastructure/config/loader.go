package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override, e.g. CW_DATABASE_HOST
const EnvPrefix = "CW"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	return loadConfig(getEnvironment(), ConfigPaths)
}

func loadConfig(env string, paths []string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// CW_DATABASE_HOST overrides database.host and so on
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.isolationLevel", "SERIALIZABLE")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("transaction.maxRetries", 5)
	v.SetDefault("transaction.retryIntervalMs", 20)
	v.SetDefault("transaction.maxRetryBackoffMs", 1000)

	v.SetDefault("pricing.currency", "NPR")

	v.SetDefault("session.reservationTTL", 30) // minutes
	v.SetDefault("session.activeGrace", 15)    // minutes
	v.SetDefault("session.sweepInterval", 60)  // seconds
	v.SetDefault("session.sweepBatchSize", 100)
	v.SetDefault("session.videoBaseURL", "https://videos.example.com/watch")

	v.SetDefault("assessment.timeout", 10) // seconds

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.eventsKey", "coaching-wallet:events")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.issuer", "coaching-wallet")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerSecond", 20)
	v.SetDefault("rateLimit.burst", 40)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// getEnvironment determines the environment to use based on CW_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides maps the short secret variables onto their config keys.
// AutomaticEnv only covers keys that viper already knows about.
func processEnvOverrides(v *viper.Viper) {
	overrides := map[string]string{
		"CW_DB_DRIVER":      "database.driver",
		"CW_DB_HOST":        "database.host",
		"CW_DB_PORT":        "database.port",
		"CW_DB_USERNAME":    "database.username",
		"CW_DB_PASSWORD":    "database.password",
		"CW_DB_NAME":        "database.database",
		"CW_DB_SSL_MODE":    "database.sslMode",
		"CW_SERVER_PORT":    "server.port",
		"CW_LOGGER_LEVEL":   "logger.level",
		"CW_JWT_SECRET":     "auth.jwtSecret",
		"CW_REDIS_URL":      "redis.url",
		"CW_REDIS_PASSWORD": "redis.password",
		"CW_ASSESSMENT_URL": "assessment.endpoint",
		"CW_ASSESSMENT_KEY": "assessment.apiKey",
	}

	for env, key := range overrides {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}
}

// processDurations converts raw numbers into durations of the unit documented on each field.
// Values written with a unit ("90s") decode to at least a millisecond and are left alone.
func processDurations(config *Config) {
	config.Server.ReadTimeout = scale(config.Server.ReadTimeout, time.Second)
	config.Server.WriteTimeout = scale(config.Server.WriteTimeout, time.Second)
	config.Server.IdleTimeout = scale(config.Server.IdleTimeout, time.Second)
	config.Server.ReadHeaderTimeout = scale(config.Server.ReadHeaderTimeout, time.Second)
	config.Server.ShutdownTimeout = scale(config.Server.ShutdownTimeout, time.Second)

	config.Database.ConnMaxLifetime = scale(config.Database.ConnMaxLifetime, time.Minute)
	config.Database.ConnMaxIdleTime = scale(config.Database.ConnMaxIdleTime, time.Minute)
	config.Database.QueryTimeout = scale(config.Database.QueryTimeout, time.Second)
	config.Database.RetryDelay = scale(config.Database.RetryDelay, time.Second)

	config.Transaction.RetryInterval = scale(config.Transaction.RetryInterval, time.Millisecond)
	config.Transaction.MaxRetryBackoff = scale(config.Transaction.MaxRetryBackoff, time.Millisecond)

	config.Session.ReservationTTL = scale(config.Session.ReservationTTL, time.Minute)
	config.Session.ActiveGrace = scale(config.Session.ActiveGrace, time.Minute)
	config.Session.SweepInterval = scale(config.Session.SweepInterval, time.Second)

	config.Assessment.Timeout = scale(config.Assessment.Timeout, time.Second)
}

func scale(d, unit time.Duration) time.Duration {
	if d > 0 && d < time.Millisecond {
		return d * unit
	}
	return d
}
