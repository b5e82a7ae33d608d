package database

import (
	"fmt"

	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/config"
)

// CreateConfigFromViperConfig adapts the global configuration to database configuration.
// CW_DB_* environment variables win over file values.
func CreateConfigFromViperConfig(conf *config.Config) *Config {
	dbConf := DefaultConfig()

	if dbConf.Host == "" {
		dbConf.Host = conf.Database.Host
	}
	if p := ParsePort(conf.Database.Port); p > 0 && configEnv("CW_DB_PORT") == "" {
		dbConf.Port = p
	}
	if dbConf.Username == "" {
		dbConf.Username = conf.Database.Username
	}
	if dbConf.Password == "" {
		dbConf.Password = conf.Database.Password
	}
	if dbConf.Database == "" {
		dbConf.Database = conf.Database.Database
	}
	if conf.Database.Driver != "" && configEnv("CW_DB_DRIVER") == "" {
		dbConf.Driver = conf.Database.Driver
	}

	if conf.Database.SSLMode != "" {
		dbConf.SSLMode = conf.Database.SSLMode
	}
	if conf.Database.IsolationLevel != "" {
		dbConf.IsolationLevel = conf.Database.IsolationLevel
	}
	if conf.Database.MaxOpenConns > 0 {
		dbConf.MaxOpenConns = conf.Database.MaxOpenConns
	}
	if conf.Database.MaxIdleConns > 0 {
		dbConf.MaxIdleConns = conf.Database.MaxIdleConns
	}
	if conf.Database.ConnMaxLifetime > 0 {
		dbConf.ConnMaxLifetime = conf.Database.ConnMaxLifetime
	}
	if conf.Database.ConnMaxIdleTime > 0 {
		dbConf.ConnMaxIdleTime = conf.Database.ConnMaxIdleTime
	}
	if conf.Database.QueryTimeout > 0 {
		dbConf.QueryTimeout = conf.Database.QueryTimeout
	}
	if conf.Database.RetryAttempts >= 0 {
		dbConf.RetryAttempts = conf.Database.RetryAttempts
	}
	if conf.Database.RetryDelay > 0 {
		dbConf.RetryDelay = int(conf.Database.RetryDelay.Seconds())
	}
	if conf.Logger.Level != "" {
		dbConf.LogLevel = conf.Logger.Level
	}

	return dbConf
}

// RetryConfigFromViperConfig builds the unit of work retry policy
func RetryConfigFromViperConfig(conf *config.Config) RetryConfig {
	retry := DefaultRetryConfig()
	if conf.Transaction.MaxRetries > 0 {
		retry.MaxRetries = conf.Transaction.MaxRetries
	}
	if conf.Transaction.RetryInterval > 0 {
		retry.RetryInterval = conf.Transaction.RetryInterval
	}
	if conf.Transaction.MaxRetryBackoff > 0 {
		retry.MaxInterval = conf.Transaction.MaxRetryBackoff
	}
	return retry
}

// ParsePort converts a port string to an int
func ParsePort(port string) int {
	var p int
	_, err := fmt.Sscanf(port, "%d", &p)
	if err != nil || p <= 0 || p > 65535 {
		return 0
	}
	return p
}
