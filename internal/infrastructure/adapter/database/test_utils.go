package database

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/model"
	"github.com/shopspring/decimal"
)

var testDBCounter atomic.Int64

// TestDBManager provides an isolated in-memory SQLite database per test
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       core.Logger
	TimeProvider core.TimeProvider
}

// NewTestDBManager creates a test database manager backed by a private in-memory SQLite database
func NewTestDBManager(t *testing.T, logger core.Logger, timeProvider core.TimeProvider) *TestDBManager {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	config := &Config{
		Driver:         DriverSQLite,
		Database:       fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, testDBCounter.Add(1)),
		IsolationLevel: "",
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		QueryTimeout:   5 * time.Second,
		LogLevel:       "silent",
		RetryAttempts:  1,
	}
	return newTestDBManager(config, logger, timeProvider)
}

// NewConcurrentTestDBManager creates a test database manager backed by a SQLite file in a
// temporary directory with a pool of maxOpenConns connections, so that goroutines really
// run their units of work side by side. Transactions begin IMMEDIATE and wait on the
// busy timeout, which makes SQLite serialize writers the way row locks do on Postgres.
func NewConcurrentTestDBManager(t *testing.T, logger core.Logger, timeProvider core.TimeProvider, maxOpenConns int) *TestDBManager {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wallet.db")
	config := &Config{
		Driver:         DriverSQLite,
		Database:       fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate", path),
		IsolationLevel: "",
		MaxOpenConns:   maxOpenConns,
		MaxIdleConns:   maxOpenConns,
		QueryTimeout:   10 * time.Second,
		LogLevel:       "silent",
		RetryAttempts:  1,
	}
	return newTestDBManager(config, logger, timeProvider)
}

func newTestDBManager(config *Config, logger core.Logger, timeProvider core.TimeProvider) *TestDBManager {
	manager := NewManager(config, logger, timeProvider, nil)
	manager.SetRetryConfig(RetryConfig{
		MaxRetries:    3,
		RetryInterval: time.Millisecond,
		MaxInterval:   5 * time.Millisecond,
	})

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// Connect opens the database and migrates the schema
func (m *TestDBManager) Connect(t *testing.T) {
	t.Helper()

	if _, err := m.Manager.Connect(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := m.Manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { m.Close(t) })
}

// Close closes the test database connection
func (m *TestDBManager) Close(t *testing.T) {
	t.Helper()

	if err := m.Manager.Close(); err != nil {
		t.Logf("Warning: Failed to close test database connection: %v", err)
	}
}

// TruncateAllTables removes every row written by a test
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()

	db := m.Manager.DB()
	for _, table := range []string{"transactions", "coaching_sessions", "wallets"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("Failed to truncate %s: %v", table, err)
		}
	}
}

// CreateTestWallet inserts a wallet with the given balance directly, bypassing the ledger
func (m *TestDBManager) CreateTestWallet(t *testing.T, id string, userID uint64, balance string) {
	t.Helper()

	now := m.TimeProvider.Now().UTC()
	wallet := model.Wallet{
		ID:              id,
		UserID:          userID,
		Balance:         decimal.RequireFromString(balance),
		ReservedBalance: decimal.Zero,
		Currency:        "USD",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := m.Manager.DB().Create(&wallet).Error; err != nil {
		t.Fatalf("Failed to create test wallet: %v", err)
	}
}
