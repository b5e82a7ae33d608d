package migration

import (
	"context"
	"errors"
	"time"

	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.2.0"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db               *gorm.DB
	logger           coreport.Logger
	timeProvider     coreport.TimeProvider
	advancedIndexMgr *AdvancedIndexManager
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:               db,
		logger:           logger,
		timeProvider:     timeProvider,
		advancedIndexMgr: NewAdvancedIndexManager(db, logger),
	}
}

// MigrateAll performs all migrations
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
		"dialect":        m.dialect(),
	})

	if err := m.db.WithContext(ctx).AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	m.logger.Info("Current database version", map[string]any{
		"version": currentVersion,
	})

	if err := m.autoMigrateModels(ctx); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.runVersionedMigrations(ctx, currentVersion); err != nil {
		m.logger.Error("Failed to run versioned migrations", map[string]any{
			"error":           err.Error(),
			"current_version": currentVersion,
			"target_version":  CurrentSchemaVersion,
		})
		return err
	}

	// Partial and BRIN indexes only exist on PostgreSQL
	if m.dialect() == "postgres" {
		if err := m.advancedIndexMgr.CreateAdvancedIndexes(ctx); err != nil {
			m.logger.Error("Failed to create advanced indexes", map[string]any{
				"error": err.Error(),
			})
			return err
		}
		m.advancedIndexMgr.CreatePerformanceTweaks(ctx)
	}

	if err := m.setVersion(ctx, CurrentSchemaVersion, "Wallets, ledger and coaching sessions"); err != nil {
		m.logger.Error("Failed to update schema version", map[string]any{
			"error":   err.Error(),
			"version": CurrentSchemaVersion,
		})
		return err
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// GetCurrentVersion gets the current migration version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("applied_at desc, id desc").First(&version)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}

	return version.Version, nil
}

func (m *MigrationManager) dialect() string {
	return m.db.Dialector.Name()
}

// setVersion records a new migration version
func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	var appliedAt time.Time
	if m.timeProvider != nil {
		appliedAt = m.timeProvider.Now()
	} else {
		appliedAt = time.Now()
	}

	migrationVersion := model.MigrationVersion{
		Version:   version,
		Dialect:   m.dialect(),
		AppliedAt: appliedAt.UTC(),
		Details:   details,
	}

	return m.db.WithContext(ctx).Create(&migrationVersion).Error
}

// autoMigrateModels auto-migrates database models
func (m *MigrationManager) autoMigrateModels(ctx context.Context) error {
	m.logger.Info("Auto-migrating database models", nil)

	return m.db.WithContext(ctx).AutoMigrate(
		&model.Wallet{},
		&model.Transaction{},
		&model.Session{},
	)
}

// runVersionedMigrations runs migrations specific to version transitions
func (m *MigrationManager) runVersionedMigrations(ctx context.Context, currentVersion string) error {
	m.logger.Info("Running versioned migrations", map[string]any{
		"from": currentVersion,
		"to":   CurrentSchemaVersion,
	})

	switch currentVersion {
	case "":
		return nil
	case "1.0.0":
		if err := m.migrateFrom1_0_0To1_1_0(ctx); err != nil {
			return err
		}
		return m.migrateFrom1_1_0To1_2_0(ctx)
	case "1.1.0":
		return m.migrateFrom1_1_0To1_2_0(ctx)
	}

	return nil
}

// migrateFrom1_0_0To1_1_0 links bonus rows written before related_id existed
// to the top-up recorded in the same wallet at the same instant.
func (m *MigrationManager) migrateFrom1_0_0To1_1_0(ctx context.Context) error {
	m.logger.Info("Migrating from v1.0.0 to v1.1.0", nil)

	result := m.db.WithContext(ctx).Exec(`
		UPDATE transactions SET related_id = (
			SELECT t.id FROM transactions t
			WHERE t.wallet_id = transactions.wallet_id
			  AND t.type = 'topup'
			  AND t.created_at = transactions.created_at
			LIMIT 1
		)
		WHERE type = 'bonus' AND related_id IS NULL
	`)
	if result.Error != nil {
		return result.Error
	}

	m.logger.Info("Linked bonus transactions to their top-ups", map[string]any{
		"rows": result.RowsAffected,
	})
	return nil
}

// migrateFrom1_1_0To1_2_0 fills due_at for sessions that were already active
// when the column was added, so the stale-session sweeper can see them.
func (m *MigrationManager) migrateFrom1_1_0To1_2_0(ctx context.Context) error {
	m.logger.Info("Migrating from v1.1.0 to v1.2.0", nil)

	var active []model.Session
	err := m.db.WithContext(ctx).
		Where("status = ? AND started_at IS NOT NULL AND due_at IS NULL", "active").
		Find(&active).Error
	if err != nil {
		return err
	}

	for _, session := range active {
		due := session.StartedAt.Add(time.Duration(session.DurationMinutes.IntPart()) * time.Minute)
		err := m.db.WithContext(ctx).Model(&model.Session{}).
			Where("id = ?", session.ID).
			Update("due_at", due.UTC()).Error
		if err != nil {
			return err
		}
	}

	m.logger.Info("Backfilled due_at of active sessions", map[string]any{
		"rows": len(active),
	})
	return nil
}
