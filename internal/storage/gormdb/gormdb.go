// Package gormdb persists saves through GORM, so the same backend serves
// Postgres and the local SQLite fallback.
package gormdb

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Pugzilla88/orbitx/internal/model"
	"github.com/Pugzilla88/orbitx/internal/model/convert"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

// Backend stores saves in a relational database via GORM
type Backend struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New creates a new GORM backend. The caller owns the connection.
func New(db *gorm.DB, logger zerolog.Logger) *Backend {
	return &Backend{db: db, logger: logger}
}

// Init migrates the save tables.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate save tables: %w", err)
	}
	return nil
}

// Close is a no-op; the database manager owns the connection.
func (b *Backend) Close() error {
	return nil
}

// SaveSnapshot stores the snapshot under the given name, replacing any
// previous save with that name in one transaction.
func (b *Backend) SaveSnapshot(name string, snap *core.Snapshot) error {
	save := convert.SnapshotToSave(name, snap)

	err := b.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Save
		err := tx.Where("name = ?", name).First(&existing).Error
		if err == nil {
			if err := tx.Where("save_id = ?", existing.ID).Delete(&model.SaveEntity{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&save).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", name, err)
	}

	b.logger.Debug().Str("name", name).Int("entities", len(save.Entities)).Msg("snapshot saved")
	return nil
}

// LoadSnapshot returns the named save as a snapshot.
func (b *Backend) LoadSnapshot(name string) (*core.Snapshot, error) {
	var save model.Save
	err := b.db.Preload("Entities").Where("name = ?", name).First(&save).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", core.ErrSaveNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", name, err)
	}

	snap := convert.SaveToSnapshot(&save)
	return &snap, nil
}

// ListSnapshots returns info for all stored saves, ordered by name.
func (b *Backend) ListSnapshots() ([]core.SaveInfo, error) {
	var saves []model.Save
	if err := b.db.Preload("Entities").Order("name").Find(&saves).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	infos := make([]core.SaveInfo, 0, len(saves))
	for i := range saves {
		infos = append(infos, core.SaveInfo{
			Name:      saves[i].Name,
			Timestamp: saves[i].Timestamp,
			Entities:  len(saves[i].Entities),
			SavedAt:   saves[i].SavedAt,
		})
	}
	return infos, nil
}
