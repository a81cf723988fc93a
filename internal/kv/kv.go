// Package kv persists named string values. Each key holds one value that is
// overwritten as a whole on every write.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alarm-clock-backend/internal/model"
)

// Store defines the key-value slot operations.
type Store interface {
	// Get returns the value under key. ok is false when the key was never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error
}

// gormStore implements Store on a kv_slots table.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed key-value store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

func (s *gormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var slot model.KVSlot
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return slot.Value, true, nil
}

func (s *gormStore) Set(ctx context.Context, key, value string) error {
	slot := model.KVSlot{
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}
