package model

import "time"

// KVSlot is a single named value in the key-value store.
type KVSlot struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
