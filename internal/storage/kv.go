// Package storage persists the application state and sync metadata on the
// local device as string values under fixed keys.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/go-shop/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KV is a string key-value store backed by the kv_entries table.
type KV struct {
	db *gorm.DB
}

func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (k *KV) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var e models.Entry
	err = k.db.WithContext(ctx).Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

// Set overwrites the value stored under key.
func (k *KV) Set(ctx context.Context, key, value string) error {
	e := models.Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return k.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

// Delete removes key. Deleting an absent key is not an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	return k.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&models.Entry{}).Error
}
