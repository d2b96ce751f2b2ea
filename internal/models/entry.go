package models

import "time"

// Entry is one row of the local key-value store.
type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name stable across drivers.
func (Entry) TableName() string { return "kv_entries" }
