package models

import "time"

// Setting is a named blob, usually JSON, for settings edited at runtime.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:100;not null"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}
