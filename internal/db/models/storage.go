package models

// StorageEntry backs the fiber storage interface on engines without a
// dedicated storage driver.
type StorageEntry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte `gorm:"type:blob"`
	ExpiresAt int64  `gorm:"index"` // unix seconds, 0 never expires
}
