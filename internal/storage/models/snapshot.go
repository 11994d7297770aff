// internal/storage/models/snapshot.go
package models

import "time"

// TokenSnapshot - состояние конфигурации токена, прочитанное после операции.
// Суммы хранятся строками в целых единицах, чтобы не терять точность.
type TokenSnapshot struct {
	BaseModel
	Mint          string    `gorm:"index;not null;type:varchar(44)"`
	Supply        string    `gorm:"not null;type:varchar(40)"`
	MaxSupply     string    `gorm:"type:varchar(40)"`
	CurrentEra    uint32    `gorm:"not null"`
	CurrentEpoch  uint64    `gorm:"not null"`
	MintSizeEpoch string    `gorm:"type:varchar(40)"`
	Difficulty    float64
	Progress      string    `gorm:"type:varchar(16)"`
	ObservedAt    time.Time `gorm:"index;not null"`
}
