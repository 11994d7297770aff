// internal/storage/models/pool.go
package models

// PoolInfo - адреса CP-swap пула, связанного с минтом.
type PoolInfo struct {
	BaseModel
	PoolID    string `gorm:"unique;not null;type:varchar(44)"`
	Mint      string `gorm:"uniqueIndex;not null;type:varchar(44)"`
	Token0    string `gorm:"not null;type:varchar(44)"`
	Token1    string `gorm:"not null;type:varchar(44)"`
	LPMint    string `gorm:"not null;type:varchar(44)"`
	AmmConfig string `gorm:"not null;type:varchar(44)"`
}
