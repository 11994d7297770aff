// internal/storage/models/operation.go
package models

// Operation - одна попытка команды (init, launch, set-urc, mint), включая
// отклонённые до отправки. Signature пуст, если транзакция не отправлялась.
type Operation struct {
	BaseModel
	Signature    string `gorm:"index;type:varchar(88)"`
	Operation    string `gorm:"index;not null;type:varchar(32)"`
	Network      string `gorm:"not null;type:varchar(16)"`
	Mint         string `gorm:"index;type:varchar(44)"`
	Actor        string `gorm:"index;not null;type:varchar(44)"`
	Code         string `gorm:"type:varchar(64)"`
	Outcome      string `gorm:"not null;type:varchar(32)"`
	ErrorKind    string `gorm:"type:varchar(32)"`
	ErrorMessage string `gorm:"type:text"`
	Slot         uint64
	DurationMs   int64
	// Minted - разница баланса токена до и после, в целых единицах.
	Minted string `gorm:"type:varchar(40)"`
}
