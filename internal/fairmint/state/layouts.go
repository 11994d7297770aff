// internal/fairmint/state/layouts.go
package state

import (
	"github.com/gagliardetto/solana-go"
)

// Размер Anchor-дискриминатора аккаунта.
const DiscriminatorSize = 8

// Размеры borsh-раскладок без дискриминатора.
const (
	SystemConfigSize  = 32 + 8 + 4 + 32 + 8 + 8 + 8 + 8 + 8 + 8 + 8 + 8 + 1
	MintStateSize     = 8 + 4 + 8 + 8 + 8 + 8 + 8 + 8 + 8 + 8 + 4
	TokenConfigSize   = 32 + 8 + 8 + 4 + 8 + 8 + 8 + 8 + 32 + 8 + MintStateSize
	TokenReferralSize = 32 + 32 + 4 + 32 + 32 + 8 + 1
	CodeAccountSize   = 32
)

// SystemConfigData - singleton-конфигурация программы.
type SystemConfigData struct {
	Admin                        solana.PublicKey
	Count                        uint64
	ReferralUsageMaxCount        uint32
	ProtocolFeeAccount           solana.PublicKey
	RefundFeeRate                float64
	ReferrerResetIntervalSeconds int64
	UpdateMetadataFee            uint64
	CustomizedDeployFee          uint64
	InitPoolWsolAmount           uint64
	GraduateFeeRate              uint64
	MinGraduateFee               uint64
	RaydiumCpmmCreateFee         uint64
	IsPause                      bool
}

// MintStateData - вложенное состояние эпохи/эры токена.
type MintStateData struct {
	Supply                         uint64
	CurrentEra                     uint32
	CurrentEpoch                   uint64
	ElapsedSecondsEpoch            uint64
	StartTimestampEpoch            int64
	LastDifficultyCoefficientEpoch float64
	DifficultyCoefficientEpoch     float64
	MintSizeEpoch                  uint64
	QuantityMintedEpoch            uint64
	TargetMintSizeEpoch            uint64
	GraduateEpoch                  uint32
}

// TokenConfigData - конфигурация одного токена.
type TokenConfigData struct {
	Admin                 solana.PublicKey
	FeeRate               uint64
	MaxSupply             uint64
	TargetEras            uint32
	InitialMintSize       uint64
	EpochesPerEra         uint64
	TargetSecondsPerEpoch uint64
	ReduceRatio           float64
	TokenVault            solana.PublicKey
	LiquidityTokensRatio  float64
	MintState             MintStateData
}

// TokenReferralData - реферальная запись для пары (mint, referrer).
type TokenReferralData struct {
	ReferrerMain    solana.PublicKey
	ReferrerAta     solana.PublicKey
	UsageCount      uint32
	CodeHash        solana.PublicKey
	Mint            solana.PublicKey
	ActiveTimestamp int64
	IsProcessing    bool
}

// CodeAccountData - запись кода, указывающая на реферальную запись.
type CodeAccountData struct {
	ReferralAccount solana.PublicKey
}
