// internal/fairmint/state/view.go
package state

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenConfigView - представление конфигурации токена в целых единицах.
// Raw хранит исходные целые значения для арифметики.
type TokenConfigView struct {
	Raw TokenConfigData

	FeeRate         decimal.Decimal // SOL за один минт
	MaxSupply       decimal.Decimal
	InitialMintSize decimal.Decimal
	Supply          decimal.Decimal

	MintSizeEpoch       decimal.Decimal
	QuantityMintedEpoch decimal.Decimal
	TargetMintSizeEpoch decimal.Decimal

	CurrentEra     uint32
	CurrentEpoch   uint64
	EpochStartedAt time.Time

	DifficultyCoefficient     float64
	LastDifficultyCoefficient float64
}

// NewTokenConfigView строит представление из декодированной записи.
func NewTokenConfigView(c *TokenConfigData) TokenConfigView {
	ms := c.MintState
	return TokenConfigView{
		Raw:                       *c,
		FeeRate:                   ToUnits(c.FeeRate),
		MaxSupply:                 ToUnits(c.MaxSupply),
		InitialMintSize:           ToUnits(c.InitialMintSize),
		Supply:                    ToUnits(ms.Supply),
		MintSizeEpoch:             ToUnits(ms.MintSizeEpoch),
		QuantityMintedEpoch:       ToUnits(ms.QuantityMintedEpoch),
		TargetMintSizeEpoch:       ToUnits(ms.TargetMintSizeEpoch),
		CurrentEra:                ms.CurrentEra,
		CurrentEpoch:              ms.CurrentEpoch,
		EpochStartedAt:            time.Unix(ms.StartTimestampEpoch, 0).UTC(),
		DifficultyCoefficient:     ms.DifficultyCoefficientEpoch,
		LastDifficultyCoefficient: ms.LastDifficultyCoefficientEpoch,
	}
}

// Progress возвращает долю выпущенного предложения в процентах.
func (v TokenConfigView) Progress() decimal.Decimal {
	if v.MaxSupply.IsZero() {
		return decimal.Zero
	}
	return v.Supply.Div(v.MaxSupply).Mul(decimal.NewFromInt(100)).Round(2)
}

// Graduated сообщает, достигнута ли эпоха выпуска в пул.
func (v TokenConfigView) Graduated() bool {
	g := v.Raw.MintState.GraduateEpoch
	return g > 0 && uint64(g) <= v.CurrentEpoch
}

// SystemConfigView - представление системной конфигурации.
type SystemConfigView struct {
	Raw SystemConfigData

	UpdateMetadataFee    decimal.Decimal
	CustomizedDeployFee  decimal.Decimal
	MinGraduateFee       decimal.Decimal
	RaydiumCpmmCreateFee decimal.Decimal

	// InitPoolWsolPercent хранится программой в тысячных долях.
	InitPoolWsolPercent decimal.Decimal
	RefundFeePercent    decimal.Decimal
	ReferrerReset       time.Duration
}

// NewSystemConfigView строит представление из декодированной записи.
func NewSystemConfigView(c *SystemConfigData) SystemConfigView {
	return SystemConfigView{
		Raw:                  *c,
		UpdateMetadataFee:    ToUnits(c.UpdateMetadataFee),
		CustomizedDeployFee:  ToUnits(c.CustomizedDeployFee),
		MinGraduateFee:       ToUnits(c.MinGraduateFee),
		RaydiumCpmmCreateFee: ToUnits(c.RaydiumCpmmCreateFee),
		InitPoolWsolPercent:  decimal.NewFromInt(int64(c.InitPoolWsolAmount)).Div(decimal.NewFromInt(1000)),
		RefundFeePercent:     decimal.NewFromFloat(c.RefundFeeRate).Mul(decimal.NewFromInt(100)).Round(2),
		ReferrerReset:        time.Duration(c.ReferrerResetIntervalSeconds) * time.Second,
	}
}
