// internal/config/token_params.go
package config

import (
	"errors"
	"sort"
)

// TokenParams - пресет параметров эмиссии для команды launch.
// Суммы указаны в сырых единицах с 9 знаками.
type TokenParams struct {
	TargetEras                    uint32 `mapstructure:"target_eras"`
	EpochesPerEra                 uint64 `mapstructure:"epoches_per_era"`
	TargetSecondsPerEpoch         uint64 `mapstructure:"target_seconds_per_epoch"`
	ReduceRatio                   uint64 `mapstructure:"reduce_ratio"`
	InitialMintSize               uint64 `mapstructure:"initial_mint_size"`
	InitialTargetMintSizePerEpoch uint64 `mapstructure:"initial_target_mint_size_per_epoch"`
	FeeRate                       uint64 `mapstructure:"fee_rate"`
	LiquidityTokensRatio          uint64 `mapstructure:"liquidity_tokens_ratio"`
}

const unit = 1_000_000_000

// DefaultTokenParams возвращает встроенные пресеты.
func DefaultTokenParams() map[string]TokenParams {
	return map[string]TokenParams{
		"meme": {
			TargetEras:                    1,
			EpochesPerEra:                 200,
			TargetSecondsPerEpoch:         60,
			ReduceRatio:                   50,
			InitialMintSize:               10_000 * unit,
			InitialTargetMintSizePerEpoch: 1_000_000 * unit,
			FeeRate:                       unit / 10,
			LiquidityTokensRatio:          20,
		},
		"standard": {
			TargetEras:                    1,
			EpochesPerEra:                 250,
			TargetSecondsPerEpoch:         2_000,
			ReduceRatio:                   75,
			InitialMintSize:               20_000 * unit,
			InitialTargetMintSizePerEpoch: 200_000 * unit,
			FeeRate:                       unit / 5,
			LiquidityTokensRatio:          20,
		},
	}
}

// Validate проверяет пресет.
func (p TokenParams) Validate() error {
	if p.TargetEras == 0 {
		return errors.New("target_eras must be positive")
	}
	if p.EpochesPerEra == 0 || p.TargetSecondsPerEpoch == 0 {
		return errors.New("epoches_per_era and target_seconds_per_epoch must be positive")
	}
	if p.ReduceRatio > 100 || p.LiquidityTokensRatio > 100 {
		return errors.New("ratios must be within 0..100")
	}
	if p.InitialMintSize == 0 {
		return errors.New("initial_mint_size must be positive")
	}
	return nil
}

// TokenTypes возвращает имена пресетов в алфавитном порядке.
func (c *Config) TokenTypes() []string {
	names := make([]string, 0, len(c.TokenParams))
	for name := range c.TokenParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mergeTokenParams(loaded map[string]TokenParams) map[string]TokenParams {
	out := DefaultTokenParams()
	for name, p := range loaded {
		out[name] = p
	}
	return out
}
