// internal/fairmint/state/fixed.go
package state

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// Decimals - масштаб всех сумм программы (токены и лампорты).
const Decimals = 9

var maxRaw = decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0)

// ToUnits переводит сырое значение с 9 знаками в целые единицы без потери точности.
func ToUnits(raw uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -Decimals)
}

// FromUnits переводит значение в целых единицах обратно в сырое.
// Значения с более чем 9 знаками после запятой отклоняются.
func FromUnits(units decimal.Decimal) (uint64, error) {
	if units.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", domain.ErrInvalidParameter, units)
	}
	raw := units.Shift(Decimals)
	if !raw.Equal(raw.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more than %d decimals", domain.ErrInvalidParameter, units, Decimals)
	}
	if raw.GreaterThan(maxRaw) {
		return 0, fmt.Errorf("%w: %s overflows u64", domain.ErrInvalidParameter, units)
	}
	return raw.BigInt().Uint64(), nil
}
