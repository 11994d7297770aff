// internal/fairmint/pda/pda.go
package pda

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
)

// Derive вычисляет program derived address для набора сидов и программы-владельца.
// Результат детерминирован: одинаковые входы всегда дают одинаковые адрес и bump.
func Derive(seeds [][]byte, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	// +1 слот зарезервирован под bump
	if len(seeds) >= maxSeeds {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: too many seeds (%d)", domain.ErrInvalidParameter, len(seeds))
	}
	for i, seed := range seeds {
		if len(seed) > maxSeedLength {
			return solana.PublicKey{}, 0, fmt.Errorf("%w: seed %d is %d bytes, max %d",
				domain.ErrInvalidParameter, i, len(seed), maxSeedLength)
		}
	}

	addr, bump, err := solana.FindProgramAddress(seeds, owner)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: %v", domain.ErrSeedSpaceExhausted, err)
	}
	return addr, bump, nil
}

// Deriver вычисляет адреса аккаунтов программы fair-mint.
type Deriver struct {
	program solana.PublicKey
}

// NewDeriver создаёт Deriver для заданного program id.
func NewDeriver(program solana.PublicKey) Deriver {
	return Deriver{program: program}
}

// Program возвращает program id, для которого выполняется деривация.
func (d Deriver) Program() solana.PublicKey {
	return d.program
}

// SystemConfig вычисляет адрес singleton-аккаунта системной конфигурации.
func (d Deriver) SystemConfig(admin solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{SystemConfigSeed, admin.Bytes()}, d.program)
}

// TokenConfig вычисляет адрес конфигурации токена.
func (d Deriver) TokenConfig(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{ConfigDataSeed, mint.Bytes()}, d.program)
}

// Mint вычисляет адрес минта по имени и символу (символ приводится к нижнему регистру).
func (d Deriver) Mint(name, symbol string) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{MintSeed, []byte(name), []byte(strings.ToLower(symbol))}, d.program)
}

// Referral вычисляет адрес реферальной записи для пары (mint, referrer).
func (d Deriver) Referral(mint, referrer solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{ReferralSeed, mint.Bytes(), referrer.Bytes()}, d.program)
}

// CodeHash вычисляет хэш реферального кода. Хэш стабилен для строки кода.
func (d Deriver) CodeHash(code string) (solana.PublicKey, uint8, error) {
	if code == "" {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: referral code", domain.ErrParameterMissing)
	}
	return Derive([][]byte{CodeHashSeed, []byte(code)}, d.program)
}

// CodeAccount вычисляет адрес записи кода по его хэшу.
func (d Deriver) CodeAccount(codeHash solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{CodeAccountSeed, codeHash.Bytes()}, d.program)
}

// Refund вычисляет refund-аккаунт минтера для данного минта.
func (d Deriver) Refund(mint, minter solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{RefundSeed, mint.Bytes(), minter.Bytes()}, d.program)
}

// Metadata вычисляет адрес Metaplex metadata для минта.
func Metadata(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{
		MetadataSeed,
		solana.TokenMetadataProgramID.Bytes(),
		mint.Bytes(),
	}, solana.TokenMetadataProgramID)
}

// CompareMints сравнивает адреса побайтно: первый различающийся байт решает.
func CompareMints(a, b solana.PublicKey) int {
	return bytes.Compare(a[:], b[:])
}

// SortMints возвращает пару в порядке (token0, token1).
func SortMints(a, b solana.PublicKey) (token0, token1 solana.PublicKey, swapped bool) {
	if CompareMints(a, b) > 0 {
		return b, a, true
	}
	return a, b, false
}
