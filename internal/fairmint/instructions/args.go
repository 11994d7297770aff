// internal/fairmint/instructions/args.go
package instructions

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// TokenMetadata - аргумент initialize_token.
type TokenMetadata struct {
	Name     string
	Symbol   string
	URI      string
	Decimals uint8
}

// InitTokenConfig - параметры эмиссии токена, передаются в initialize_token.
type InitTokenConfig struct {
	TargetEras                    uint32
	EpochesPerEra                 uint64
	TargetSecondsPerEpoch         uint64
	ReduceRatio                   uint64
	InitialMintSize               uint64
	InitialTargetMintSizePerEpoch uint64
	FeeRate                       uint64
	LiquidityTokensRatio          uint64
}

// ReferralArgs - аргументы set_referrer_code и mint_tokens.
// CodeHash сериализуется как borsh bytes (u32 длина + 32 байта).
type ReferralArgs struct {
	Name     string
	Symbol   string
	CodeHash []byte
}

type initializeTokenArgs struct {
	Metadata TokenMetadata
	Config   InitTokenConfig
}

func (a ReferralArgs) validate() error {
	if a.Name == "" || a.Symbol == "" {
		return fmt.Errorf("%w: token name and symbol", domain.ErrParameterMissing)
	}
	if len(a.CodeHash) != 32 {
		return fmt.Errorf("%w: code hash must be 32 bytes, got %d", domain.ErrInvalidParameter, len(a.CodeHash))
	}
	return nil
}

// encode сериализует дискриминатор и borsh-аргументы.
func encode(discriminator [8]byte, args ...interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(discriminator[:])
	enc := bin.NewBorshEncoder(buf)
	for _, a := range args {
		if err := enc.Encode(a); err != nil {
			return nil, fmt.Errorf("%w: encode args: %v", domain.ErrBuild, err)
		}
	}
	return buf.Bytes(), nil
}
