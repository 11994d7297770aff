// internal/fairmint/state/decode.go
package state

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// Имена аккаунтов в IDL программы.
const (
	SystemConfigAccountName  = "SystemConfigData"
	TokenConfigAccountName   = "TokenConfigData"
	TokenReferralAccountName = "TokenReferralData"
	CodeAccountName          = "CodeAccountData"
)

// AccountDiscriminator вычисляет Anchor-дискриминатор аккаунта.
func AccountDiscriminator(name string) [DiscriminatorSize]byte {
	var out [DiscriminatorSize]byte
	sum := sha256.Sum256([]byte("account:" + name))
	copy(out[:], sum[:DiscriminatorSize])
	return out
}

// decodeAccount проверяет длину и дискриминатор, затем декодирует borsh-тело.
func decodeAccount(data []byte, name string, size int, v interface{}) error {
	if len(data) < DiscriminatorSize+size {
		return fmt.Errorf("%w: %s needs %d bytes, got %d",
			domain.ErrSchemaMismatch, name, DiscriminatorSize+size, len(data))
	}
	expected := AccountDiscriminator(name)
	if !bytes.Equal(data[:DiscriminatorSize], expected[:]) {
		return fmt.Errorf("%w: %s discriminator %x, want %x",
			domain.ErrSchemaMismatch, name, data[:DiscriminatorSize], expected)
	}
	if err := bin.NewBorshDecoder(data[DiscriminatorSize:]).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrDecode, name, err)
	}
	return nil
}

// DecodeSystemConfig декодирует SystemConfigData.
func DecodeSystemConfig(data []byte) (*SystemConfigData, error) {
	var out SystemConfigData
	if err := decodeAccount(data, SystemConfigAccountName, SystemConfigSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeTokenConfig декодирует TokenConfigData вместе с MintStateData.
func DecodeTokenConfig(data []byte) (*TokenConfigData, error) {
	var out TokenConfigData
	if err := decodeAccount(data, TokenConfigAccountName, TokenConfigSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeTokenReferral декодирует TokenReferralData.
func DecodeTokenReferral(data []byte) (*TokenReferralData, error) {
	var out TokenReferralData
	if err := decodeAccount(data, TokenReferralAccountName, TokenReferralSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeCodeAccount декодирует CodeAccountData.
func DecodeCodeAccount(data []byte) (*CodeAccountData, error) {
	var out CodeAccountData
	if err := decodeAccount(data, CodeAccountName, CodeAccountSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EncodeAccount сериализует аккаунт в формате программы: дискриминатор + borsh.
// Используется для фикстур и локальных валидаторов.
func EncodeAccount(name string, v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	disc := AccountDiscriminator(name)
	buf.Write(disc[:])
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
