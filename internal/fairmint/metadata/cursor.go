// internal/fairmint/metadata/cursor.go
package metadata

import (
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// cursor читает поля по порядку и проверяет остаток буфера перед каждым чтением.
// Любое чтение за границей буфера возвращает domain.ErrDecode.
type cursor struct {
	dec  *bin.Decoder
	size int
}

func newCursor(data []byte) *cursor {
	return &cursor{dec: bin.NewBinDecoder(data), size: len(data)}
}

func (c *cursor) offset() int {
	return c.size - c.dec.Remaining()
}

func (c *cursor) need(field string, n int) error {
	if n < 0 || c.dec.Remaining() < n {
		return fmt.Errorf("%w: %s needs %d bytes at offset %d, %d left",
			domain.ErrDecode, field, n, c.offset(), c.dec.Remaining())
	}
	return nil
}

func (c *cursor) u8(field string) (uint8, error) {
	if err := c.need(field, 1); err != nil {
		return 0, err
	}
	return c.dec.ReadUint8()
}

func (c *cursor) flag(field string) (bool, error) {
	v, err := c.u8(field)
	return v == 1, err
}

func (c *cursor) u16(field string) (uint16, error) {
	if err := c.need(field, 2); err != nil {
		return 0, err
	}
	return c.dec.ReadUint16(binary.LittleEndian)
}

func (c *cursor) u32(field string) (uint32, error) {
	if err := c.need(field, 4); err != nil {
		return 0, err
	}
	return c.dec.ReadUint32(binary.LittleEndian)
}

func (c *cursor) pubkey(field string) (solana.PublicKey, error) {
	if err := c.need(field, solana.PublicKeyLength); err != nil {
		return solana.PublicKey{}, err
	}
	raw, err := c.dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s: %v", domain.ErrDecode, field, err)
	}
	return solana.PublicKeyFromBytes(raw), nil
}

// str читает строку с 4-байтовым префиксом длины.
func (c *cursor) str(field string) (string, error) {
	n, err := c.u32(field + " length")
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(c.dec.Remaining()) {
		return "", fmt.Errorf("%w: %s declares %d bytes at offset %d, %d left",
			domain.ErrDecode, field, n, c.offset(), c.dec.Remaining())
	}
	raw, err := c.dec.ReadNBytes(int(n))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrDecode, field, err)
	}
	return string(raw), nil
}
