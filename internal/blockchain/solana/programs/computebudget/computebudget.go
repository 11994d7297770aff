// internal/blockchain/solana/programs/computebudget/computebudget.go
package computebudget

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

const (
	RequestHeapFrame    uint8 = 1
	SetComputeUnitLimit uint8 = 2
	SetComputeUnitPrice uint8 = 3
)

// Структуры инструкций
type SetComputeUnitLimitInstruction struct {
	Units uint32
}

type SetComputeUnitPriceInstruction struct {
	MicroLamports uint64
}

// Предопределенные профили
const (
	DefaultUnits uint32 = 200_000
	// PoolInitUnits покрывает минт вместе с инициализацией CP-swap пула в той же транзакции.
	PoolInitUnits uint32 = 500_000
	MaxUnits      uint32 = 1_400_000
)

// Config содержит параметры бюджета транзакции
type Config struct {
	Units     uint32
	UnitPrice uint64 // микролампорты за compute unit, 0 - без инструкции цены
}

// NewDefaultConfig создает конфигурацию по умолчанию
func NewDefaultConfig() Config {
	return Config{Units: DefaultUnits}
}

// NewPoolInitConfig создает конфигурацию для минта с инициализацией пула
func NewPoolInitConfig() Config {
	return Config{Units: PoolInitUnits}
}

// Instructions создает инструкции для настройки бюджета
func (c Config) Instructions() ([]solana.Instruction, error) {
	if c.Units == 0 {
		c.Units = DefaultUnits
	}
	if c.Units > MaxUnits {
		return nil, fmt.Errorf("compute unit limit %d exceeds max %d", c.Units, MaxUnits)
	}

	limitInstruction, err := (&SetComputeUnitLimitInstruction{Units: c.Units}).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute unit limit instruction: %w", err)
	}
	instructions := []solana.Instruction{limitInstruction}

	if c.UnitPrice > 0 {
		priceInstruction, err := (&SetComputeUnitPriceInstruction{MicroLamports: c.UnitPrice}).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit price instruction: %w", err)
		}
		instructions = append(instructions, priceInstruction)
	}

	return instructions, nil
}

// Build создает инструкцию для установки лимита compute units
func (instr *SetComputeUnitLimitInstruction) Build() (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, SetComputeUnitLimit); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, instr.Units); err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, []*solana.AccountMeta{}, buf.Bytes()), nil
}

// Build создает инструкцию для установки цены compute units
func (instr *SetComputeUnitPriceInstruction) Build() (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, SetComputeUnitPrice); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, instr.MicroLamports); err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, []*solana.AccountMeta{}, buf.Bytes()), nil
}
