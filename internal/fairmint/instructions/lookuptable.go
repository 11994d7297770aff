// internal/fairmint/instructions/lookuptable.go
package instructions

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// AddressLookupTableProgramID - нативная программа address lookup table.
var AddressLookupTableProgramID = solana.MustPublicKeyFromBase58("AddressLookupTab1e1111111111111111111111111")

// Индексы инструкций программы lookup table (bincode, u32 LE).
const (
	lutCreate uint32 = 0
	lutExtend uint32 = 2
)

// MaxExtendAddresses ограничивает число адресов в одной extend-инструкции,
// чтобы легаси-транзакция помещалась в пакет.
const MaxExtendAddresses = 20

// DeriveLookupTable вычисляет адрес таблицы для authority и recent slot.
func DeriveLookupTable(authority solana.PublicKey, recentSlot uint64) (solana.PublicKey, uint8, error) {
	slot := make([]byte, 8)
	binary.LittleEndian.PutUint64(slot, recentSlot)
	return solana.FindProgramAddress([][]byte{authority.Bytes(), slot}, AddressLookupTableProgramID)
}

// NewCreateLookupTable создаёт инструкцию создания таблицы и возвращает её адрес.
func NewCreateLookupTable(authority, payer solana.PublicKey, recentSlot uint64) (solana.Instruction, solana.PublicKey, error) {
	table, bump, err := DeriveLookupTable(authority, recentSlot)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("%w: lookup table address: %v", domain.ErrSeedSpaceExhausted, err)
	}

	data := make([]byte, 4+8+1)
	binary.LittleEndian.PutUint32(data[0:4], lutCreate)
	binary.LittleEndian.PutUint64(data[4:12], recentSlot)
	data[12] = bump

	accounts := []*solana.AccountMeta{
		{PublicKey: table, IsSigner: false, IsWritable: true},
		{PublicKey: authority, IsSigner: true, IsWritable: false},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}
	return solana.NewInstruction(AddressLookupTableProgramID, accounts, data), table, nil
}

// NewExtendLookupTable создаёт инструкцию добавления адресов в таблицу.
func NewExtendLookupTable(table, authority, payer solana.PublicKey, addresses []solana.PublicKey) (solana.Instruction, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("%w: no addresses to extend lookup table", domain.ErrParameterMissing)
	}
	if len(addresses) > MaxExtendAddresses {
		return nil, fmt.Errorf("%w: %d addresses, max %d per extend", domain.ErrInvalidParameter, len(addresses), MaxExtendAddresses)
	}

	data := make([]byte, 4+8, 4+8+32*len(addresses))
	binary.LittleEndian.PutUint32(data[0:4], lutExtend)
	binary.LittleEndian.PutUint64(data[4:12], uint64(len(addresses)))
	for _, a := range addresses {
		data = append(data, a.Bytes()...)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: table, IsSigner: false, IsWritable: true},
		{PublicKey: authority, IsSigner: true, IsWritable: false},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}
	return solana.NewInstruction(AddressLookupTableProgramID, accounts, data), nil
}
