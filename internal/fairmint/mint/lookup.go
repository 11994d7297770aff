// internal/fairmint/mint/lookup.go
package mint

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
)

// LookupTable - загруженная таблица адресов для компиляции v0-транзакций.
type LookupTable struct {
	Address   solana.PublicKey
	Addresses solana.PublicKeySlice
}

// Tables возвращает таблицу в форме, которую принимает solana.TransactionAddressTables.
// Пустая таблица не подключается.
func (l LookupTable) Tables() map[solana.PublicKey]solana.PublicKeySlice {
	if l.Address.IsZero() || len(l.Addresses) == 0 {
		return nil
	}
	return map[solana.PublicKey]solana.PublicKeySlice{l.Address: l.Addresses}
}

// FetchLookupTable читает и декодирует аккаунт таблицы адресов.
func FetchLookupTable(ctx context.Context, r state.AccountReader, address solana.PublicKey) (LookupTable, error) {
	data, err := r.GetAccountData(ctx, address)
	if err != nil {
		return LookupTable{}, fmt.Errorf("lookup table %s: %w", address, err)
	}
	st, err := addresslookuptable.DecodeAddressLookupTableState(data)
	if err != nil {
		return LookupTable{}, fmt.Errorf("%w: lookup table %s: %v", domain.ErrDecode, address, err)
	}
	return LookupTable{Address: address, Addresses: st.Addresses}, nil
}
