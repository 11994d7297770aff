// internal/fairmint/mint/remaining.go
package mint

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
)

// RemainingAccountsLen - число аккаунтов, передаваемых CP-swap при инициализации пула.
const RemainingAccountsLen = 21

// PoolContext - адреса AMM, нужные для инициализации пула внутри минта.
type PoolContext struct {
	AmmProgram  solana.PublicKey
	AmmConfig   solana.PublicKey
	FeeReceiver solana.PublicKey
}

// CreatorAccounts - ATA создателя пула для token0, token1 и LP.
type CreatorAccounts struct {
	Token0 solana.PublicKey
	Token1 solana.PublicKey
	LP     solana.PublicKey
}

// DeriveCreatorAccounts вычисляет ATA минтера для обоих токенов пула и LP-минта.
func DeriveCreatorAccounts(minter solana.PublicKey, pool *pda.PoolAccounts) (CreatorAccounts, error) {
	var out CreatorAccounts
	targets := []struct {
		mint solana.PublicKey
		dst  *solana.PublicKey
	}{
		{pool.Token0, &out.Token0},
		{pool.Token1, &out.Token1},
		{pool.LPMint, &out.LP},
	}
	for _, t := range targets {
		ata, _, err := solana.FindAssociatedTokenAddress(minter, t.mint)
		if err != nil {
			return CreatorAccounts{}, fmt.Errorf("%w: creator ata for %s: %v", domain.ErrBuild, t.mint, err)
		}
		*t.dst = ata
	}
	return out, nil
}

// RemainingAccounts собирает список из 21 аккаунта в порядке, ожидаемом CP-swap:
// порядок слотов фиксирован, от сортировки минтов зависит только содержимое
// слотов token0/token1.
func RemainingAccounts(ctx PoolContext, minter solana.PublicKey, pool *pda.PoolAccounts, creator CreatorAccounts) []*solana.AccountMeta {
	// Оба минта пула - классический SPL Token, поэтому программы token0/token1 совпадают.
	token0Program := solana.TokenProgramID
	token1Program := solana.TokenProgramID

	return []*solana.AccountMeta{
		solana.Meta(ctx.AmmProgram),
		solana.Meta(minter).SIGNER().WRITE(),
		solana.Meta(ctx.AmmConfig).WRITE(),
		solana.Meta(pool.Authority).WRITE(),
		solana.Meta(pool.Pool).WRITE(),
		solana.Meta(pool.Token0).WRITE(),
		solana.Meta(pool.Token1).WRITE(),
		solana.Meta(pool.LPMint).WRITE(),
		solana.Meta(creator.Token0).WRITE(),
		solana.Meta(creator.Token1).WRITE(),
		solana.Meta(creator.LP).WRITE(),
		solana.Meta(pool.Vault0).WRITE(),
		solana.Meta(pool.Vault1).WRITE(),
		solana.Meta(ctx.FeeReceiver).WRITE(),
		solana.Meta(pool.Observation).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(token0Program),
		solana.Meta(token1Program),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SysVarRentPubkey),
	}
}
