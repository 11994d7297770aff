// internal/fairmint/pda/pool.go
package pda

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PoolAccounts содержит все адреса пула CP-swap, которые инициализируются
// вместе с первым минтом.
type PoolAccounts struct {
	Token0      solana.PublicKey
	Token1      solana.PublicKey
	Authority   solana.PublicKey
	Pool        solana.PublicKey
	LPMint      solana.PublicKey
	Vault0      solana.PublicKey
	Vault1      solana.PublicKey
	Observation solana.PublicKey
}

// PoolAuthority вычисляет глобальный authority пулов AMM.
func PoolAuthority(ammProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{PoolAuthSeed}, ammProgram)
}

// PoolAddress вычисляет адрес пула для (amm config, token0, token1).
func PoolAddress(ammConfig, token0, token1, ammProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{PoolSeed, ammConfig.Bytes(), token0.Bytes(), token1.Bytes()}, ammProgram)
}

// PoolVault вычисляет vault пула для конкретного минта.
func PoolVault(pool, mint, ammProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{PoolVaultSeed, pool.Bytes(), mint.Bytes()}, ammProgram)
}

// PoolLPMint вычисляет LP-минт пула.
func PoolLPMint(pool, ammProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{PoolLPMintSeed, pool.Bytes()}, ammProgram)
}

// PoolObservation вычисляет oracle/observation аккаунт пула.
func PoolObservation(pool, ammProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{OracleSeed, pool.Bytes()}, ammProgram)
}

// DerivePool упорядочивает минты и вычисляет все адреса пула.
func DerivePool(ammConfig, mintA, mintB, ammProgram solana.PublicKey) (*PoolAccounts, error) {
	token0, token1, _ := SortMints(mintA, mintB)

	authority, _, err := PoolAuthority(ammProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to derive pool authority: %w", err)
	}
	pool, _, err := PoolAddress(ammConfig, token0, token1, ammProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to derive pool address: %w", err)
	}
	lpMint, _, err := PoolLPMint(pool, ammProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to derive lp mint: %w", err)
	}
	vault0, _, err := PoolVault(pool, token0, ammProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault0: %w", err)
	}
	vault1, _, err := PoolVault(pool, token1, ammProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault1: %w", err)
	}
	observation, _, err := PoolObservation(pool, ammProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to derive observation: %w", err)
	}

	return &PoolAccounts{
		Token0:      token0,
		Token1:      token1,
		Authority:   authority,
		Pool:        pool,
		LPMint:      lpMint,
		Vault0:      vault0,
		Vault1:      vault1,
		Observation: observation,
	}, nil
}
