// internal/blockchain/types.go
package blockchain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// TransactionOptions определяет опции для отправки транзакций.
type TransactionOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
}

// SimulationResult представляет результат симуляции транзакции.
type SimulationResult struct {
	Err           interface{}
	Logs          []string
	UnitsConsumed uint64
}

// Client определяет общий интерфейс для взаимодействия с блокчейном.
// Отсутствующий аккаунт возвращается как domain.ErrAccountNotFound.
type Client interface {
	// Получить сырые данные аккаунта.
	GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
	// Получить данные нескольких аккаунтов; отсутствующие - nil.
	GetMultipleAccountData(ctx context.Context, accounts []solana.PublicKey) ([][]byte, error)
	// Получить баланс аккаунта в лампортах.
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	// Получить баланс токен-аккаунта в сырых единицах.
	GetTokenBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	// Получить последний blockhash и последнюю высоту блока, на которой он действителен.
	GetLatestBlockhash(ctx context.Context) (solana.Hash, uint64, error)
	// Получить текущую высоту блока.
	GetBlockHeight(ctx context.Context) (uint64, error)
	// Получить текущий слот на заданном уровне подтверждения; пустой - уровень клиента.
	GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	// Отправить транзакцию с опциями.
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts TransactionOptions) (solana.Signature, error)
	// Получить статусы подписей транзакций.
	GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	// Симулировать транзакцию.
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error)
}
