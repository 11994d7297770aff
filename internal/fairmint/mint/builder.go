// internal/fairmint/mint/builder.go
package mint

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/fairmint/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/instructions"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/metadata"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/referral"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
)

// Chain - операции чтения, которые нужны сборщику транзакции минта.
type Chain interface {
	state.AccountReader
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (solana.Hash, uint64, error)
}

// MetadataSource возвращает metadata минта с уже очищенными name/symbol.
type MetadataSource interface {
	Get(ctx context.Context, mint solana.PublicKey) (*metadata.Metadata, error)
}

// Request - входные данные сборки транзакции минта.
type Request struct {
	Mint               solana.PublicKey
	Code               string
	Minter             solana.PublicKey
	SystemConfig       solana.PublicKey
	ProtocolFeeAccount solana.PublicKey
	LookupTable        LookupTable
}

func (r Request) validate() error {
	switch {
	case r.Mint.IsZero():
		return fmt.Errorf("%w: mint", domain.ErrParameterMissing)
	case r.Code == "":
		return fmt.Errorf("%w: referral code", domain.ErrParameterMissing)
	case r.Minter.IsZero():
		return fmt.Errorf("%w: minter", domain.ErrParameterMissing)
	case r.SystemConfig.IsZero():
		return fmt.Errorf("%w: system config", domain.ErrParameterMissing)
	case r.ProtocolFeeAccount.IsZero():
		return fmt.Errorf("%w: protocol fee account", domain.ErrParameterMissing)
	case r.LookupTable.Address.IsZero():
		return fmt.Errorf("%w: lookup table", domain.ErrParameterMissing)
	case len(r.LookupTable.Addresses) == 0:
		// без таблицы транзакция скомпилировалась бы как legacy
		return fmt.Errorf("%w: lookup table %s is empty", domain.ErrInvalidParameter, r.LookupTable.Address)
	}
	return nil
}

// Plan - собранная, но ещё не подписанная транзакция минта.
type Plan struct {
	Transaction          *solana.Transaction
	Blockhash            solana.Hash
	LastValidBlockHeight uint64

	Accounts  instructions.MintTokensAccounts
	Remaining []*solana.AccountMeta
	Pool      *pda.PoolAccounts
	Referral  *referral.Handle

	Name     string
	Symbol   string
	CodeHash solana.PublicKey
}

// Builder собирает транзакцию минта: compute budget + mint_tokens с
// инициализацией пула через remaining accounts.
type Builder struct {
	chain    Chain
	deriver  pda.Deriver
	pool     PoolContext
	metadata MetadataSource
	resolver *referral.Resolver
	budget   computebudget.Config
	logger   *zap.Logger
}

// NewBuilder создаёт Builder.
func NewBuilder(chain Chain, deriver pda.Deriver, pool PoolContext, md MetadataSource, budget computebudget.Config, logger *zap.Logger) *Builder {
	return &Builder{
		chain:    chain,
		deriver:  deriver,
		pool:     pool,
		metadata: md,
		resolver: referral.NewResolver(chain, deriver, logger),
		budget:   budget,
		logger:   logger.Named("mint-builder"),
	}
}

// Build проверяет предусловия и собирает транзакцию. Все ошибки здесь
// обнаружены до отправки.
func (b *Builder) Build(ctx context.Context, req Request) (*Plan, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	balance, err := b.chain.GetBalance(ctx, req.Minter)
	if err != nil {
		return nil, fmt.Errorf("failed to get minter balance: %w", err)
	}
	if balance == 0 {
		return nil, fmt.Errorf("%w: minter %s has zero balance", domain.ErrInsufficientFunds, req.Minter)
	}

	// Metadata и реферальная цепочка независимы
	var (
		md     *metadata.Metadata
		handle *referral.Handle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		md, err = b.metadata.Get(gctx, req.Mint)
		return err
	})
	g.Go(func() error {
		var err error
		handle, err = b.resolver.Resolve(gctx, req.Code)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accounts, err := b.deriveAccounts(req, handle.ReferrerMain)
	if err != nil {
		return nil, err
	}

	if err := b.checkReferral(ctx, accounts, handle.CodeHash); err != nil {
		return nil, err
	}

	pool, err := pda.DerivePool(b.pool.AmmConfig, req.Mint, solana.WrappedSol, b.pool.AmmProgram)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBuild, err)
	}
	accounts.PoolState = pool.Pool
	accounts.AmmConfig = b.pool.AmmConfig
	accounts.CpSwapProgram = b.pool.AmmProgram
	accounts.Token0Mint = pool.Token0
	accounts.Token1Mint = pool.Token1

	creator, err := DeriveCreatorAccounts(req.Minter, pool)
	if err != nil {
		return nil, err
	}
	remaining := RemainingAccounts(b.pool, req.Minter, pool, creator)

	ixs, err := b.budget.Instructions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBuild, err)
	}
	mintIx, err := instructions.NewMintTokens(b.deriver.Program(), accounts, instructions.ReferralArgs{
		Name:     md.Name,
		Symbol:   md.Symbol,
		CodeHash: handle.CodeHash.Bytes(),
	}, remaining)
	if err != nil {
		return nil, err
	}
	ixs = append(ixs, mintIx)

	blockhash, lastValid, err := b.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(ixs, blockhash,
		solana.TransactionPayer(req.Minter),
		solana.TransactionAddressTables(req.LookupTable.Tables()))
	if err != nil {
		return nil, fmt.Errorf("%w: compile transaction: %v", domain.ErrBuild, err)
	}

	b.logger.Debug("mint transaction built",
		zap.String("mint", req.Mint.String()),
		zap.String("minter", req.Minter.String()),
		zap.String("referrer", handle.ReferrerMain.String()),
		zap.String("pool", pool.Pool.String()),
		zap.String("token0", pool.Token0.String()),
		zap.Uint64("last_valid_block_height", lastValid))

	return &Plan{
		Transaction:          tx,
		Blockhash:            blockhash,
		LastValidBlockHeight: lastValid,
		Accounts:             accounts,
		Remaining:            remaining,
		Pool:                 pool,
		Referral:             handle,
		Name:                 md.Name,
		Symbol:               md.Symbol,
		CodeHash:             handle.CodeHash,
	}, nil
}

// deriveAccounts вычисляет именованные аккаунты mint_tokens кроме аккаунтов пула.
func (b *Builder) deriveAccounts(req Request, referrerMain solana.PublicKey) (instructions.MintTokensAccounts, error) {
	a := instructions.MintTokensAccounts{
		Mint:               req.Mint,
		User:               req.Minter,
		SystemConfig:       req.SystemConfig,
		ProtocolFeeAccount: req.ProtocolFeeAccount,
		ReferrerMain:       referrerMain,
	}

	var err error
	if a.Config, _, err = b.deriver.TokenConfig(req.Mint); err != nil {
		return a, fmt.Errorf("%w: token config: %w", domain.ErrBuild, err)
	}
	if a.Refund, _, err = b.deriver.Refund(req.Mint, req.Minter); err != nil {
		return a, fmt.Errorf("%w: refund account: %w", domain.ErrBuild, err)
	}
	if a.Referral, _, err = b.deriver.Referral(req.Mint, referrerMain); err != nil {
		return a, fmt.Errorf("%w: referral account: %w", domain.ErrBuild, err)
	}

	atas := []struct {
		name  string
		owner solana.PublicKey
		mint  solana.PublicKey
		dst   *solana.PublicKey
	}{
		{"destination", req.Minter, req.Mint, &a.Destination},
		{"destination wsol", req.Minter, solana.WrappedSol, &a.DestinationWsolAta},
		{"mint token vault", req.Mint, req.Mint, &a.MintTokenVault},
		{"token vault", a.Config, req.Mint, &a.TokenVault},
		{"wsol vault", a.Config, solana.WrappedSol, &a.WsolVault},
		{"referrer ata", referrerMain, req.Mint, &a.ReferrerAta},
		{"protocol wsol vault", req.ProtocolFeeAccount, solana.WrappedSol, &a.ProtocolWsolVault},
	}
	for _, ata := range atas {
		addr, _, err := solana.FindAssociatedTokenAddress(ata.owner, ata.mint)
		if err != nil {
			return a, fmt.Errorf("%w: %s: %v", domain.ErrBuild, ata.name, err)
		}
		*ata.dst = addr
	}
	return a, nil
}

// checkReferral проверяет ATA реферера и хэш кода в реферальной записи этого минта.
func (b *Builder) checkReferral(ctx context.Context, a instructions.MintTokensAccounts, codeHash solana.PublicKey) error {
	var (
		ataExists bool
		ref       *state.TokenReferralData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ataExists, err = state.AccountExists(gctx, b.chain, a.ReferrerAta)
		return err
	})
	g.Go(func() error {
		var err error
		ref, err = state.FetchTokenReferral(gctx, b.chain, a.Referral)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("%w: no referral for mint %s and referrer %s: %w",
				domain.ErrReferralNotFound, a.Mint, a.ReferrerMain, err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if !ataExists {
		return fmt.Errorf("%w: %s", domain.ErrReferrerAccountMissing, a.ReferrerAta)
	}
	if !ref.CodeHash.Equals(codeHash) {
		return fmt.Errorf("%w: referral %s stores %s, code derives %s",
			domain.ErrCodeHashMismatch, a.Referral, ref.CodeHash, codeHash)
	}
	return nil
}
