// internal/service/mint.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/fairmint/internal/blockchain"
	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/mint"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/submit"
	"github.com/rovshanmuradov/fairmint/internal/storage/models"
	"github.com/rovshanmuradov/fairmint/internal/wallet"
)

// MintRequest - параметры команды mint.
type MintRequest struct {
	Mint solana.PublicKey
	Code string
	// DryRun симулирует транзакцию вместо отправки.
	DryRun bool
}

// MintReport - итог пайплайна минта.
type MintReport struct {
	Plan       *mint.Plan
	Setup      *submit.Result
	Result     *submit.Result
	Simulation *blockchain.SimulationResult

	Config        *state.TokenConfigView
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Minted        decimal.Decimal
}

// Mint выполняет минт: предварительные чтения, создание недостающих ATA,
// сборка, отправка и чтение итогового состояния.
// Ошибка возвращается, если транзакция минта не была отправлена; итог
// отправки, включая отказ программы, находится в MintReport.Result.
func (s *Service) Mint(ctx context.Context, req MintRequest) (report *MintReport, err error) {
	log := s.log.WithOperation(OpMint)
	start := time.Now()
	rec := s.newRecord(OpMint, req.Mint, req.Code)
	defer func() {
		if req.DryRun {
			return
		}
		var res *submit.Result
		if report != nil {
			res = report.Result
			if res.Success() {
				rec.Minted = report.Minted.String()
			}
		}
		s.record(ctx, rec, res, err, start)
	}()

	if req.Mint.IsZero() {
		return nil, fmt.Errorf("%w: mint", domain.ErrParameterMissing)
	}
	if req.Code == "" {
		return nil, fmt.Errorf("%w: referral code", domain.ErrParameterMissing)
	}

	buildReq, err := s.prepareMint(ctx, req)
	if err != nil {
		return nil, err
	}

	plan, err := s.builder.Build(ctx, buildReq)
	if err != nil {
		return nil, err
	}
	report = &MintReport{Plan: plan}

	if req.DryRun {
		report.Simulation, err = s.simulate(ctx, plan.Transaction)
		return report, err
	}

	created, setup, err := s.ensureMintAccounts(ctx, plan)
	report.Setup = setup
	if err != nil {
		return report, err
	}
	if created {
		// setup занял время жизни blockhash, собираем заново
		if plan, err = s.builder.Build(ctx, buildReq); err != nil {
			return report, err
		}
		report.Plan = plan
	}

	before, err := s.tokenBalance(ctx, plan.Accounts.Destination)
	if err != nil {
		return report, err
	}
	report.BalanceBefore = before

	log.Info("Submitting mint transaction",
		zap.String("mint", req.Mint.String()),
		zap.String("referrer", plan.Referral.ReferrerMain.String()),
		zap.String("pool", plan.Pool.Pool.String()))

	res, err := s.submitter.Submit(ctx, OpMint, plan.Transaction, plan.LastValidBlockHeight, s.signer)
	if err != nil {
		return report, err
	}
	report.Result = res
	if !res.Success() {
		log.Warn("Mint transaction not confirmed",
			zap.String("outcome", string(res.Outcome)),
			zap.Bool("retryable", res.Retryable()),
			zap.Any("chain_error", res.ChainError))
		return report, nil
	}

	s.readMintPostState(ctx, req.Mint, report)
	return report, nil
}

// prepareMint параллельно читает системную конфигурацию и lookup table.
func (s *Service) prepareMint(ctx context.Context, req MintRequest) (mint.Request, error) {
	systemConfig, err := s.SystemConfigAddress()
	if err != nil {
		return mint.Request{}, err
	}

	var (
		sys *state.SystemConfigData
		lut mint.LookupTable
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sys, err = state.FetchSystemConfig(gctx, s.chain, systemConfig)
		return err
	})
	g.Go(func() error {
		var err error
		lut, err = mint.FetchLookupTable(gctx, s.chain, s.profile.LookupTable)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("lookup table missing, run init first: %w", err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return mint.Request{}, err
	}
	if sys.IsPause {
		return mint.Request{}, fmt.Errorf("%w: system is paused", domain.ErrBuild)
	}

	return mint.Request{
		Mint:               req.Mint,
		Code:               req.Code,
		Minter:             s.signer.Public(),
		SystemConfig:       systemConfig,
		ProtocolFeeAccount: sys.ProtocolFeeAccount,
		LookupTable:        lut,
	}, nil
}

// ensureMintAccounts создаёт ATA получателя и WSOL-хранилище протокола,
// если их ещё нет. Возвращает true, если была отправлена setup-транзакция.
func (s *Service) ensureMintAccounts(ctx context.Context, plan *mint.Plan) (bool, *submit.Result, error) {
	payer := s.signer.Public()
	wanted := []struct {
		address solana.PublicKey
		owner   solana.PublicKey
		mint    solana.PublicKey
	}{
		{plan.Accounts.Destination, payer, plan.Accounts.Mint},
		{plan.Accounts.ProtocolWsolVault, plan.Accounts.ProtocolFeeAccount, solana.WrappedSol},
	}

	addrs := make([]solana.PublicKey, len(wanted))
	for i, w := range wanted {
		addrs[i] = w.address
	}
	data, err := s.chain.GetMultipleAccountData(ctx, addrs)
	if err != nil {
		return false, nil, fmt.Errorf("failed to check token accounts: %w", err)
	}

	var ixs []solana.Instruction
	for i, w := range wanted {
		if i < len(data) && data[i] != nil {
			continue
		}
		ix, _, err := wallet.CreateAssociatedTokenAccountIdempotentInstruction(payer, w.owner, w.mint)
		if err != nil {
			return false, nil, fmt.Errorf("%w: associated token account: %v", domain.ErrBuild, err)
		}
		ixs = append(ixs, ix)
		s.logger.Info("Creating token account",
			zap.String("address", w.address.String()),
			zap.String("owner", w.owner.String()))
	}
	if len(ixs) == 0 {
		return false, nil, nil
	}

	res, err := s.send(ctx, OpMintSetup, ixs)
	if err != nil {
		return false, nil, err
	}
	if !res.Success() {
		return false, res, submissionError(OpMintSetup, res)
	}
	return true, res, nil
}

// readMintPostState читает конфигурацию токена и баланс получателя после минта.
// Ошибки чтения только логируются: минт уже подтверждён.
func (s *Service) readMintPostState(ctx context.Context, mintAddr solana.PublicKey, report *MintReport) {
	var (
		cfg   *state.TokenConfigData
		after decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = state.FetchTokenConfig(gctx, s.chain, report.Plan.Accounts.Config)
		return err
	})
	g.Go(func() error {
		var err error
		after, err = s.tokenBalance(gctx, report.Plan.Accounts.Destination)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Failed to read post-mint state", zap.Error(err))
		return
	}

	view := state.NewTokenConfigView(cfg)
	report.Config = &view
	report.BalanceAfter = after
	report.Minted = after.Sub(report.BalanceBefore)

	bg := context.WithoutCancel(ctx)
	if err := s.store.SaveSnapshot(bg, snapshotOf(mintAddr, view)); err != nil {
		s.logger.Warn("Failed to save token snapshot", zap.Error(err))
	}
	pool := report.Plan.Pool
	if err := s.store.SavePoolInfo(bg, &models.PoolInfo{
		PoolID:    pool.Pool.String(),
		Mint:      mintAddr.String(),
		Token0:    pool.Token0.String(),
		Token1:    pool.Token1.String(),
		LPMint:    pool.LPMint.String(),
		AmmConfig: s.profile.CpSwapConfig.String(),
	}); err != nil {
		s.logger.Warn("Failed to save pool info", zap.Error(err))
	}
}

// tokenBalance возвращает баланс токен-аккаунта в целых единицах; отсутствующий аккаунт - ноль.
func (s *Service) tokenBalance(ctx context.Context, account solana.PublicKey) (decimal.Decimal, error) {
	raw, err := s.chain.GetTokenBalance(ctx, account)
	if err != nil {
		if ignoreNotFound(err) == nil {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get token balance %s: %w", account, err)
	}
	return state.ToUnits(raw), nil
}

// simulate подписывает транзакцию, если ключ доступен, и симулирует её.
// Для ключа только на чтение подписи заполняются нулями: симуляция их не проверяет.
func (s *Service) simulate(ctx context.Context, tx *solana.Transaction) (*blockchain.SimulationResult, error) {
	if err := s.signer.SignTransaction(tx); err != nil {
		if !errors.Is(err, domain.ErrReadOnlySigner) {
			return nil, fmt.Errorf("failed to sign transaction: %w", err)
		}
		tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	}
	sim, err := s.chain.SimulateTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate transaction: %w", err)
	}
	return sim, nil
}

func snapshotOf(mintAddr solana.PublicKey, v state.TokenConfigView) *models.TokenSnapshot {
	return &models.TokenSnapshot{
		Mint:          mintAddr.String(),
		Supply:        v.Supply.String(),
		MaxSupply:     v.MaxSupply.String(),
		CurrentEra:    v.CurrentEra,
		CurrentEpoch:  v.CurrentEpoch,
		MintSizeEpoch: v.MintSizeEpoch.String(),
		Difficulty:    v.DifficultyCoefficient,
		Progress:      v.Progress().String(),
		ObservedAt:    time.Now().UTC(),
	}
}
