// internal/service/launch.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/config"
	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/instructions"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/submit"
)

// TokenDecimals - точность всех токенов программы.
const TokenDecimals = 9

// LaunchRequest - параметры запуска токена.
type LaunchRequest struct {
	Name      string
	Symbol    string
	URI       string
	TokenType string
}

// LaunchReport - итог запуска.
type LaunchReport struct {
	Mint     solana.PublicKey
	Config   solana.PublicKey
	Metadata instructions.TokenMetadata
	// Existing - токен уже запущен, транзакция не отправлялась.
	Existing bool
	Result   *submit.Result
	View     *state.TokenConfigView
}

// Launch создаёт токен с пресетом параметров эмиссии.
func (s *Service) Launch(ctx context.Context, req LaunchRequest) (report *LaunchReport, err error) {
	log := s.log.WithOperation(OpLaunch)
	start := time.Now()
	rec := s.newRecord(OpLaunch, solana.PublicKey{}, "")
	defer func() {
		var res *submit.Result
		if report != nil {
			rec.Mint = report.Mint.String()
			if report.Existing {
				return
			}
			res = report.Result
		}
		s.record(ctx, rec, res, err, start)
	}()

	if req.Name == "" || req.Symbol == "" {
		return nil, fmt.Errorf("%w: token name and symbol", domain.ErrParameterMissing)
	}
	params, ok := s.tokenParams[req.TokenType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token type %q", domain.ErrInvalidParameter, req.TokenType)
	}
	md := instructions.TokenMetadata{
		Name:     req.Name,
		Symbol:   req.Symbol,
		URI:      req.URI,
		Decimals: TokenDecimals,
	}
	if md.URI == "" {
		md.URI = fmt.Sprintf("https://example.com/metadata/%s.json", strings.ToLower(req.Symbol))
	}

	accounts, err := s.launchAccounts(req.Name, req.Symbol)
	if err != nil {
		return nil, err
	}
	report = &LaunchReport{Mint: accounts.Mint, Config: accounts.Config, Metadata: md}

	exists, err := state.AccountExists(ctx, s.chain, accounts.Mint)
	if err != nil {
		return report, fmt.Errorf("failed to check mint: %w", err)
	}
	if exists {
		report.Existing = true
		report.View, err = s.tokenConfigView(ctx, accounts.Config)
		return report, err
	}

	sys, err := state.FetchSystemConfig(ctx, s.chain, accounts.SystemConfig)
	if err != nil {
		return report, fmt.Errorf("system is not initialized: %w", err)
	}
	accounts.ProtocolFeeAccount = sys.ProtocolFeeAccount

	ix, err := instructions.NewInitializeToken(s.deriver.Program(), accounts, md, initConfig(params))
	if err != nil {
		return report, err
	}
	ixs, err := s.withBudget(ix)
	if err != nil {
		return report, err
	}

	log.Info("Submitting initialize_token",
		zap.String("mint", accounts.Mint.String()),
		zap.String("token_type", req.TokenType))

	res, err := s.send(ctx, OpLaunch, ixs)
	if err != nil {
		return report, err
	}
	report.Result = res
	if !res.Success() {
		return report, nil
	}

	if report.View, err = s.tokenConfigView(ctx, accounts.Config); err != nil {
		s.logger.Warn("Failed to read launched token config", zap.Error(err))
	}
	return report, nil
}

func (s *Service) launchAccounts(name, symbol string) (instructions.InitializeTokenAccounts, error) {
	var (
		a   = instructions.InitializeTokenAccounts{Payer: s.signer.Public()}
		err error
	)
	if a.Mint, _, err = s.deriver.Mint(name, symbol); err != nil {
		return a, fmt.Errorf("%w: mint: %w", domain.ErrBuild, err)
	}
	if a.Config, _, err = s.deriver.TokenConfig(a.Mint); err != nil {
		return a, fmt.Errorf("%w: token config: %w", domain.ErrBuild, err)
	}
	if a.Metadata, _, err = pda.Metadata(a.Mint); err != nil {
		return a, fmt.Errorf("%w: metadata: %w", domain.ErrBuild, err)
	}
	if a.SystemConfig, err = s.SystemConfigAddress(); err != nil {
		return a, err
	}

	atas := []struct {
		owner solana.PublicKey
		mint  solana.PublicKey
		dst   *solana.PublicKey
	}{
		{a.Mint, a.Mint, &a.MintTokenVault},
		{a.Config, a.Mint, &a.TokenVault},
		{a.Config, solana.WrappedSol, &a.WsolVault},
	}
	for _, ata := range atas {
		if *ata.dst, _, err = solana.FindAssociatedTokenAddress(ata.owner, ata.mint); err != nil {
			return a, fmt.Errorf("%w: vault: %v", domain.ErrBuild, err)
		}
	}
	return a, nil
}

func (s *Service) tokenConfigView(ctx context.Context, addr solana.PublicKey) (*state.TokenConfigView, error) {
	cfg, err := state.FetchTokenConfig(ctx, s.chain, addr)
	if err != nil {
		return nil, err
	}
	view := state.NewTokenConfigView(cfg)
	return &view, nil
}

func initConfig(p config.TokenParams) instructions.InitTokenConfig {
	return instructions.InitTokenConfig{
		TargetEras:                    p.TargetEras,
		EpochesPerEra:                 p.EpochesPerEra,
		TargetSecondsPerEpoch:         p.TargetSecondsPerEpoch,
		ReduceRatio:                   p.ReduceRatio,
		InitialMintSize:               p.InitialMintSize,
		InitialTargetMintSizePerEpoch: p.InitialTargetMintSizePerEpoch,
		FeeRate:                       p.FeeRate,
		LiquidityTokensRatio:          p.LiquidityTokensRatio,
	}
}
