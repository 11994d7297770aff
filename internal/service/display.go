// internal/service/display.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/fairmint/internal/config"
	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/metadata"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
	"github.com/rovshanmuradov/fairmint/internal/storage"
	"github.com/rovshanmuradov/fairmint/internal/storage/models"
)

// MintInfo - сводка по запущенному токену.
type MintInfo struct {
	Mint     solana.PublicKey
	Config   solana.PublicKey
	Metadata *metadata.Metadata
	View     *state.TokenConfigView
	Pool     *pda.PoolAccounts
	// PoolRecord - пул, сохранённый после подтверждённого минта, если есть.
	PoolRecord *models.PoolInfo
	// Snapshot - последнее сохранённое состояние, если есть хранилище.
	Snapshot *models.TokenSnapshot
}

// NamedTokenParams - пресет параметров с именем.
type NamedTokenParams struct {
	Name   string
	Params config.TokenParams
}

// DisplayMint читает конфигурацию, метаданные и адреса пула токена.
func (s *Service) DisplayMint(ctx context.Context, mintAddr solana.PublicKey) (*MintInfo, error) {
	if mintAddr.IsZero() {
		return nil, fmt.Errorf("%w: mint", domain.ErrParameterMissing)
	}
	cfgAddr, _, err := s.deriver.TokenConfig(mintAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: token config: %w", domain.ErrBuild, err)
	}
	info := &MintInfo{Mint: mintAddr, Config: cfgAddr}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info.View, err = s.tokenConfigView(gctx, cfgAddr)
		return err
	})
	g.Go(func() error {
		var err error
		info.Metadata, err = s.metadata.Get(gctx, mintAddr)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if info.Pool, err = pda.DerivePool(s.profile.CpSwapConfig, solana.WrappedSol, mintAddr, s.profile.CpSwapProgram); err != nil {
		return nil, fmt.Errorf("%w: pool: %w", domain.ErrBuild, err)
	}

	rec, err := s.store.GetPoolInfo(ctx, mintAddr.String())
	switch {
	case err == nil:
		info.PoolRecord = rec
		if rec.PoolID != info.Pool.Pool.String() {
			s.logger.Warn("Recorded pool differs from derived",
				zap.String("mint", mintAddr.String()),
				zap.String("recorded", rec.PoolID),
				zap.String("derived", info.Pool.Pool.String()))
		}
	case !errors.Is(err, storage.ErrNotFound):
		s.logger.Warn("Failed to read pool info", zap.Error(err))
	}

	snap, err := s.store.LatestSnapshot(ctx, mintAddr.String())
	switch {
	case err == nil:
		info.Snapshot = snap
	case !errors.Is(err, storage.ErrNotFound):
		s.logger.Warn("Failed to read token snapshot", zap.Error(err))
	}
	return info, nil
}

// TokenParams возвращает пресеты параметров, отсортированные по имени.
func (s *Service) TokenParams() []NamedTokenParams {
	out := make([]NamedTokenParams, 0, len(s.tokenParams))
	for name, p := range s.tokenParams {
		out = append(out, NamedTokenParams{Name: name, Params: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// History возвращает последние операции; нулевой mint - по всем токенам.
func (s *Service) History(ctx context.Context, mintAddr solana.PublicKey, limit int) ([]*models.Operation, error) {
	filter := ""
	if !mintAddr.IsZero() {
		filter = mintAddr.String()
	}
	return s.store.ListOperations(ctx, filter, limit, 0)
}

// Operation возвращает запись истории по подписи транзакции.
func (s *Service) Operation(ctx context.Context, signature solana.Signature) (*models.Operation, error) {
	if signature.IsZero() {
		return nil, fmt.Errorf("%w: signature", domain.ErrParameterMissing)
	}
	op, err := s.store.GetOperation(ctx, signature.String())
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", signature, err)
	}
	return op, nil
}
