// internal/service/system.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/instructions"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/submit"
)

// InitReport - итог команды init.
type InitReport struct {
	LookupTable        solana.PublicKey
	LookupTableCreated bool
	SystemConfig       solana.PublicKey
	SystemConfigExists bool
	Result             *submit.Result
	Config             *state.SystemConfigView
}

// LookupTableAddresses возвращает адреса, которые заносятся в lookup table сети.
func (s *Service) LookupTableAddresses() []solana.PublicKey {
	return []solana.PublicKey{
		solana.TokenProgramID,
		solana.Token2022ProgramID,
		solana.SystemProgramID,
		solana.SysVarRentPubkey,
		solana.SPLAssociatedTokenAccountProgramID,
		solana.WrappedSol,
		s.profile.CpSwapProgram,
		s.profile.CpSwapConfig,
		s.profile.CreatePoolFeeReceiver,
	}
}

// Init создаёт lookup table, если её нет. Иначе инициализирует системную
// конфигурацию, если она ещё не создана. После создания таблицы её адрес
// нужно внести в профиль сети и запустить init повторно.
func (s *Service) Init(ctx context.Context) (report *InitReport, err error) {
	start := time.Now()
	rec := s.newRecord(OpInit, solana.PublicKey{}, "")
	defer func() {
		if err != nil || (report != nil && report.Result != nil) {
			var res *submit.Result
			if report != nil {
				res = report.Result
			}
			s.record(ctx, rec, res, err, start)
		}
	}()

	report = &InitReport{LookupTable: s.profile.LookupTable}

	lutExists := false
	if !s.profile.LookupTable.IsZero() {
		if lutExists, err = state.AccountExists(ctx, s.chain, s.profile.LookupTable); err != nil {
			return report, fmt.Errorf("failed to check lookup table: %w", err)
		}
	}
	if !lutExists {
		return report, s.createLookupTable(ctx, report)
	}

	if report.SystemConfig, err = s.SystemConfigAddress(); err != nil {
		return report, err
	}
	if report.SystemConfigExists, err = state.AccountExists(ctx, s.chain, report.SystemConfig); err != nil {
		return report, fmt.Errorf("failed to check system config: %w", err)
	}

	if !report.SystemConfigExists {
		admin := s.signer.Public()
		if !admin.Equals(s.profile.SystemManager) {
			return report, fmt.Errorf("%w: signer %s is not the system manager %s",
				domain.ErrInvalidParameter, admin, s.profile.SystemManager)
		}
		ix, err := instructions.NewInitializeSystem(s.deriver.Program(), instructions.InitializeSystemAccounts{
			Admin:        admin,
			SystemConfig: report.SystemConfig,
		})
		if err != nil {
			return report, err
		}
		s.log.WithOperation(OpInit).Info("Submitting initialize_system",
			zap.String("system_config", report.SystemConfig.String()))

		if report.Result, err = s.send(ctx, OpInit, []solana.Instruction{ix}); err != nil {
			return report, err
		}
		if !report.Result.Success() {
			return report, nil
		}
	}

	view, err := s.SystemConfigAt(ctx, report.SystemConfig)
	if err != nil {
		return report, err
	}
	report.Config = view
	return report, nil
}

func (s *Service) createLookupTable(ctx context.Context, report *InitReport) error {
	authority := s.signer.Public()
	// recent_slot должен уже быть в SlotHashes, поэтому только finalized
	slot, err := s.chain.GetSlot(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return fmt.Errorf("failed to get slot: %w", err)
	}
	createIx, table, err := instructions.NewCreateLookupTable(authority, authority, slot)
	if err != nil {
		return err
	}
	ixs := []solana.Instruction{createIx}

	addrs := s.LookupTableAddresses()
	for i := 0; i < len(addrs); i += instructions.MaxExtendAddresses {
		end := min(i+instructions.MaxExtendAddresses, len(addrs))
		extendIx, err := instructions.NewExtendLookupTable(table, authority, authority, addrs[i:end])
		if err != nil {
			return err
		}
		ixs = append(ixs, extendIx)
	}

	s.log.WithOperation(OpInit).Info("Creating lookup table",
		zap.String("address", table.String()),
		zap.Uint64("recent_slot", slot),
		zap.Int("addresses", len(addrs)))

	res, err := s.send(ctx, OpInit, ixs)
	if err != nil {
		return err
	}
	report.Result = res
	if res.Success() {
		report.LookupTable = table
		report.LookupTableCreated = true
	}
	return nil
}

// SystemConfig читает системную конфигурацию профиля.
func (s *Service) SystemConfig(ctx context.Context) (solana.PublicKey, *state.SystemConfigView, error) {
	addr, err := s.SystemConfigAddress()
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	view, err := s.SystemConfigAt(ctx, addr)
	return addr, view, err
}

// SystemConfigAt читает системную конфигурацию по адресу.
func (s *Service) SystemConfigAt(ctx context.Context, addr solana.PublicKey) (*state.SystemConfigView, error) {
	cfg, err := state.FetchSystemConfig(ctx, s.chain, addr)
	if err != nil {
		return nil, err
	}
	view := state.NewSystemConfigView(cfg)
	return &view, nil
}
