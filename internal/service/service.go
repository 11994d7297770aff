// internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/blockchain"
	"github.com/rovshanmuradov/fairmint/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/fairmint/internal/config"
	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/metadata"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/mint"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/referral"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/submit"
	"github.com/rovshanmuradov/fairmint/internal/storage"
	"github.com/rovshanmuradov/fairmint/internal/storage/models"
	"github.com/rovshanmuradov/fairmint/internal/utils/logger"
	"github.com/rovshanmuradov/fairmint/internal/wallet"
)

// Имена операций в логах, метриках и истории.
const (
	OpInit      = "init"
	OpLaunch    = "launch"
	OpSetURC    = "set-urc"
	OpMint      = "mint"
	OpMintSetup = "mint-setup"
)

// Итоги операций, не дошедших до отправки.
const (
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Submitter отправляет подписанную транзакцию и ждёт подтверждения.
type Submitter interface {
	Submit(ctx context.Context, operation string, tx *solana.Transaction, lastValidBlockHeight uint64, signer wallet.Signer) (*submit.Result, error)
}

// ValidationRecorder учитывает ошибки, обнаруженные до отправки.
type ValidationRecorder interface {
	RecordValidationError(operation, kind string)
}

// Deps - зависимости Service.
type Deps struct {
	Chain       blockchain.Client
	Profile     config.Profile
	Signer      wallet.Signer
	Submitter   Submitter
	Store       storage.Storage
	Metrics     ValidationRecorder
	Budget      computebudget.Config
	TokenParams map[string]config.TokenParams
	Logger      *logger.Logger
}

// Service объединяет пайплайны команд: init, launch, set-urc, mint и запросы отображения.
type Service struct {
	chain       blockchain.Client
	profile     config.Profile
	signer      wallet.Signer
	submitter   Submitter
	store       storage.Storage
	metrics     ValidationRecorder
	budget      computebudget.Config
	tokenParams map[string]config.TokenParams

	deriver  pda.Deriver
	metadata *metadata.Cache
	resolver *referral.Resolver
	builder  *mint.Builder

	log    *logger.Logger
	logger *zap.Logger
}

// New создаёт Service.
func New(d Deps) *Service {
	if d.Store == nil {
		d.Store = storage.Noop{}
	}
	if d.Signer == nil {
		d.Signer = wallet.ReadOnly{}
	}
	if d.TokenParams == nil {
		d.TokenParams = config.DefaultTokenParams()
	}
	if d.Logger == nil {
		d.Logger = logger.Wrap(zap.NewNop())
	}

	zl := d.Logger.Logger
	// минт инициализирует пул в той же транзакции
	mintBudget := d.Budget
	if mintBudget.Units < computebudget.PoolInitUnits {
		mintBudget.Units = computebudget.PoolInitUnits
	}
	deriver := pda.NewDeriver(d.Profile.ProgramID)
	md := metadata.NewCache(d.Chain, metadata.DefaultTTL, zl)

	return &Service{
		chain:       d.Chain,
		profile:     d.Profile,
		signer:      d.Signer,
		submitter:   d.Submitter,
		store:       d.Store,
		metrics:     d.Metrics,
		budget:      d.Budget,
		tokenParams: d.TokenParams,
		deriver:     deriver,
		metadata:    md,
		resolver:    referral.NewResolver(d.Chain, deriver, zl),
		builder:     mint.NewBuilder(d.Chain, deriver, PoolContext(d.Profile), md, mintBudget, zl),
		log:         d.Logger,
		logger:      zl.Named("service"),
	}
}

// PoolContext возвращает постоянные адреса AMM профиля.
func PoolContext(p config.Profile) mint.PoolContext {
	return mint.PoolContext{
		AmmProgram:  p.CpSwapProgram,
		AmmConfig:   p.CpSwapConfig,
		FeeReceiver: p.CreatePoolFeeReceiver,
	}
}

// SystemConfigAddress вычисляет адрес системной конфигурации профиля.
func (s *Service) SystemConfigAddress() (solana.PublicKey, error) {
	addr, _, err := s.deriver.SystemConfig(s.profile.SystemManager)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive system config: %w", err)
	}
	return addr, nil
}

// send собирает транзакцию из инструкций со свежим blockhash и отправляет её.
func (s *Service) send(ctx context.Context, operation string, ixs []solana.Instruction) (*submit.Result, error) {
	blockhash, lastValid, err := s.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	tx, err := solana.NewTransaction(ixs, blockhash, solana.TransactionPayer(s.signer.Public()))
	if err != nil {
		return nil, fmt.Errorf("%w: compile transaction: %v", domain.ErrBuild, err)
	}
	return s.submitter.Submit(ctx, operation, tx, lastValid, s.signer)
}

// withBudget добавляет compute budget перед инструкциями.
func (s *Service) withBudget(ixs ...solana.Instruction) ([]solana.Instruction, error) {
	budget, err := s.budget.Instructions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBuild, err)
	}
	return append(budget, ixs...), nil
}

func (s *Service) newRecord(operation string, mintAddr solana.PublicKey, code string) *models.Operation {
	rec := &models.Operation{
		Operation: operation,
		Network:   string(s.profile.Network),
		Actor:     s.signer.Public().String(),
		Code:      code,
	}
	if !mintAddr.IsZero() {
		rec.Mint = mintAddr.String()
	}
	return rec
}

// record сохраняет итог операции. Сбой записи истории не влияет на результат операции.
func (s *Service) record(ctx context.Context, rec *models.Operation, res *submit.Result, opErr error, start time.Time) {
	rec.DurationMs = time.Since(start).Milliseconds()

	switch {
	case opErr != nil:
		rec.Outcome = OutcomeFailed
		if domain.IsValidation(opErr) {
			rec.Outcome = OutcomeRejected
			if s.metrics != nil {
				s.metrics.RecordValidationError(rec.Operation, domain.Kind(opErr))
			}
		}
		rec.ErrorKind = domain.Kind(opErr)
		rec.ErrorMessage = opErr.Error()
	case res != nil:
		rec.Outcome = string(res.Outcome)
		if !res.Signature.IsZero() {
			rec.Signature = res.Signature.String()
		}
		rec.Slot = res.Slot
		if res.Err != nil {
			rec.ErrorKind = domain.Kind(res.Err)
			rec.ErrorMessage = res.Err.Error()
		}
	}

	if err := s.store.SaveOperation(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("Failed to save operation history", zap.String("operation", rec.Operation), zap.Error(err))
	}
}

// submissionError превращает неуспешный результат в ошибку для промежуточных
// транзакций, после которых пайплайн не может продолжаться.
func submissionError(operation string, res *submit.Result) error {
	if res.Err != nil {
		return fmt.Errorf("%s: %s: %w", operation, res.Outcome, res.Err)
	}
	return fmt.Errorf("%s: %w: %s", operation, domain.ErrSubmission, res.Outcome)
}

// ignoreNotFound возвращает nil для отсутствующего аккаунта.
func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil
	}
	return err
}
