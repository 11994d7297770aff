// internal/fairmint/submit/submit.go
package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/blockchain"
	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/wallet"
)

const DefaultPollInterval = 500 * time.Millisecond

// Sender - RPC-операции отправки и отслеживания транзакции.
type Sender interface {
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetBlockHeight(ctx context.Context) (uint64, error)
}

// Recorder получает итог каждой отправки.
type Recorder interface {
	RecordTransaction(operation, outcome string, duration time.Duration)
}

// Options - параметры Submitter.
type Options struct {
	Commitment   rpc.CommitmentType
	PollInterval time.Duration
	Recorder     Recorder
}

// Submitter подписывает, отправляет и подтверждает транзакцию.
// Повторов не делает: новая попытка требует нового blockhash.
type Submitter struct {
	sender Sender
	opts   Options
	logger *zap.Logger
}

// New создаёт Submitter.
func New(sender Sender, opts Options, logger *zap.Logger) *Submitter {
	if opts.Commitment == "" {
		opts.Commitment = rpc.CommitmentConfirmed
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Submitter{
		sender: sender,
		opts:   opts,
		logger: logger.Named("submitter"),
	}
}

var errPending = errors.New("transaction not yet confirmed")

// Submit подписывает tx, отправляет с preflight и ждёт нужного уровня подтверждения,
// пока высота блока не превысила lastValidBlockHeight. error возвращается только
// для локальных сбоев (подпись); всё, что произошло после отправки, - в Result.
func (s *Submitter) Submit(ctx context.Context, operation string, tx *solana.Transaction, lastValidBlockHeight uint64, signer wallet.Signer) (*Result, error) {
	if tx == nil {
		return nil, fmt.Errorf("%w: transaction", domain.ErrParameterMissing)
	}
	if err := signer.SignTransaction(tx); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	start := time.Now()
	res := s.sendAndConfirm(ctx, tx, lastValidBlockHeight)
	res.Duration = time.Since(start)

	if s.opts.Recorder != nil {
		s.opts.Recorder.RecordTransaction(operation, string(res.Outcome), res.Duration)
	}

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("signature", res.Signature.String()),
		zap.String("outcome", string(res.Outcome)),
		zap.Duration("duration", res.Duration),
	}
	if res.Success() {
		s.logger.Info("Transaction confirmed", append(fields, zap.Uint64("slot", res.Slot))...)
	} else {
		s.logger.Warn("Transaction failed", append(fields, zap.Error(res.Err), zap.Any("chain_error", res.ChainError))...)
	}
	return res, nil
}

func (s *Submitter) sendAndConfirm(ctx context.Context, tx *solana.Transaction, lastValid uint64) *Result {
	sig, err := s.sender.SendTransactionWithOpts(ctx, tx, blockchain.TransactionOptions{
		SkipPreflight:       false,
		PreflightCommitment: s.opts.Commitment,
	})
	if err != nil {
		return classifySendError(err)
	}
	s.logger.Debug("Transaction sent", zap.String("signature", sig.String()))

	res, err := s.awaitConfirmation(ctx, sig, lastValid)
	if err != nil {
		outcome := OutcomeTransportFailed
		if errors.Is(err, domain.ErrConfirmationTimeout) {
			outcome = OutcomeExpired
		}
		return &Result{Outcome: outcome, Signature: sig, Err: err}
	}
	res.Signature = sig
	return res
}

// awaitConfirmation опрашивает статус подписи с постоянным интервалом.
// Окончание срока жизни blockhash прерывает ожидание как ErrConfirmationTimeout.
func (s *Submitter) awaitConfirmation(ctx context.Context, sig solana.Signature, lastValid uint64) (*Result, error) {
	op := func() (*Result, error) {
		statuses, err := s.sender.GetSignatureStatuses(ctx, sig)
		if err != nil {
			s.logger.Debug("Error getting signature statuses", zap.Error(err))
			return nil, err
		}
		if statuses != nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return &Result{
					Outcome:    OutcomeProgramRejected,
					Slot:       status.Slot,
					ChainError: status.Err,
					Err:        fmt.Errorf("%w: %v", domain.ErrSubmission, status.Err),
				}, nil
			}
			if reached(status.ConfirmationStatus, s.opts.Commitment) {
				return &Result{Outcome: OutcomeConfirmed, Slot: status.Slot}, nil
			}
		}

		height, err := s.sender.GetBlockHeight(ctx)
		if err != nil {
			return nil, err
		}
		if height > lastValid {
			return nil, backoff.Permanent(fmt.Errorf("%w: block height %d passed last valid %d",
				domain.ErrConfirmationTimeout, height, lastValid))
		}
		return nil, errPending
	}

	res, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.opts.PollInterval)))
	if err != nil {
		if errors.Is(err, errPending) {
			err = fmt.Errorf("%w: %v", domain.ErrConfirmationTimeout, err)
		}
		return nil, err
	}
	return res, nil
}

var commitmentRank = map[rpc.ConfirmationStatusType]int{
	rpc.ConfirmationStatusProcessed: 1,
	rpc.ConfirmationStatusConfirmed: 2,
	rpc.ConfirmationStatusFinalized: 3,
}

// reached сообщает, достиг ли статус требуемого уровня подтверждения.
func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	target := 2
	switch want {
	case rpc.CommitmentProcessed:
		target = 1
	case rpc.CommitmentFinalized:
		target = 3
	}
	return commitmentRank[status] >= target
}
