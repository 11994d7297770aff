// internal/fairmint/submit/result.go
package submit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// Outcome - итог одной попытки отправки.
type Outcome string

const (
	OutcomeConfirmed       Outcome = "confirmed"
	OutcomeProgramRejected Outcome = "program_rejected"
	OutcomeTransportFailed Outcome = "transport_failed"
	OutcomeExpired         Outcome = "expired"
)

// JSON-RPC код отказа preflight-симуляции.
const simulationFailedCode = -32002

// Result - структурированный итог отправки. Ошибки программы и сети
// возвращаются здесь, а не как error.
type Result struct {
	Outcome   Outcome
	Signature solana.Signature
	Slot      uint64
	// ChainError - сырой payload ошибки от сети: status.err либо data.err симуляции.
	ChainError interface{}
	Logs       []string
	Err        error
	Duration   time.Duration
}

// Success сообщает, подтверждена ли транзакция без ошибки.
func (r *Result) Success() bool {
	return r != nil && r.Outcome == OutcomeConfirmed
}

// Retryable сообщает, имеет ли смысл повторить попытку с новым blockhash
// без изменения входных данных.
func (r *Result) Retryable() bool {
	return r != nil && (r.Outcome == OutcomeTransportFailed || r.Outcome == OutcomeExpired)
}

func (r *Result) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.Success() {
		return fmt.Sprintf("%s %s (slot %d)", r.Outcome, r.Signature, r.Slot)
	}
	return fmt.Sprintf("%s %s: %v", r.Outcome, r.Signature, r.Err)
}

// blockhashNotFound сообщает, что preflight отклонён из-за неизвестного
// или истёкшего blockhash, а не программой.
func blockhashNotFound(rpcErr *jsonrpc.RPCError) bool {
	texts := []string{rpcErr.Message}
	if data, ok := rpcErr.Data.(map[string]interface{}); ok {
		texts = append(texts, fmt.Sprint(data["err"]))
	}
	for _, t := range texts {
		t = strings.ToLower(strings.ReplaceAll(t, " ", ""))
		if strings.Contains(t, "blockhashnotfound") {
			return true
		}
	}
	return false
}

// classifySendError отделяет отказ программы на preflight от транспортного сбоя
// и от устаревшего blockhash.
func classifySendError(err error) *Result {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == simulationFailedCode {
		if blockhashNotFound(rpcErr) {
			return &Result{
				Outcome:    OutcomeExpired,
				ChainError: rpcErr.Message,
				Err:        fmt.Errorf("%w: preflight: %s", domain.ErrConfirmationTimeout, rpcErr.Message),
			}
		}
		res := &Result{
			Outcome: OutcomeProgramRejected,
			Err:     fmt.Errorf("%w: preflight: %s", domain.ErrSubmission, rpcErr.Message),
		}
		if data, ok := rpcErr.Data.(map[string]interface{}); ok {
			res.ChainError = data["err"]
			if logs, ok := data["logs"].([]interface{}); ok {
				for _, l := range logs {
					if s, ok := l.(string); ok {
						res.Logs = append(res.Logs, s)
					}
				}
			}
		}
		if res.ChainError == nil {
			res.ChainError = rpcErr.Message
		}
		return res
	}
	return &Result{
		Outcome: OutcomeTransportFailed,
		Err:     fmt.Errorf("%w: send: %w", domain.ErrSubmission, err),
	}
}
