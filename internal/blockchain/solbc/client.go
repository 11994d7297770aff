// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/blockchain"
	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// RPCObserver получает латентность и ошибки каждого RPC-вызова.
type RPCObserver interface {
	RecordRPC(method string, duration time.Duration, err error)
}

// Options - параметры клиента.
type Options struct {
	Commitment rpc.CommitmentType
	// Retries - число повторов чтения при транспортных ошибках. Отправка не повторяется.
	Retries      uint
	RetryInitial time.Duration
	Metrics      RPCObserver
}

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
type Client struct {
	rpc      *rpc.Client
	opts     Options
	analyzer *ErrorAnalyzer
	logger   *zap.Logger
}

// IsAccountNotFoundError проверяет, является ли ошибка "not found"
func IsAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, rpc.ErrNotFound) || errors.Is(err, domain.ErrAccountNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "could not find account")
}

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
func NewClient(rpcURL string, opts Options, logger *zap.Logger) *Client {
	if opts.Commitment == "" {
		opts.Commitment = rpc.CommitmentConfirmed
	}
	if opts.RetryInitial <= 0 {
		opts.RetryInitial = 200 * time.Millisecond
	}
	return &Client{
		rpc:      rpc.New(rpcURL),
		opts:     opts,
		analyzer: NewErrorAnalyzer(logger),
		logger:   logger.Named("solbc-client"),
	}
}

// read выполняет операцию чтения с повторами при транспортных ошибках.
// Ошибки, обёрнутые в backoff.Permanent, не повторяются.
func read[T any](ctx context.Context, c *Client, method string, op func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.RetryInitial

	notify := func(err error, d time.Duration) {
		c.logger.Debug("Retrying RPC call", zap.String("method", method), zap.Error(err), zap.Duration("backoff", d))
	}

	start := time.Now()
	out, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.opts.Retries+1),
		backoff.WithNotify(notify))
	c.observe(method, start, err)
	return out, err
}

func (c *Client) observe(method string, start time.Time, err error) {
	if c.opts.Metrics == nil {
		return
	}
	// отсутствующий аккаунт - штатный ответ, а не сбой RPC
	if errors.Is(err, domain.ErrAccountNotFound) {
		err = nil
	}
	c.opts.Metrics.RecordRPC(method, time.Since(start), err)
}

// GetAccountData получает сырые данные аккаунта.
func (c *Client) GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	return read(ctx, c, "getAccountInfo", func() ([]byte, error) {
		res, err := c.rpc.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
			Commitment: c.opts.Commitment,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			if errors.Is(err, rpc.ErrNotFound) {
				return nil, backoff.Permanent(fmt.Errorf("%w: %s", domain.ErrAccountNotFound, account))
			}
			c.logger.Debug("GetAccountInfo error", zap.String("pubkey", account.String()), zap.Error(err))
			return nil, err
		}
		if res == nil || res.Value == nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %s", domain.ErrAccountNotFound, account))
		}
		return res.Value.Data.GetBinary(), nil
	})
}

// GetMultipleAccountData получает данные нескольких аккаунтов за один запрос.
func (c *Client) GetMultipleAccountData(ctx context.Context, accounts []solana.PublicKey) ([][]byte, error) {
	if len(accounts) == 0 {
		return nil, nil
	}
	return read(ctx, c, "getMultipleAccounts", func() ([][]byte, error) {
		res, err := c.rpc.GetMultipleAccountsWithOpts(ctx, accounts, &rpc.GetMultipleAccountsOpts{
			Commitment: c.opts.Commitment,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			c.logger.Debug("GetMultipleAccounts error", zap.Error(err))
			return nil, err
		}
		out := make([][]byte, len(accounts))
		for i, acc := range res.Value {
			if i < len(out) && acc != nil {
				out[i] = acc.Data.GetBinary()
			}
		}
		return out, nil
	})
}

// GetBalance получает баланс аккаунта.
func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	return read(ctx, c, "getBalance", func() (uint64, error) {
		res, err := c.rpc.GetBalance(ctx, account, c.opts.Commitment)
		if err != nil {
			c.logger.Debug("GetBalance error", zap.Error(err))
			return 0, err
		}
		return res.Value, nil
	})
}

// GetTokenBalance получает баланс токенного аккаунта в сырых единицах.
func (c *Client) GetTokenBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	return read(ctx, c, "getTokenAccountBalance", func() (uint64, error) {
		res, err := c.rpc.GetTokenAccountBalance(ctx, account, c.opts.Commitment)
		if err != nil {
			if IsAccountNotFoundError(err) {
				return 0, backoff.Permanent(fmt.Errorf("%w: token account %s", domain.ErrAccountNotFound, account))
			}
			return 0, err
		}
		if res == nil || res.Value == nil {
			return 0, backoff.Permanent(fmt.Errorf("%w: token account %s", domain.ErrAccountNotFound, account))
		}
		amount, err := strconv.ParseUint(res.Value.Amount, 10, 64)
		if err != nil {
			return 0, backoff.Permanent(fmt.Errorf("%w: token amount %q: %v", domain.ErrDecode, res.Value.Amount, err))
		}
		return amount, nil
	})
}

// GetLatestBlockhash получает последний blockhash и высоту, до которой он действителен.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	type latest struct {
		hash      solana.Hash
		lastValid uint64
	}
	out, err := read(ctx, c, "getLatestBlockhash", func() (latest, error) {
		res, err := c.rpc.GetLatestBlockhash(ctx, c.opts.Commitment)
		if err != nil {
			c.logger.Error("GetLatestBlockhash error", zap.Error(err))
			return latest{}, err
		}
		return latest{hash: res.Value.Blockhash, lastValid: res.Value.LastValidBlockHeight}, nil
	})
	return out.hash, out.lastValid, err
}

// GetBlockHeight получает текущую высоту блока.
func (c *Client) GetBlockHeight(ctx context.Context) (uint64, error) {
	return read(ctx, c, "getBlockHeight", func() (uint64, error) {
		return c.rpc.GetBlockHeight(ctx, c.opts.Commitment)
	})
}

// GetSlot получает текущий слот. Пустой commitment заменяется уровнем клиента.
func (c *Client) GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	if commitment == "" {
		commitment = c.opts.Commitment
	}
	return read(ctx, c, "getSlot", func() (uint64, error) {
		return c.rpc.GetSlot(ctx, commitment)
	})
}

// SendTransactionWithOpts отправляет транзакцию с заданными опциями. Одна попытка:
// повтор требует нового blockhash и решается вызывающим кодом.
func (c *Client) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error) {
	start := time.Now()
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: opts.PreflightCommitment,
	})
	c.observe("sendTransaction", start, err)
	if err != nil {
		analysis := c.analyzer.Analyze(err)
		c.logger.Error("SendTransactionWithOpts error",
			zap.Error(err),
			zap.String("analysis", c.analyzer.Format(analysis)))
		return solana.Signature{}, err
	}
	return sig, nil
}

// GetSignatureStatuses получает статусы транзакций.
func (c *Client) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	start := time.Now()
	result, err := c.rpc.GetSignatureStatuses(ctx, false, signatures...)
	c.observe("getSignatureStatuses", start, err)
	if err != nil {
		c.logger.Debug("GetSignatureStatuses error", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// SimulateTransaction симулирует транзакцию и возвращает результат симуляции.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*blockchain.SimulationResult, error) {
	start := time.Now()
	result, err := c.rpc.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		Commitment:             c.opts.Commitment,
		ReplaceRecentBlockhash: true,
	})
	c.observe("simulateTransaction", start, err)
	if err != nil {
		c.logger.Error("SimulateTransaction error", zap.Error(err))
		return nil, err
	}
	units := uint64(0)
	if result.Value.UnitsConsumed != nil {
		units = *result.Value.UnitsConsumed
	}
	return &blockchain.SimulationResult{
		Err:           result.Value.Err,
		Logs:          result.Value.Logs,
		UnitsConsumed: units,
	}, nil
}

// Гарантируем, что Client реализует интерфейс blockchain.Client.
var _ blockchain.Client = (*Client)(nil)
