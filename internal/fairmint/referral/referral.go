// internal/fairmint/referral/referral.go
package referral

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
)

// Handle - результат разрешения реферального кода.
type Handle struct {
	Code            string
	CodeHash        solana.PublicKey // вычислен из строки кода
	CodeAccount     solana.PublicKey
	ReferralAccount solana.PublicKey
	ReferrerMain    solana.PublicKey
	ReferrerAta     solana.PublicKey
	Mint            solana.PublicKey
	UsageCount      uint32
	ActivatedAt     time.Time
	// StoredCodeHash - хэш, записанный в реферальной записи, для сверки.
	StoredCodeHash solana.PublicKey
}

// Consistent сообщает, совпадает ли сохранённый хэш с вычисленным.
func (h *Handle) Consistent() bool {
	return h.StoredCodeHash.Equals(h.CodeHash)
}

// Resolver разрешает реферальные коды через записи code -> referral.
type Resolver struct {
	reader  state.AccountReader
	deriver pda.Deriver
	logger  *zap.Logger
}

// NewResolver создаёт Resolver.
func NewResolver(reader state.AccountReader, deriver pda.Deriver, logger *zap.Logger) *Resolver {
	return &Resolver{
		reader:  reader,
		deriver: deriver,
		logger:  logger.Named("referral"),
	}
}

// Addresses вычисляет хэш кода и адрес записи кода.
func (r *Resolver) Addresses(code string) (codeHash, codeAccount solana.PublicKey, err error) {
	codeHash, _, err = r.deriver.CodeHash(code)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, err
	}
	codeAccount, _, err = r.deriver.CodeAccount(codeHash)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, err
	}
	return codeHash, codeAccount, nil
}

// Resolve проходит цепочку код -> запись кода -> реферальная запись.
// Висячий указатель на реферальную запись возвращается как ErrReferralNotFound.
func (r *Resolver) Resolve(ctx context.Context, code string) (*Handle, error) {
	codeHash, codeAccount, err := r.Addresses(code)
	if err != nil {
		return nil, err
	}

	codeData, err := state.FetchCodeAccount(ctx, r.reader, codeAccount)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %q: %w", domain.ErrCodeNotFound, code, err)
		}
		return nil, err
	}

	ref, err := state.FetchTokenReferral(ctx, r.reader, codeData.ReferralAccount)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: code %q points to %s: %w",
				domain.ErrReferralNotFound, code, codeData.ReferralAccount, err)
		}
		return nil, err
	}

	h := &Handle{
		Code:            code,
		CodeHash:        codeHash,
		CodeAccount:     codeAccount,
		ReferralAccount: codeData.ReferralAccount,
		ReferrerMain:    ref.ReferrerMain,
		ReferrerAta:     ref.ReferrerAta,
		Mint:            ref.Mint,
		UsageCount:      ref.UsageCount,
		ActivatedAt:     time.Unix(ref.ActiveTimestamp, 0).UTC(),
		StoredCodeHash:  ref.CodeHash,
	}

	r.logger.Debug("referral code resolved",
		zap.String("code_hash", codeHash.String()),
		zap.String("referral", h.ReferralAccount.String()),
		zap.String("referrer", h.ReferrerMain.String()),
		zap.Uint32("usage_count", h.UsageCount))

	return h, nil
}

// ValidateBinding проверяет, что код свободен или уже указывает на claimed.
// Перепривязка кода к другой реферальной записи не допускается.
func (r *Resolver) ValidateBinding(ctx context.Context, code string, claimed solana.PublicKey) error {
	_, codeAccount, err := r.Addresses(code)
	if err != nil {
		return err
	}

	codeData, err := state.FetchCodeAccount(ctx, r.reader, codeAccount)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return err
	}

	if !codeData.ReferralAccount.Equals(claimed) {
		return fmt.Errorf("%w: code %q points to %s, not %s",
			domain.ErrCodeAlreadyBound, code, codeData.ReferralAccount, claimed)
	}
	return nil
}
