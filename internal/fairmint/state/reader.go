// internal/fairmint/state/reader.go
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// AccountReader - узкий интерфейс чтения сырых данных аккаунта.
// Отсутствующий аккаунт возвращается как domain.ErrAccountNotFound.
type AccountReader interface {
	GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
}

// FetchSystemConfig читает и декодирует системную конфигурацию.
func FetchSystemConfig(ctx context.Context, r AccountReader, account solana.PublicKey) (*SystemConfigData, error) {
	data, err := r.GetAccountData(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("system config %s: %w", account, err)
	}
	return DecodeSystemConfig(data)
}

// FetchTokenConfig читает и декодирует конфигурацию токена.
func FetchTokenConfig(ctx context.Context, r AccountReader, account solana.PublicKey) (*TokenConfigData, error) {
	data, err := r.GetAccountData(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("token config %s: %w", account, err)
	}
	return DecodeTokenConfig(data)
}

// FetchTokenReferral читает реферальную запись.
func FetchTokenReferral(ctx context.Context, r AccountReader, account solana.PublicKey) (*TokenReferralData, error) {
	data, err := r.GetAccountData(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("referral %s: %w", account, err)
	}
	return DecodeTokenReferral(data)
}

// FetchCodeAccount читает запись кода.
func FetchCodeAccount(ctx context.Context, r AccountReader, account solana.PublicKey) (*CodeAccountData, error) {
	data, err := r.GetAccountData(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("code account %s: %w", account, err)
	}
	return DecodeCodeAccount(data)
}

// AccountExists проверяет существование аккаунта.
func AccountExists(ctx context.Context, r AccountReader, account solana.PublicKey) (bool, error) {
	_, err := r.GetAccountData(ctx, account)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		return false, nil
	}
	return false, err
}
