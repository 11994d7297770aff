// internal/domain/errors.go
package domain

import (
	"errors"
)

// Таксономия ошибок клиента. Все публичные операции оборачивают одну из
// этих ошибок через fmt.Errorf("%w: ..."), вызывающий код проверяет errors.Is.
var (
	ErrParameterMissing       = errors.New("parameter missing")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrAccountNotFound        = errors.New("account not found")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrCodeNotFound           = errors.New("referral code not found")
	ErrReferralNotFound       = errors.New("referral account not found")
	ErrCodeAlreadyBound       = errors.New("referral code already bound to another account")
	ErrCodeHashMismatch       = errors.New("code hash mismatch")
	ErrReferrerAccountMissing = errors.New("referrer token account missing")
	ErrSchemaMismatch         = errors.New("schema mismatch")
	ErrDecode                 = errors.New("decode error")
	ErrBuild                  = errors.New("build error")
	ErrSubmission             = errors.New("submission error")
	ErrConfirmationTimeout    = errors.New("confirmation timeout")
	ErrSeedSpaceExhausted     = errors.New("seed space exhausted")
	ErrReadOnlySigner         = errors.New("read-only signer cannot sign")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrParameterMissing, "ParameterMissing"},
	{ErrInvalidParameter, "InvalidParameter"},
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrCodeNotFound, "CodeNotFound"},
	{ErrReferralNotFound, "ReferralNotFound"},
	{ErrCodeAlreadyBound, "CodeAlreadyBound"},
	{ErrCodeHashMismatch, "CodeHashMismatch"},
	{ErrReferrerAccountMissing, "ReferrerAccountMissing"},
	{ErrSchemaMismatch, "SchemaMismatch"},
	{ErrDecode, "DecodeError"},
	{ErrBuild, "BuildError"},
	{ErrSubmission, "SubmissionError"},
	{ErrConfirmationTimeout, "ConfirmationTimeout"},
	{ErrSeedSpaceExhausted, "SeedSpaceExhausted"},
	{ErrReadOnlySigner, "ReadOnlySigner"},
	// AccountNotFound проверяется последним: CodeNotFound/ReferralNotFound
	// оборачивают его и должны классифицироваться точнее.
	{ErrAccountNotFound, "AccountNotFound"},
}

// Kind возвращает имя категории ошибки для логов и истории.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}

// IsValidation сообщает, обнаружена ли ошибка локально до отправки транзакции.
func IsValidation(err error) bool {
	return errors.Is(err, ErrParameterMissing) ||
		errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrCodeHashMismatch) ||
		errors.Is(err, ErrCodeAlreadyBound) ||
		errors.Is(err, ErrReferrerAccountMissing)
}
