// internal/service/referral.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/instructions"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/referral"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/submit"
)

// SetURCRequest - параметры регистрации реферального кода.
type SetURCRequest struct {
	Mint solana.PublicKey
	Code string
}

// SetURCReport - итог регистрации кода.
type SetURCReport struct {
	Referral    solana.PublicKey
	CodeHash    solana.PublicKey
	CodeAccount solana.PublicKey
	ReferrerAta solana.PublicKey
	CreatedAta  bool

	Result *submit.Result
	// Handle - запись, прочитанная после подтверждения.
	Handle   *referral.Handle
	Verified bool
	Warnings []string
}

// SetURC регистрирует код для пары (mint, signer). Код, уже привязанный
// к другой реферальной записи, отклоняется до отправки.
func (s *Service) SetURC(ctx context.Context, req SetURCRequest) (report *SetURCReport, err error) {
	log := s.log.WithOperation(OpSetURC)
	start := time.Now()
	rec := s.newRecord(OpSetURC, req.Mint, req.Code)
	defer func() {
		var res *submit.Result
		if report != nil {
			res = report.Result
		}
		s.record(ctx, rec, res, err, start)
	}()

	if req.Mint.IsZero() {
		return nil, fmt.Errorf("%w: mint", domain.ErrParameterMissing)
	}
	referrer := s.signer.Public()

	accounts, codeHash, err := s.referralAccounts(req.Mint, referrer, req.Code)
	if err != nil {
		return nil, err
	}
	report = &SetURCReport{
		Referral:    accounts.Referral,
		CodeHash:    codeHash,
		CodeAccount: accounts.CodeAccount,
		ReferrerAta: accounts.ReferrerAta,
	}

	if err := s.resolver.ValidateBinding(ctx, req.Code, accounts.Referral); err != nil {
		return report, err
	}
	if _, err := state.FetchTokenConfig(ctx, s.chain, accounts.Config); err != nil {
		return report, fmt.Errorf("token %s is not launched: %w", req.Mint, err)
	}

	md, err := s.metadata.Get(ctx, req.Mint)
	if err != nil {
		return report, err
	}
	ataExists, err := state.AccountExists(ctx, s.chain, accounts.ReferrerAta)
	if err != nil {
		return report, fmt.Errorf("failed to check referrer token account: %w", err)
	}

	var ixs []solana.Instruction
	if !ataExists {
		ix, err := associatedtokenaccount.NewCreateInstruction(referrer, referrer, req.Mint).ValidateAndBuild()
		if err != nil {
			return report, fmt.Errorf("%w: referrer token account: %v", domain.ErrBuild, err)
		}
		ixs = append(ixs, ix)
		report.CreatedAta = true
	}
	setIx, err := instructions.NewSetReferrerCode(s.deriver.Program(), accounts, instructions.ReferralArgs{
		Name:     md.Name,
		Symbol:   md.Symbol,
		CodeHash: codeHash.Bytes(),
	})
	if err != nil {
		return report, err
	}
	ixs = append(ixs, setIx)

	log.Info("Submitting set_referrer_code",
		zap.String("mint", req.Mint.String()),
		zap.String("referral", accounts.Referral.String()),
		zap.Bool("create_ata", report.CreatedAta))

	res, err := s.send(ctx, OpSetURC, ixs)
	if err != nil {
		return report, err
	}
	report.Result = res
	if !res.Success() {
		return report, nil
	}

	s.verifyBinding(ctx, req.Code, report)
	return report, nil
}

func (s *Service) referralAccounts(mintAddr, referrer solana.PublicKey, code string) (instructions.SetReferrerCodeAccounts, solana.PublicKey, error) {
	var a instructions.SetReferrerCodeAccounts
	codeHash, codeAccount, err := s.resolver.Addresses(code)
	if err != nil {
		return a, solana.PublicKey{}, err
	}
	systemConfig, err := s.SystemConfigAddress()
	if err != nil {
		return a, solana.PublicKey{}, err
	}

	a = instructions.SetReferrerCodeAccounts{
		Mint:         mintAddr,
		SystemConfig: systemConfig,
		Payer:        referrer,
		CodeAccount:  codeAccount,
	}
	if a.Referral, _, err = s.deriver.Referral(mintAddr, referrer); err != nil {
		return a, solana.PublicKey{}, fmt.Errorf("%w: referral account: %w", domain.ErrBuild, err)
	}
	if a.Config, _, err = s.deriver.TokenConfig(mintAddr); err != nil {
		return a, solana.PublicKey{}, fmt.Errorf("%w: token config: %w", domain.ErrBuild, err)
	}
	if a.ReferrerAta, _, err = solana.FindAssociatedTokenAddress(referrer, mintAddr); err != nil {
		return a, solana.PublicKey{}, fmt.Errorf("%w: referrer token account: %v", domain.ErrBuild, err)
	}
	return a, codeHash, nil
}

// verifyBinding перечитывает цепочку код -> запись и сверяет её с ожидаемой.
func (s *Service) verifyBinding(ctx context.Context, code string, report *SetURCReport) {
	h, err := s.resolver.Resolve(ctx, code)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("failed to re-read referral: %v", err))
		return
	}
	report.Handle = h

	if !h.Consistent() {
		report.Warnings = append(report.Warnings, "code hash mismatch detected")
	}
	if !h.ReferralAccount.Equals(report.Referral) {
		report.Warnings = append(report.Warnings, "referral account mismatch detected")
	}
	report.Verified = len(report.Warnings) == 0
	if !report.Verified {
		s.logger.Warn("Referral binding verification failed", zap.Strings("warnings", report.Warnings))
	}
}

// DisplayURC разрешает код и возвращает реферальную запись.
func (s *Service) DisplayURC(ctx context.Context, code string) (*referral.Handle, error) {
	return s.resolver.Resolve(ctx, code)
}
