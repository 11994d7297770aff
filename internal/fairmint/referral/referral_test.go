// internal/fairmint/referral/referral_test.go
package referral

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
)

type accounts map[solana.PublicKey][]byte

func (a accounts) GetAccountData(_ context.Context, account solana.PublicKey) ([]byte, error) {
	data, ok := a[account]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return data, nil
}

func (a accounts) put(t *testing.T, addr solana.PublicKey, name string, v interface{}) {
	t.Helper()
	data, err := state.EncodeAccount(name, v)
	require.NoError(t, err)
	a[addr] = data
}

type fixture struct {
	chain    accounts
	resolver *Resolver
	deriver  pda.Deriver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d := pda.NewDeriver(solana.NewWallet().PublicKey())
	chain := accounts{}
	return &fixture{
		chain:    chain,
		resolver: NewResolver(chain, d, zap.NewNop()),
		deriver:  d,
	}
}

// bind записывает запись кода и реферальную запись, как это делает set_referrer_code.
func (f *fixture) bind(t *testing.T, code string, mint, referrer solana.PublicKey) solana.PublicKey {
	t.Helper()
	codeHash, codeAccount, err := f.resolver.Addresses(code)
	require.NoError(t, err)
	referral, _, err := f.deriver.Referral(mint, referrer)
	require.NoError(t, err)
	ata, _, err := solana.FindAssociatedTokenAddress(referrer, mint)
	require.NoError(t, err)

	f.chain.put(t, codeAccount, state.CodeAccountName, state.CodeAccountData{ReferralAccount: referral})
	f.chain.put(t, referral, state.TokenReferralAccountName, state.TokenReferralData{
		ReferrerMain:    referrer,
		ReferrerAta:     ata,
		UsageCount:      3,
		CodeHash:        codeHash,
		Mint:            mint,
		ActiveTimestamp: 1_700_000_000,
	})
	return referral
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	mint := solana.NewWallet().PublicKey()
	referrer := solana.NewWallet().PublicKey()
	referral := f.bind(t, "ABC123", mint, referrer)

	h, err := f.resolver.Resolve(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, referral, h.ReferralAccount)
	assert.Equal(t, referrer, h.ReferrerMain)
	assert.Equal(t, mint, h.Mint)
	assert.Equal(t, uint32(3), h.UsageCount)
	assert.Equal(t, int64(1_700_000_000), h.ActivatedAt.Unix())
	assert.True(t, h.Consistent())
}

func TestResolveCodeNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.Resolve(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
	assert.Equal(t, "CodeNotFound", domain.Kind(err))

	_, err = f.resolver.Resolve(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrParameterMissing))
}

func TestResolveDanglingPointer(t *testing.T) {
	f := newFixture(t)
	_, codeAccount, err := f.resolver.Addresses("LOST")
	require.NoError(t, err)
	f.chain.put(t, codeAccount, state.CodeAccountName, state.CodeAccountData{
		ReferralAccount: solana.NewWallet().PublicKey(),
	})

	_, err = f.resolver.Resolve(context.Background(), "LOST")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReferralNotFound))
	assert.Equal(t, "ReferralNotFound", domain.Kind(err))
}

func TestResolveHashMismatchIsReported(t *testing.T) {
	f := newFixture(t)
	mint := solana.NewWallet().PublicKey()
	referral := f.bind(t, "ABC123", mint, solana.NewWallet().PublicKey())

	data := f.chain[referral]
	ref, err := state.DecodeTokenReferral(data)
	require.NoError(t, err)
	ref.CodeHash = solana.NewWallet().PublicKey()
	f.chain.put(t, referral, state.TokenReferralAccountName, *ref)

	h, err := f.resolver.Resolve(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.False(t, h.Consistent())
}

func TestValidateBinding(t *testing.T) {
	f := newFixture(t)
	mint := solana.NewWallet().PublicKey()
	r1 := solana.NewWallet().PublicKey()
	r2 := solana.NewWallet().PublicKey()
	ctx := context.Background()

	// свободный код можно привязать к кому угодно
	claimed, _, err := f.deriver.Referral(mint, r2)
	require.NoError(t, err)
	require.NoError(t, f.resolver.ValidateBinding(ctx, "ABC123", claimed))

	bound := f.bind(t, "ABC123", mint, r1)
	require.NoError(t, f.resolver.ValidateBinding(ctx, "ABC123", bound))

	err = f.resolver.ValidateBinding(ctx, "ABC123", claimed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeAlreadyBound))
	assert.True(t, domain.IsValidation(err))
}
