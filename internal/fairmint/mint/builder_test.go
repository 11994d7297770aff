// internal/fairmint/mint/builder_test.go
package mint

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/instructions"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/metadata"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
)

type fakeChain struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey][]byte
	balance  uint64
	calls    []string
}

func newFakeChain() *fakeChain {
	return &fakeChain{accounts: make(map[solana.PublicKey][]byte), balance: 1_000_000_000}
}

func (f *fakeChain) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeChain) GetAccountData(_ context.Context, account solana.PublicKey) ([]byte, error) {
	f.record("GetAccountData")
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.accounts[account]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return data, nil
}

func (f *fakeChain) GetBalance(_ context.Context, _ solana.PublicKey) (uint64, error) {
	f.record("GetBalance")
	return f.balance, nil
}

func (f *fakeChain) GetLatestBlockhash(_ context.Context) (solana.Hash, uint64, error) {
	f.record("GetLatestBlockhash")
	return solana.Hash{7, 7, 7}, 1234, nil
}

func (f *fakeChain) put(t *testing.T, addr solana.PublicKey, name string, v interface{}) {
	t.Helper()
	data, err := state.EncodeAccount(name, v)
	require.NoError(t, err)
	f.accounts[addr] = data
}

type staticMetadata struct {
	md *metadata.Metadata
}

func (s staticMetadata) Get(_ context.Context, mint solana.PublicKey) (*metadata.Metadata, error) {
	out := *s.md
	out.Mint = mint
	return &out, nil
}

func keyWithPrefix(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	for i := 1; i < len(k); i++ {
		k[i] = byte(i)
	}
	return k
}

type env struct {
	chain    *fakeChain
	builder  *Builder
	deriver  pda.Deriver
	pool     PoolContext
	req      Request
	referrer solana.PublicKey
	codeHash solana.PublicKey
	referral solana.PublicKey
}

// newEnv готовит цепочку с зарегистрированным кодом "ABC123" для минта.
func newEnv(t *testing.T, mint solana.PublicKey) *env {
	t.Helper()
	d := pda.NewDeriver(solana.NewWallet().PublicKey())
	pool := PoolContext{
		AmmProgram:  solana.NewWallet().PublicKey(),
		AmmConfig:   solana.NewWallet().PublicKey(),
		FeeReceiver: solana.NewWallet().PublicKey(),
	}
	chain := newFakeChain()
	referrer := solana.NewWallet().PublicKey()

	codeHash, _, err := d.CodeHash("ABC123")
	require.NoError(t, err)
	codeAccount, _, err := d.CodeAccount(codeHash)
	require.NoError(t, err)
	referral, _, err := d.Referral(mint, referrer)
	require.NoError(t, err)
	referrerAta, _, err := solana.FindAssociatedTokenAddress(referrer, mint)
	require.NoError(t, err)

	chain.put(t, codeAccount, state.CodeAccountName, state.CodeAccountData{ReferralAccount: referral})
	chain.put(t, referral, state.TokenReferralAccountName, state.TokenReferralData{
		ReferrerMain: referrer,
		ReferrerAta:  referrerAta,
		CodeHash:     codeHash,
		Mint:         mint,
	})
	chain.accounts[referrerAta] = make([]byte, 165)

	md := staticMetadata{md: &metadata.Metadata{Name: "Fair Token", Symbol: "FAIR"}}
	builder := NewBuilder(chain, d, pool, md, computebudget.NewPoolInitConfig(), zap.NewNop())

	return &env{
		chain:   chain,
		builder: builder,
		deriver: d,
		pool:    pool,
		req: Request{
			Mint:               mint,
			Code:               "ABC123",
			Minter:             solana.NewWallet().PublicKey(),
			SystemConfig:       solana.NewWallet().PublicKey(),
			ProtocolFeeAccount: solana.NewWallet().PublicKey(),
			LookupTable: LookupTable{
				Address:   solana.NewWallet().PublicKey(),
				Addresses: solana.PublicKeySlice{solana.TokenProgramID, solana.SysVarRentPubkey, pool.AmmConfig},
			},
		},
		referrer: referrer,
		codeHash: codeHash,
		referral: referral,
	}
}

func TestRemainingAccountsOrder(t *testing.T) {
	ctx := PoolContext{
		AmmProgram:  solana.NewWallet().PublicKey(),
		AmmConfig:   solana.NewWallet().PublicKey(),
		FeeReceiver: solana.NewWallet().PublicKey(),
	}
	minter := solana.NewWallet().PublicKey()

	for _, tc := range []struct {
		name      string
		mint      solana.PublicKey
		mintIsLow bool
	}{
		{"mint sorts before wsol", keyWithPrefix(0x01), true},
		// Mmm... > So1... на первом отличающемся байте
		{"mint sorts after wsol", keyWithPrefix(0xff), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pool, err := pda.DerivePool(ctx.AmmConfig, tc.mint, solana.WrappedSol, ctx.AmmProgram)
			require.NoError(t, err)
			creator, err := DeriveCreatorAccounts(minter, pool)
			require.NoError(t, err)

			metas := RemainingAccounts(ctx, minter, pool, creator)
			require.Len(t, metas, RemainingAccountsLen)

			if tc.mintIsLow {
				assert.Equal(t, tc.mint, metas[5].PublicKey)
				assert.Equal(t, solana.WrappedSol, metas[6].PublicKey)
			} else {
				assert.Equal(t, solana.WrappedSol, metas[5].PublicKey)
				assert.Equal(t, tc.mint, metas[6].PublicKey)
			}

			want := []solana.PublicKey{
				ctx.AmmProgram, minter, ctx.AmmConfig, pool.Authority, pool.Pool,
				pool.Token0, pool.Token1, pool.LPMint,
				creator.Token0, creator.Token1, creator.LP,
				pool.Vault0, pool.Vault1, ctx.FeeReceiver, pool.Observation,
				solana.TokenProgramID, solana.TokenProgramID, solana.TokenProgramID,
				solana.SPLAssociatedTokenAccountProgramID, solana.SystemProgramID, solana.SysVarRentPubkey,
			}
			for i, m := range metas {
				assert.Equal(t, want[i], m.PublicKey, "slot %d", i+1)
				assert.Equal(t, i == 1, m.IsSigner, "slot %d signer", i+1)
				assert.Equal(t, i >= 1 && i <= 14, m.IsWritable, "slot %d writable", i+1)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	e := newEnv(t, mint)

	plan, err := e.builder.Build(context.Background(), e.req)
	require.NoError(t, err)

	assert.Equal(t, "Fair Token", plan.Name)
	assert.Equal(t, "FAIR", plan.Symbol)
	assert.Equal(t, e.codeHash, plan.CodeHash)
	assert.Equal(t, e.referrer, plan.Accounts.ReferrerMain)
	assert.Equal(t, e.referral, plan.Accounts.Referral)
	assert.Equal(t, uint64(1234), plan.LastValidBlockHeight)
	assert.Equal(t, solana.Hash{7, 7, 7}, plan.Blockhash)
	assert.Len(t, plan.Remaining, RemainingAccountsLen)

	wantDest, _, err := solana.FindAssociatedTokenAddress(e.req.Minter, mint)
	require.NoError(t, err)
	assert.Equal(t, wantDest, plan.Accounts.Destination)

	tx := plan.Transaction
	require.NotNil(t, tx)
	require.Len(t, tx.Message.Instructions, 2)
	assert.Equal(t, e.req.Minter, tx.Message.AccountKeys[0])
	assert.Equal(t, plan.Blockhash, tx.Message.RecentBlockhash)
	assert.True(t, tx.Message.IsVersioned())
	assert.NotEmpty(t, tx.Message.AddressTableLookups)

	program, err := tx.Message.Program(tx.Message.Instructions[0].ProgramIDIndex)
	require.NoError(t, err)
	assert.Equal(t, computebudget.ProgramID, program)

	data := []byte(tx.Message.Instructions[1].Data)
	disc := instructions.Discriminator(instructions.MintTokensName)
	assert.Equal(t, disc[:], data[:8])
	// name: u32 длина + байты
	assert.Equal(t, uint32(len("Fair Token")), binary.LittleEndian.Uint32(data[8:12]))
}

func TestBuildZeroBalance(t *testing.T) {
	e := newEnv(t, solana.NewWallet().PublicKey())
	e.chain.balance = 0

	_, err := e.builder.Build(context.Background(), e.req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientFunds))
	assert.Equal(t, []string{"GetBalance"}, e.chain.calls)
}

func TestBuildMissingParameters(t *testing.T) {
	e := newEnv(t, solana.NewWallet().PublicKey())
	req := e.req
	req.Code = ""

	_, err := e.builder.Build(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrParameterMissing))
	assert.Empty(t, e.chain.calls)
}

func TestBuildRequiresLookupTable(t *testing.T) {
	e := newEnv(t, solana.NewWallet().PublicKey())

	req := e.req
	req.LookupTable = LookupTable{}
	_, err := e.builder.Build(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrParameterMissing))

	req.LookupTable = LookupTable{Address: solana.NewWallet().PublicKey()}
	_, err = e.builder.Build(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
	assert.Empty(t, e.chain.calls)
}

func TestBuildReferrerAccountMissing(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	e := newEnv(t, mint)
	ata, _, err := solana.FindAssociatedTokenAddress(e.referrer, mint)
	require.NoError(t, err)
	delete(e.chain.accounts, ata)

	_, err = e.builder.Build(context.Background(), e.req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReferrerAccountMissing))
	assert.NotContains(t, e.chain.calls, "GetLatestBlockhash")
}

func TestBuildCodeHashMismatch(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	e := newEnv(t, mint)

	ref, err := state.DecodeTokenReferral(e.chain.accounts[e.referral])
	require.NoError(t, err)
	ref.CodeHash = solana.NewWallet().PublicKey()
	e.chain.put(t, e.referral, state.TokenReferralAccountName, *ref)

	_, err = e.builder.Build(context.Background(), e.req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeHashMismatch))
	assert.True(t, domain.IsValidation(err))
}

func TestBuildUnknownCode(t *testing.T) {
	e := newEnv(t, solana.NewWallet().PublicKey())
	req := e.req
	req.Code = "ZZZ999"

	_, err := e.builder.Build(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
}

func TestFetchLookupTable(t *testing.T) {
	chain := newFakeChain()
	addr := solana.NewWallet().PublicKey()

	data := make([]byte, 0, 56+64)
	data = binary.LittleEndian.AppendUint32(data, 1)
	data = binary.LittleEndian.AppendUint64(data, ^uint64(0))
	data = binary.LittleEndian.AppendUint64(data, 10)
	data = append(data, 0, 1)
	data = append(data, solana.NewWallet().PublicKey().Bytes()...)
	data = append(data, 0, 0)
	data = append(data, solana.TokenProgramID.Bytes()...)
	data = append(data, solana.WrappedSol.Bytes()...)
	chain.accounts[addr] = data

	lut, err := FetchLookupTable(context.Background(), chain, addr)
	require.NoError(t, err)
	assert.Equal(t, addr, lut.Address)
	assert.Equal(t, solana.PublicKeySlice{solana.TokenProgramID, solana.WrappedSol}, lut.Addresses)
	assert.Len(t, lut.Tables(), 1)

	_, err = FetchLookupTable(context.Background(), chain, solana.NewWallet().PublicKey())
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))

	assert.Nil(t, LookupTable{}.Tables())
}
