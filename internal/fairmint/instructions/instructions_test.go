package instructions

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

func TestDiscriminator(t *testing.T) {
	sum := sha256.Sum256([]byte("global:mint_tokens"))
	d := Discriminator(MintTokensName)
	assert.Equal(t, sum[:8], d[:])
	assert.NotEqual(t, Discriminator(SetReferrerCodeName), d)
}

func TestMintTokensData(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	codeHash := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()

	remaining := []*solana.AccountMeta{
		{PublicKey: solana.NewWallet().PublicKey(), IsWritable: false},
		{PublicKey: user, IsSigner: true, IsWritable: true},
	}
	ix, err := NewMintTokens(program, MintTokensAccounts{User: user}, ReferralArgs{
		Name:     "Fair",
		Symbol:   "FT",
		CodeHash: codeHash.Bytes(),
	}, remaining)
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)

	disc := Discriminator(MintTokensName)
	require.Equal(t, disc[:], data[:8])

	off := 8
	readStr := func() string {
		n := int(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
		s := string(data[off : off+n])
		off += n
		return s
	}
	assert.Equal(t, "Fair", readStr())
	assert.Equal(t, "FT", readStr())
	assert.Equal(t, uint32(32), binary.LittleEndian.Uint32(data[off:off+4]))
	assert.Equal(t, codeHash.Bytes(), data[off+4:off+36])
	assert.Len(t, data, off+36)

	accounts := ix.Accounts()
	require.Len(t, accounts, 24+len(remaining))
	assert.Equal(t, user, accounts[4].PublicKey)
	assert.True(t, accounts[4].IsSigner)
	assert.Equal(t, remaining[0], accounts[24])
	assert.Equal(t, program, ix.ProgramID())
}

func TestReferralArgsValidation(t *testing.T) {
	program := solana.NewWallet().PublicKey()

	_, err := NewMintTokens(program, MintTokensAccounts{}, ReferralArgs{Symbol: "FT", CodeHash: make([]byte, 32)}, nil)
	assert.True(t, errors.Is(err, domain.ErrParameterMissing))

	_, err = NewSetReferrerCode(program, SetReferrerCodeAccounts{}, ReferralArgs{Name: "a", Symbol: "b", CodeHash: []byte{1}})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestInitializeTokenData(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	ix, err := NewInitializeToken(program, InitializeTokenAccounts{}, TokenMetadata{
		Name: "Fair", Symbol: "FT", URI: "u", Decimals: 9,
	}, InitTokenConfig{TargetEras: 1, FeeRate: 5})
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)
	// disc + 3 строки + decimals + u32 + 7*u64
	assert.Len(t, data, 8+(4+4)+(4+2)+(4+1)+1+4+7*8)
	assert.Equal(t, uint8(9), data[8+8+6+5])
	assert.Equal(t, uint64(5), binary.LittleEndian.Uint64(data[len(data)-16:len(data)-8]))
}

func TestInitializeSystem(t *testing.T) {
	admin := solana.NewWallet().PublicKey()
	ix, err := NewInitializeSystem(solana.NewWallet().PublicKey(), InitializeSystemAccounts{Admin: admin})
	require.NoError(t, err)
	data, err := ix.Data()
	require.NoError(t, err)
	disc := Discriminator(InitializeSystemName)
	assert.Equal(t, disc[:], data)
	assert.True(t, ix.Accounts()[0].IsSigner)
}

func TestLookupTableInstructions(t *testing.T) {
	authority := solana.NewWallet().PublicKey()

	create, table, err := NewCreateLookupTable(authority, authority, 1234)
	require.NoError(t, err)
	expected, bump, err := DeriveLookupTable(authority, 1234)
	require.NoError(t, err)
	assert.Equal(t, expected, table)

	data, err := create.Data()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[:4]))
	assert.Equal(t, uint64(1234), binary.LittleEndian.Uint64(data[4:12]))
	assert.Equal(t, bump, data[12])

	addrs := []solana.PublicKey{solana.TokenProgramID, solana.SystemProgramID}
	extend, err := NewExtendLookupTable(table, authority, authority, addrs)
	require.NoError(t, err)
	data, err = extend.Data()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[:4]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(data[4:12]))
	assert.Equal(t, solana.SystemProgramID.Bytes(), data[44:76])

	_, err = NewExtendLookupTable(table, authority, authority, nil)
	assert.True(t, errors.Is(err, domain.ErrParameterMissing))
}
