package state

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

func sampleTokenConfig() TokenConfigData {
	return TokenConfigData{
		Admin:                 solana.NewWallet().PublicKey(),
		FeeRate:               100_000_000,
		MaxSupply:             1_000_000_000 * 1_000_000_000,
		TargetEras:            1,
		InitialMintSize:       10_000 * 1_000_000_000,
		EpochesPerEra:         200,
		TargetSecondsPerEpoch: 2000,
		ReduceRatio:           75,
		TokenVault:            solana.NewWallet().PublicKey(),
		LiquidityTokensRatio:  0.2,
		MintState: MintStateData{
			Supply:                         250_000_000 * 1_000_000_000,
			CurrentEra:                     1,
			CurrentEpoch:                   42,
			ElapsedSecondsEpoch:            1200,
			StartTimestampEpoch:            1_700_000_000,
			LastDifficultyCoefficientEpoch: 1.25,
			DifficultyCoefficientEpoch:     1.5,
			MintSizeEpoch:                  5_000_500_000_000,
			QuantityMintedEpoch:            1_500_000_000,
			TargetMintSizeEpoch:            1_000_000 * 1_000_000_000,
			GraduateEpoch:                  0,
		},
	}
}

func TestDecodeTokenConfig(t *testing.T) {
	in := sampleTokenConfig()
	data, err := EncodeAccount(TokenConfigAccountName, in)
	require.NoError(t, err)
	require.Len(t, data, DiscriminatorSize+TokenConfigSize)

	out, err := DecodeTokenConfig(data)
	require.NoError(t, err)
	assert.Equal(t, in, *out)

	view := NewTokenConfigView(out)
	assert.Equal(t, "0.1", view.FeeRate.String())
	assert.Equal(t, "1000000000", view.MaxSupply.String())
	assert.Equal(t, "250000000", view.Supply.String())
	assert.Equal(t, "5000.5", view.MintSizeEpoch.String())
	assert.Equal(t, "25", view.Progress().String())
	assert.Equal(t, uint64(42), view.CurrentEpoch)
	assert.Equal(t, 1.5, view.DifficultyCoefficient)
	assert.False(t, view.Graduated())
}

func TestDecodeShortBufferIsSchemaMismatch(t *testing.T) {
	data, err := EncodeAccount(TokenConfigAccountName, sampleTokenConfig())
	require.NoError(t, err)

	_, err = DecodeTokenConfig(data[:len(data)-1])
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))

	_, err = DecodeSystemConfig(nil)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
}

func TestDecodeWrongDiscriminator(t *testing.T) {
	data, err := EncodeAccount(CodeAccountName, CodeAccountData{ReferralAccount: solana.NewWallet().PublicKey()})
	require.NoError(t, err)

	_, err = DecodeCodeAccount(data)
	require.NoError(t, err)

	// Запись кода не должна читаться как реферальная запись, даже при достаточной длине
	padded := append(data, make([]byte, TokenReferralSize)...)
	_, err = DecodeTokenReferral(padded)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
}

func TestDecodeSystemConfig(t *testing.T) {
	in := SystemConfigData{
		Admin:                        solana.NewWallet().PublicKey(),
		Count:                        7,
		ReferralUsageMaxCount:        3,
		ProtocolFeeAccount:           solana.NewWallet().PublicKey(),
		RefundFeeRate:                0.05,
		ReferrerResetIntervalSeconds: 86400,
		UpdateMetadataFee:            1_000_000_000,
		CustomizedDeployFee:          2_500_000_000,
		InitPoolWsolAmount:           200,
		GraduateFeeRate:              2,
		MinGraduateFee:               100_000_000,
		RaydiumCpmmCreateFee:         150_000_000,
		IsPause:                      true,
	}
	data, err := EncodeAccount(SystemConfigAccountName, in)
	require.NoError(t, err)
	require.Len(t, data, DiscriminatorSize+SystemConfigSize)

	out, err := DecodeSystemConfig(data)
	require.NoError(t, err)
	assert.Equal(t, in, *out)

	view := NewSystemConfigView(out)
	assert.Equal(t, "2.5", view.CustomizedDeployFee.String())
	assert.Equal(t, "0.2", view.InitPoolWsolPercent.String())
	assert.Equal(t, "5", view.RefundFeePercent.String())
	assert.Equal(t, 24*60*60, int(view.ReferrerReset.Seconds()))
}

func TestFixedPointRoundTrip(t *testing.T) {
	amounts := []string{"0", "1", "0.000000001", "123456.789", "18446744073.709551615", "1000000000"}
	for _, a := range amounts {
		units := decimal.RequireFromString(a)
		raw, err := FromUnits(units)
		require.NoError(t, err, a)
		assert.True(t, ToUnits(raw).Equal(units), a)
	}

	for _, raw := range []uint64{0, 1, 999_999_999, 1_000_000_000, ^uint64(0)} {
		back, err := FromUnits(ToUnits(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, back)
	}
}

func TestFromUnitsRejectsPrecisionLoss(t *testing.T) {
	_, err := FromUnits(decimal.RequireFromString("0.0000000001"))
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = FromUnits(decimal.RequireFromString("-1"))
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = FromUnits(decimal.RequireFromString("18446744073.709551616"))
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

type mapReader map[solana.PublicKey][]byte

func (m mapReader) GetAccountData(_ context.Context, account solana.PublicKey) ([]byte, error) {
	data, ok := m[account]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return data, nil
}

func TestFetchAndExists(t *testing.T) {
	addr := solana.NewWallet().PublicKey()
	data, err := EncodeAccount(TokenConfigAccountName, sampleTokenConfig())
	require.NoError(t, err)
	r := mapReader{addr: data}

	ctx := context.Background()
	cfg, err := FetchTokenConfig(ctx, r, addr)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), cfg.TargetEras)

	missing := solana.NewWallet().PublicKey()
	_, err = FetchTokenConfig(ctx, r, missing)
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))

	ok, err := AccountExists(ctx, r, addr)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = AccountExists(ctx, r, missing)
	require.NoError(t, err)
	assert.False(t, ok)
}
