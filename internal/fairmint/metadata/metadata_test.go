package metadata

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
)

type fixture struct {
	authority  solana.PublicKey
	mint       solana.PublicKey
	name       string
	symbol     string
	uri        string
	creators   []Creator
	collection *Collection
}

func (f fixture) bytes() []byte {
	buf := new(bytes.Buffer)
	putStr := func(s string) {
		_ = binary.Write(buf, binary.LittleEndian, uint32(len(s)))
		buf.WriteString(s)
	}

	buf.WriteByte(4)
	buf.Write(f.authority[:])
	buf.Write(f.mint[:])
	putStr(f.name)
	putStr(f.symbol)
	putStr(f.uri)
	_ = binary.Write(buf, binary.LittleEndian, uint16(500))

	if f.creators != nil {
		buf.WriteByte(1)
		_ = binary.Write(buf, binary.LittleEndian, uint32(len(f.creators)))
		for _, c := range f.creators {
			buf.Write(c.Address[:])
			if c.Verified {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
			buf.WriteByte(c.Share)
		}
	} else {
		buf.WriteByte(0)
	}

	if f.collection != nil {
		buf.WriteByte(1)
		buf.Write(f.collection.Key[:])
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	buf.WriteByte(1)
	return buf.Bytes()
}

func newFixture() fixture {
	return fixture{
		authority: solana.NewWallet().PublicKey(),
		mint:      solana.NewWallet().PublicKey(),
		name:      "Fair Token\x00\x00\x00\x00",
		symbol:    "FAIR\x00\x00",
		uri:       "https://example.com/fair.json\x00\x00\x00",
	}
}

func TestDecodeStripsPadding(t *testing.T) {
	f := newFixture()
	f.creators = []Creator{{Address: solana.NewWallet().PublicKey(), Verified: true, Share: 100}}
	f.collection = &Collection{Key: solana.NewWallet().PublicKey(), Verified: true}

	md, err := Decode(f.bytes())
	require.NoError(t, err)

	assert.Equal(t, uint8(4), md.Key)
	assert.Equal(t, f.authority, md.UpdateAuthority)
	assert.Equal(t, f.mint, md.Mint)
	assert.Equal(t, "Fair Token", md.Name)
	assert.Equal(t, "FAIR", md.Symbol)
	assert.Equal(t, "https://example.com/fair.json", md.URI)
	assert.Equal(t, uint16(500), md.SellerFeeBasisPoints)
	require.Len(t, md.Creators, 1)
	assert.Equal(t, f.creators[0], md.Creators[0])
	require.NotNil(t, md.Collection)
	assert.Equal(t, f.collection.Key, md.Collection.Key)
	assert.True(t, md.IsMutable)
}

func TestDecodeWithoutOptionals(t *testing.T) {
	md, err := Decode(newFixture().bytes())
	require.NoError(t, err)
	assert.Empty(t, md.Creators)
	assert.Nil(t, md.Collection)
}

func TestDecodeNameLengthPastEnd(t *testing.T) {
	data := newFixture().bytes()
	// длина имени по смещению 65
	binary.LittleEndian.PutUint32(data[65:69], uint32(len(data)))

	md, err := Decode(data)
	assert.Nil(t, md)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDecode))
}

func TestDecodeTruncated(t *testing.T) {
	f := newFixture()
	f.creators = []Creator{{Address: solana.NewWallet().PublicKey(), Share: 50}, {Address: solana.NewWallet().PublicKey(), Share: 50}}
	data := f.bytes()

	for _, n := range []int{0, 1, 33, 64, 70, len(data) - 1} {
		_, err := Decode(data[:n])
		assert.True(t, errors.Is(err, domain.ErrDecode), "truncated to %d", n)
	}
}

func TestDecodeHugeCreatorCount(t *testing.T) {
	f := newFixture()
	f.creators = []Creator{}
	data := f.bytes()
	// флаг creators + count сразу после seller fee
	idx := bytes.LastIndex(data, []byte{1, 0, 0, 0, 0}) + 1
	binary.LittleEndian.PutUint32(data[idx:idx+4], 0xffffffff)

	_, err := Decode(data)
	assert.True(t, errors.Is(err, domain.ErrDecode))
}

func TestStripNulls(t *testing.T) {
	assert.Equal(t, "abc", StripNulls("abc\x00\x00"))
	assert.Equal(t, "abc", StripNulls("  a\x00bc  "))
	assert.Equal(t, "", StripNulls("\x00\x00"))
}

type countingReader struct {
	data  map[solana.PublicKey][]byte
	calls int
}

func (r *countingReader) GetAccountData(_ context.Context, account solana.PublicKey) ([]byte, error) {
	r.calls++
	d, ok := r.data[account]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return d, nil
}

func TestCacheTTL(t *testing.T) {
	f := newFixture()
	addr, _, err := pda.Metadata(f.mint)
	require.NoError(t, err)
	r := &countingReader{data: map[solana.PublicKey][]byte{addr: f.bytes()}}

	c := NewCache(r, time.Minute, zap.NewNop())
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	md, err := c.Get(ctx, f.mint)
	require.NoError(t, err)
	assert.Equal(t, "FAIR", md.Symbol)

	_, err = c.Get(ctx, f.mint)
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, f.mint)
	require.NoError(t, err)
	assert.Equal(t, 2, r.calls)

	_, err = c.Get(ctx, solana.NewWallet().PublicKey())
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
}
