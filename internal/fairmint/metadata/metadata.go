// internal/fairmint/metadata/metadata.go
package metadata

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

const creatorSize = solana.PublicKeyLength + 1 + 1

// Creator - запись создателя в metadata.
type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

// Collection - ссылка на коллекцию.
type Collection struct {
	Key      solana.PublicKey
	Verified bool
}

// Metadata - legacy-аккаунт Metaplex Token Metadata.
// Name, Symbol и URI хранятся уже очищенными от нулевого паддинга.
type Metadata struct {
	Key                  uint8
	UpdateAuthority      solana.PublicKey
	Mint                 solana.PublicKey
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	Collection           *Collection
	IsMutable            bool
}

// StripNulls удаляет нулевые байты паддинга и пробелы по краям.
// Инструкции программы принимают имя и символ только в таком виде.
func StripNulls(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

// Decode разбирает сырые байты metadata-аккаунта.
func Decode(data []byte) (*Metadata, error) {
	c := newCursor(data)
	md := &Metadata{}
	var err error

	if md.Key, err = c.u8("key"); err != nil {
		return nil, err
	}
	if md.UpdateAuthority, err = c.pubkey("update authority"); err != nil {
		return nil, err
	}
	if md.Mint, err = c.pubkey("mint"); err != nil {
		return nil, err
	}

	name, err := c.str("name")
	if err != nil {
		return nil, err
	}
	symbol, err := c.str("symbol")
	if err != nil {
		return nil, err
	}
	uri, err := c.str("uri")
	if err != nil {
		return nil, err
	}
	md.Name, md.Symbol, md.URI = StripNulls(name), StripNulls(symbol), StripNulls(uri)

	if md.SellerFeeBasisPoints, err = c.u16("seller fee basis points"); err != nil {
		return nil, err
	}

	hasCreators, err := c.flag("creators flag")
	if err != nil {
		return nil, err
	}
	if hasCreators {
		count, err := c.u32("creators count")
		if err != nil {
			return nil, err
		}
		if uint64(count)*creatorSize > uint64(c.dec.Remaining()) {
			return nil, fmt.Errorf("%w: %d creators do not fit in buffer", domain.ErrDecode, count)
		}
		md.Creators = make([]Creator, 0, count)
		for i := uint32(0); i < count; i++ {
			var cr Creator
			if cr.Address, err = c.pubkey("creator address"); err != nil {
				return nil, err
			}
			if cr.Verified, err = c.flag("creator verified"); err != nil {
				return nil, err
			}
			if cr.Share, err = c.u8("creator share"); err != nil {
				return nil, err
			}
			md.Creators = append(md.Creators, cr)
		}
	}

	hasCollection, err := c.flag("collection flag")
	if err != nil {
		return nil, err
	}
	if hasCollection {
		col := &Collection{}
		if col.Key, err = c.pubkey("collection key"); err != nil {
			return nil, err
		}
		if col.Verified, err = c.flag("collection verified"); err != nil {
			return nil, err
		}
		md.Collection = col
	}

	if md.IsMutable, err = c.flag("is mutable"); err != nil {
		return nil, err
	}
	return md, nil
}
