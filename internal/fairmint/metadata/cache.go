// internal/fairmint/metadata/cache.go
package metadata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/pda"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
)

const DefaultTTL = 5 * time.Minute

type cached struct {
	md        *Metadata
	fetchedAt time.Time
}

// Cache загружает metadata по минту и кэширует результат на время TTL.
type Cache struct {
	reader state.AccountReader
	ttl    time.Duration
	cache  sync.Map
	logger *zap.Logger
	now    func() time.Time
}

// NewCache создаёт кэш metadata поверх reader.
func NewCache(reader state.AccountReader, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		reader: reader,
		ttl:    ttl,
		logger: logger.Named("metadata"),
		now:    time.Now,
	}
}

// Get возвращает metadata минта: из кэша, если запись свежая, иначе из сети.
func (c *Cache) Get(ctx context.Context, mint solana.PublicKey) (*Metadata, error) {
	if v, ok := c.cache.Load(mint); ok {
		entry := v.(cached)
		if c.now().Sub(entry.fetchedAt) < c.ttl {
			c.logger.Debug("metadata retrieved from cache", zap.String("mint", mint.String()))
			return entry.md, nil
		}
		c.cache.Delete(mint)
	}

	md, err := c.fetch(ctx, mint)
	if err != nil {
		return nil, err
	}
	c.cache.Store(mint, cached{md: md, fetchedAt: c.now()})

	c.logger.Debug("metadata retrieved",
		zap.String("mint", mint.String()),
		zap.String("name", md.Name),
		zap.String("symbol", md.Symbol))
	return md, nil
}

func (c *Cache) fetch(ctx context.Context, mint solana.PublicKey) (*Metadata, error) {
	addr, _, err := pda.Metadata(mint)
	if err != nil {
		return nil, err
	}
	data, err := c.reader.GetAccountData(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("metadata %s: %w", addr, err)
	}
	md, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if !md.Mint.Equals(mint) {
		return nil, fmt.Errorf("%w: metadata %s belongs to mint %s", domain.ErrDecode, addr, md.Mint)
	}
	return md, nil
}
