package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Martin-Comito/alambrados/internal/dto"

	"github.com/redis/go-redis/v9"
)

const precioCacheTTL = 4 * time.Hour

// PrecioCache caches public price lookups in Redis. A nil client disables it;
// every method is then a no-op.
type PrecioCache struct {
	rdb *redis.Client
}

func NewPrecioCache(rdb *redis.Client) *PrecioCache { return &PrecioCache{rdb: rdb} }

func precioKey(codigo string) string { return "precio:" + codigo }

func (c *PrecioCache) Get(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	cached, err := c.rdb.Get(ctx, precioKey(codigo)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.ConsultaPreciosResponse
	if err := json.Unmarshal(cached, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set is best effort.
func (c *PrecioCache) Set(ctx context.Context, codigo string, resp dto.ConsultaPreciosResponse) {
	if c == nil || c.rdb == nil {
		return
	}
	if b, err := json.Marshal(resp); err == nil {
		_ = c.rdb.Set(ctx, precioKey(codigo), b, precioCacheTTL).Err()
	}
}

// Invalidar drops the cached entries of the given codes.
func (c *PrecioCache) Invalidar(ctx context.Context, codigos ...string) error {
	if c == nil || c.rdb == nil || len(codigos) == 0 {
		return nil
	}
	keys := make([]string, len(codigos))
	for i, k := range codigos {
		keys[i] = precioKey(k)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
