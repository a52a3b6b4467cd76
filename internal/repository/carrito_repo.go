package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/redis/go-redis/v9"
)

// CarritoRepository stores one session cart per user. A cart lives until it
// is confirmed, cleared, or idle for longer than the TTL.
type CarritoRepository interface {
	Get(ctx context.Context, usuarioID string) (ledger.Carrito, error)
	Save(ctx context.Context, usuarioID string, c ledger.Carrito) error
	Delete(ctx context.Context, usuarioID string) error
}

func carritoKey(usuarioID string) string { return "carrito:" + usuarioID }

// ── Redis ─────────────────────────────────────────────────────────────────────

type redisCarritoRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCarritoRepository keeps each cart in a hash: "lineas" holds the
// JSON lines and "actualizado" the last write.
func NewRedisCarritoRepository(rdb *redis.Client, ttl time.Duration) CarritoRepository {
	return &redisCarritoRepo{rdb: rdb, ttl: ttl}
}

func (r *redisCarritoRepo) Get(ctx context.Context, usuarioID string) (ledger.Carrito, error) {
	raw, err := r.rdb.HGet(ctx, carritoKey(usuarioID), "lineas").Bytes()
	if errors.Is(err, redis.Nil) {
		return ledger.Carrito{}, nil
	}
	if err != nil {
		return nil, err
	}
	var c ledger.Carrito
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *redisCarritoRepo) Save(ctx context.Context, usuarioID string, c ledger.Carrito) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	key := carritoKey(usuarioID)
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, "lineas", raw, "actualizado", time.Now().Unix())
		p.Expire(ctx, key, r.ttl)
		return nil
	})
	return err
}

func (r *redisCarritoRepo) Delete(ctx context.Context, usuarioID string) error {
	return r.rdb.Del(ctx, carritoKey(usuarioID)).Err()
}

// ── In-memory ─────────────────────────────────────────────────────────────────

type memCarrito struct {
	lineas ledger.Carrito
	vence  time.Time
}

type memCarritoRepo struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memCarrito
	now   func() time.Time
}

// NewMemoryCarritoRepository is used when Redis is not configured (single
// process installs and tests).
func NewMemoryCarritoRepository(ttl time.Duration) CarritoRepository {
	return &memCarritoRepo{ttl: ttl, items: make(map[string]memCarrito), now: time.Now}
}

func (r *memCarritoRepo) Get(_ context.Context, usuarioID string) (ledger.Carrito, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[usuarioID]
	if !ok || r.now().After(c.vence) {
		delete(r.items, usuarioID)
		return ledger.Carrito{}, nil
	}
	out := make(ledger.Carrito, len(c.lineas))
	copy(out, c.lineas)
	return out, nil
}

func (r *memCarritoRepo) Save(_ context.Context, usuarioID string, c ledger.Carrito) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(ledger.Carrito, len(c))
	copy(cp, c)
	r.items[usuarioID] = memCarrito{lineas: cp, vence: r.now().Add(r.ttl)}
	return nil
}

func (r *memCarritoRepo) Delete(_ context.Context, usuarioID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, usuarioID)
	return nil
}
