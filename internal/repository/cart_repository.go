package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/nikolayk812/cartstore-demo/internal/migrations"
	"github.com/nikolayk812/cartstore-demo/internal/port"
)

const (
	loadSlotSQL = `SELECT payload::text FROM cart_slots WHERE slot_key = $1`

	lockSlotSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

	saveSlotSQL = `
INSERT INTO cart_slots (slot_key, payload, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (slot_key) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
)

type cartRepository struct {
	q    querier
	pool *pgxpool.Pool
	key  string
}

func NewCart(pool *pgxpool.Pool, key string) (port.CartStorage, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	return &cartRepository{
		q:    pool,
		pool: pool,
		key:  key,
	}, nil
}

func NewCartWithTx(tx pgx.Tx, key string) (port.CartStorage, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	return &cartRepository{
		q:    tx,
		pool: nil, // use provided transaction instead
		key:  key,
	}, nil
}

func (r *cartRepository) Load(ctx context.Context) (domain.Cart, error) {
	var payload string

	err := r.q.QueryRow(ctx, loadSlotSQL, r.key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.QueryRow: %w", err)
	}

	cart, err := UnmarshalCart([]byte(payload))
	if err != nil {
		return domain.Cart{}, fmt.Errorf("UnmarshalCart: %w", err)
	}

	return cart, nil
}

// Save serializes concurrent writers of the same slot with a transaction-scoped advisory lock.
func (r *cartRepository) Save(ctx context.Context, cart domain.Cart) error {
	payload, err := MarshalCart(cart)
	if err != nil {
		return fmt.Errorf("MarshalCart: %w", err)
	}

	_, err = withTx(ctx, r.pool, r.q, func(q querier) (struct{}, error) {
		if _, err := q.Exec(ctx, lockSlotSQL, r.key); err != nil {
			return struct{}{}, fmt.Errorf("q.Exec lock: %w", err)
		}

		if _, err := q.Exec(ctx, saveSlotSQL, r.key, string(payload)); err != nil {
			return struct{}{}, fmt.Errorf("q.Exec save: %w", err)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

// EnsureSchema applies the embedded migrations. Every migration is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}

	for _, name := range names {
		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("fs.ReadFile[%s]: %w", name, err)
		}

		if _, err := pool.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("pool.Exec[%s]: %w", name, err)
		}
	}

	return nil
}
