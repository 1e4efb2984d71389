package database

import (
	"context"
	"fmt"
	"serwer-zasobow/internal/websocket"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
	*Queries
}

func NewStore(pool *pgxpool.Pool, wsHub *websocket.Hub) *Store {
	return &Store{
		pool:    pool,
		Queries: New(pool, wsHub),
	}
}

// ExecTx runs fn inside a single transaction. Every query issued through the
// passed Queries sees the same snapshot and commits or rolls back as one.
func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := New(tx, s.wsHub)
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}
