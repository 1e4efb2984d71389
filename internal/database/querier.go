package database

import (
	"context"
	"serwer-zasobow/internal/websocket"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every query method
// works the same inside and outside a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type Queries struct {
	db    DBTX
	wsHub *websocket.Hub
}

func New(db DBTX, wsHub *websocket.Hub) *Queries {
	return &Queries{db: db, wsHub: wsHub}
}
