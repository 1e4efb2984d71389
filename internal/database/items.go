package database

import (
	"context"
	"errors"
	"serwer-zasobow/internal/models"
	"time"

	"github.com/jackc/pgx/v5"
)

const itemColumns = `id, title, description, owner_id, created_at, updated_at`

func scanItem(row pgx.Row) (*models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.OwnerID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (q *Queries) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return scanItem(q.db.QueryRow(ctx, query, id))
}

type CreateItemParams struct {
	Title       string
	Description *string
}

// CreateItem stamps ownerID on the new row; there is no code path that lets a
// caller create an item for someone else.
func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams, ownerID int64) (*models.Item, error) {
	query := `
		INSERT INTO items (title, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING ` + itemColumns

	now := time.Now()
	return scanItem(q.db.QueryRow(ctx, query, arg.Title, arg.Description, ownerID, now))
}

// UpdateItemParams distinguishes "not sent" (nil) from "sent". A JSON null in
// the request decodes to nil too, so there is no way to clear description back
// to NULL through an update; send an empty string instead.
type UpdateItemParams struct {
	Title       *string
	Description *string
}

// UpdateItem overwrites only the fields present in arg; absent fields keep
// their prior value. Returns nil when the item does not exist.
func (q *Queries) UpdateItem(ctx context.Context, id int64, arg UpdateItemParams) (*models.Item, error) {
	query := `
		UPDATE items SET
			title       = COALESCE($1, title),
			description = COALESCE($2, description),
			updated_at  = $3
		WHERE id = $4
		RETURNING ` + itemColumns

	return scanItem(q.db.QueryRow(ctx, query, arg.Title, arg.Description, time.Now(), id))
}

// DeleteItem removes the item and returns the removed row, or nil when no such
// item exists.
func (q *Queries) DeleteItem(ctx context.Context, id int64) (*models.Item, error) {
	query := `DELETE FROM items WHERE id = $1 RETURNING ` + itemColumns
	return scanItem(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) listItemRows(ctx context.Context, query string, args ...interface{}) ([]models.Item, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.OwnerID,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if items == nil {
		return []models.Item{}, nil
	}

	return items, nil
}

func (q *Queries) ListItems(ctx context.Context, limit, offset int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY id LIMIT $1 OFFSET $2`
	return q.listItemRows(ctx, query, limit, offset)
}

// ListItemsByOwner filters at the query level; rows belonging to other owners
// never leave the database.
func (q *Queries) ListItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	return q.listItemRows(ctx, query, ownerID, limit, offset)
}
