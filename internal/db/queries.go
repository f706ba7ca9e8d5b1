package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Item is a row of the items table.
type Item struct {
	ID         uuid.UUID
	Collection string
	Properties []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const itemColumns = `id, collection, properties, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var i Item
	err := row.Scan(&i.ID, &i.Collection, &i.Properties, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func collectItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()
	var items []Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listItemsByCollection = `SELECT ` + itemColumns + `
FROM items
WHERE collection = $1
ORDER BY position`

func (q *Queries) ListItemsByCollection(ctx context.Context, collection string) ([]Item, error) {
	rows, err := q.db.Query(ctx, listItemsByCollection, collection)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

const getItem = `SELECT ` + itemColumns + `
FROM items
WHERE id = $1`

func (q *Queries) GetItem(ctx context.Context, id uuid.UUID) (Item, error) {
	return scanItem(q.db.QueryRow(ctx, getItem, id))
}

const getItemsByIDs = `SELECT ` + itemColumns + `
FROM items
WHERE id = ANY($1::uuid[])
ORDER BY position`

func (q *Queries) GetItemsByIDs(ctx context.Context, ids []string) ([]Item, error) {
	rows, err := q.db.Query(ctx, getItemsByIDs, ids)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

const insertItem = `INSERT INTO items (id, collection, properties, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + itemColumns

type InsertItemParams struct {
	ID         uuid.UUID
	Collection string
	Properties []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) (Item, error) {
	row := q.db.QueryRow(ctx, insertItem, arg.ID, arg.Collection, arg.Properties, arg.CreatedAt, arg.UpdatedAt)
	return scanItem(row)
}

const updateItemProperties = `UPDATE items
SET properties = $2, updated_at = $3
WHERE id = $1
RETURNING ` + itemColumns

type UpdateItemPropertiesParams struct {
	ID         uuid.UUID
	Properties []byte
	UpdatedAt  time.Time
}

func (q *Queries) UpdateItemProperties(ctx context.Context, arg UpdateItemPropertiesParams) (Item, error) {
	row := q.db.QueryRow(ctx, updateItemProperties, arg.ID, arg.Properties, arg.UpdatedAt)
	return scanItem(row)
}

const deleteItem = `DELETE FROM items WHERE id = $1`

func (q *Queries) DeleteItem(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteItem, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CopyItems bulk loads rows with the COPY protocol; position follows slice order.
func (q *Queries) CopyItems(ctx context.Context, arg []InsertItemParams) (int64, error) {
	return q.db.CopyFrom(ctx,
		pgx.Identifier{"items"},
		[]string{"id", "collection", "properties", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(arg), func(i int) ([]any, error) {
			return []any{arg[i].ID, arg[i].Collection, arg[i].Properties, arg[i].CreatedAt, arg[i].UpdatedAt}, nil
		}),
	)
}
