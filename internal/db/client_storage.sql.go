package db

import (
	"context"
	"time"
)

const deleteStorageValue = `-- name: DeleteStorageValue :exec
DELETE FROM client_storage WHERE key = ?
`

func (q *Queries) DeleteStorageValue(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteStorageValue, key)
	return err
}

const getStorageValue = `-- name: GetStorageValue :one
SELECT key, value, updated_at FROM client_storage WHERE key = ?
`

func (q *Queries) GetStorageValue(ctx context.Context, key string) (ClientStorage, error) {
	row := q.db.QueryRowContext(ctx, getStorageValue, key)
	var i ClientStorage
	err := row.Scan(&i.Key, &i.Value, &i.UpdatedAt)
	return i, err
}

const upsertStorageValue = `-- name: UpsertStorageValue :exec
INSERT INTO client_storage (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    updated_at = excluded.updated_at
`

type UpsertStorageValueParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

func (q *Queries) UpsertStorageValue(ctx context.Context, arg UpsertStorageValueParams) error {
	_, err := q.db.ExecContext(ctx, upsertStorageValue, arg.Key, arg.Value, arg.UpdatedAt)
	return err
}
