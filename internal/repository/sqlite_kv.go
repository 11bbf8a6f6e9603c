package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/routine/internal/db"
)

// SQLiteKVStore implements KVStore on the kv table.
type SQLiteKVStore struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteKVStore creates a store that batches writes through a
// SQLiteUnitOfWork on database.
func NewSQLiteKVStore(database *sql.DB) *SQLiteKVStore {
	return &SQLiteKVStore{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// NewSQLiteKVStoreWithUoW lets tests supply their own UnitOfWork.
func NewSQLiteKVStoreWithUoW(conn db.DBTX, uow db.UnitOfWork) *SQLiteKVStore {
	return &SQLiteKVStore{db: conn, uow: uow}
}

func (r *SQLiteKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteKVStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, nowUTC()); err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteKVStore) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing key %s: %w", key, err)
	}
	return nil
}

// Batch opens a transaction and hands fn a tx-scoped store. A store that is
// already tx-scoped runs fn inline.
func (r *SQLiteKVStore) Batch(ctx context.Context, fn func(ctx context.Context, tx KVStore) error) error {
	if r.uow == nil {
		return fn(ctx, r)
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &SQLiteKVStore{db: tx})
	})
}
