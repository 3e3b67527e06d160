package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"padel-connect/internal/db"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// StorageRepository is the durable client-local key/value store.
type StorageRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStorageRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *StorageRepository {
	return &StorageRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Get returns the stored value and whether the key exists.
func (r *StorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	row, err := r.queries.GetStorageValue(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to read storage value")
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (r *StorageRepository) Set(ctx context.Context, key, value string) error {
	err := r.queries.UpsertStorageValue(ctx, db.UpsertStorageValueParams{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to write storage value")
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (r *StorageRepository) Delete(ctx context.Context, key string) error {
	if err := r.queries.DeleteStorageValue(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// GetFlag reads a boolean flag; a missing key reads as false.
func (r *StorageRepository) GetFlag(ctx context.Context, key string) (bool, error) {
	raw, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.logger.Warn().Str("key", key).Str("value", raw).Msg("ignoring malformed flag")
		return false, nil
	}
	return v, nil
}

func (r *StorageRepository) SetFlag(ctx context.Context, key string, value bool) error {
	_, err := r.SwapFlag(ctx, key, value)
	return err
}

// SwapFlag stores value under key and returns the previous flag. The read
// and the write share one transaction.
func (r *StorageRepository) SwapFlag(ctx context.Context, key string, value bool) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	var prev bool
	row, err := qtx.GetStorageValue(ctx, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	default:
		prev, _ = strconv.ParseBool(row.Value)
	}

	err = qtx.UpsertStorageValue(ctx, db.UpsertStorageValueParams{
		Key:       key,
		Value:     strconv.FormatBool(value),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to write flag")
		return false, fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit %s: %w", key, err)
	}

	r.logger.Debug().Str("key", key).Bool("previous", prev).Bool("value", value).Msg("flag stored")
	return prev, nil
}
