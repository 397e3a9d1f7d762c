package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func toModels[R, M any](rows []R, err error, conv func(R) *M) ([]M, error) {
	if err != nil {
		return nil, err
	}
	out := make([]M, 0, len(rows))
	for _, row := range rows {
		out = append(out, *conv(row))
	}
	return out, nil
}

// isInsert reports whether Save should create the row.
func isInsert(version int, expectedVersion *int) bool {
	return version == 0 && expectedVersion == nil
}

func expected(current int, expectedVersion *int) int32 {
	if expectedVersion != nil {
		return int32(*expectedVersion)
	}
	return int32(current)
}

// updateMiss runs after a versioned UPDATE failed. A stale version is told
// apart from a missing row with one EXISTS lookup.
func updateMiss(ctx context.Context, err error, id int64, exists func(context.Context, int64) (bool, error)) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	found, err := exists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking row %d: %w", id, err)
	}
	if found {
		return ErrConcurrentModification
	}
	return ErrNotFound
}

func deleted(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
