package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/dantweb/vbwd-sdk/core/db"
	"github.com/dantweb/vbwd-sdk/core/db/sqlc"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

// StoreProvider exposes only the stores needed by a transactional operation.
type StoreProvider interface {
	Users() store.UserStore
	TariffPlans() store.TariffPlanStore
	Subscriptions() store.SubscriptionStore
	Invoices() store.InvoiceStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
}

const (
	conflictAttempts = 3
	conflictDelay    = 10 * time.Millisecond
)

// retryOnConflict reruns fn while it fails with a version conflict. fn must
// reload the entity it mutates on every call.
func retryOnConflict(ctx context.Context, fn func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := fn()
		if err != nil && !errors.Is(err, store.ErrConcurrentModification) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(conflictDelay)),
		backoff.WithMaxTries(conflictAttempts),
	)

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Unwrap()
	}
	return err
}
