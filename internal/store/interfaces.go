package store

import (
	"context"
	"errors"
	"time"

	"github.com/dantweb/vbwd-sdk/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConcurrentModification is returned by Save when the stored version no
// longer matches the expected one. Reload and retry, or give up.
var ErrConcurrentModification = errors.New("concurrent modification")

// Save semantics shared by every store: an entity with Version 0 is inserted
// and comes back with Version 1. Otherwise the row is updated only if its
// stored version equals expectedVersion (or the entity's Version when
// expectedVersion is nil), and the entity's Version is bumped.

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, limit, offset int32) ([]model.User, error)
	Save(ctx context.Context, user *model.User, expectedVersion *int) error
	Delete(ctx context.Context, id int64) error
}

// TariffPlanStore defines the contract for tariff plan data access
type TariffPlanStore interface {
	GetByID(ctx context.Context, id int64) (*model.TariffPlan, error)
	GetBySlug(ctx context.Context, slug string) (*model.TariffPlan, error)
	List(ctx context.Context, limit, offset int32) ([]model.TariffPlan, error)
	ListActive(ctx context.Context) ([]model.TariffPlan, error)
	Save(ctx context.Context, plan *model.TariffPlan, expectedVersion *int) error
	Delete(ctx context.Context, id int64) error
}

type CurrencyStore interface {
	GetByID(ctx context.Context, id int64) (*model.Currency, error)
	GetByCode(ctx context.Context, code string) (*model.Currency, error)
	GetDefault(ctx context.Context) (*model.Currency, error)
	List(ctx context.Context, limit, offset int32) ([]model.Currency, error)
	Save(ctx context.Context, currency *model.Currency, expectedVersion *int) error
	Delete(ctx context.Context, id int64) error
}

type TaxStore interface {
	GetByID(ctx context.Context, id int64) (*model.Tax, error)
	GetByCode(ctx context.Context, code string) (*model.Tax, error)
	List(ctx context.Context, limit, offset int32) ([]model.Tax, error)
	// ListActiveByCountry orders country-wide taxes before regional ones.
	ListActiveByCountry(ctx context.Context, countryCode string) ([]model.Tax, error)
	Save(ctx context.Context, tax *model.Tax, expectedVersion *int) error
	Delete(ctx context.Context, id int64) error
}

// SubscriptionStore defines the contract for subscription data access
type SubscriptionStore interface {
	GetByID(ctx context.Context, id int64) (*model.Subscription, error)
	List(ctx context.Context, limit, offset int32) ([]model.Subscription, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Subscription, error)
	// GetActiveByUser returns the active subscription with the latest expiry.
	GetActiveByUser(ctx context.Context, userID int64) (*model.Subscription, error)
	// ListExpired returns active subscriptions whose expiry is not after now.
	ListExpired(ctx context.Context, now time.Time, limit int32) ([]model.Subscription, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]model.Subscription, error)
	Save(ctx context.Context, sub *model.Subscription, expectedVersion *int) error
	Delete(ctx context.Context, id int64) error
}

// InvoiceStore defines the contract for invoice data access
type InvoiceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*model.Invoice, error)
	GetByPaymentRef(ctx context.Context, ref string) (*model.Invoice, error)
	List(ctx context.Context, limit, offset int32) ([]model.Invoice, error)
	// ListBySubscription is newest first.
	ListBySubscription(ctx context.Context, subscriptionID int64) ([]model.Invoice, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Invoice, error)
	Save(ctx context.Context, invoice *model.Invoice, expectedVersion *int) error
	Delete(ctx context.Context, id int64) error
}
