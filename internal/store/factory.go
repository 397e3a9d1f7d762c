package store

import "github.com/dantweb/vbwd-sdk/core/db/sqlc"

type Stores struct {
	queries *sqlc.Queries
}

// NewStores binds every store to q, built on either the pool or an open tx.
func NewStores(q *sqlc.Queries) *Stores {
	return &Stores{queries: q}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) TariffPlans() TariffPlanStore {
	return newTariffPlanStore(s.queries)
}

func (s *Stores) Currencies() CurrencyStore {
	return newCurrencyStore(s.queries)
}

func (s *Stores) Taxes() TaxStore {
	return newTaxStore(s.queries)
}

func (s *Stores) Subscriptions() SubscriptionStore {
	return newSubscriptionStore(s.queries)
}

func (s *Stores) Invoices() InvoiceStore {
	return newInvoiceStore(s.queries)
}
