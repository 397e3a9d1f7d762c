package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

// saveVersioned applies the store Save contract to an in-memory row version.
func saveVersioned(current *int, entityVersion *int, expectedVersion *int) error {
	if *entityVersion == 0 && expectedVersion == nil {
		*entityVersion = 1
		return nil
	}
	if current == nil {
		return store.ErrNotFound
	}
	want := *entityVersion
	if expectedVersion != nil {
		want = *expectedVersion
	}
	if *current != want {
		return store.ErrConcurrentModification
	}
	*entityVersion = want + 1
	return nil
}

type mockUserStore struct {
	mu    sync.Mutex
	users map[int64]model.User

	saveFn   func(ctx context.Context, user *model.User, expectedVersion *int) error
	deleteFn func(ctx context.Context, id int64) error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: map[int64]model.User{}}
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) List(_ context.Context, _, _ int32) ([]model.User, error) {
	return nil, nil
}

func (m *mockUserStore) Save(ctx context.Context, user *model.User, expectedVersion *int) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, user, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var current *int
	if u, ok := m.users[user.ID]; ok {
		current = &u.Version
	}
	if err := saveVersioned(current, &user.Version, expectedVersion); err != nil {
		return err
	}
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockTariffPlanStore struct {
	plans map[int64]model.TariffPlan

	getByIDFn func(ctx context.Context, id int64) (*model.TariffPlan, error)
}

func newMockTariffPlanStore(plans ...model.TariffPlan) *mockTariffPlanStore {
	m := &mockTariffPlanStore{plans: map[int64]model.TariffPlan{}}
	for _, p := range plans {
		m.plans[p.ID] = p
	}
	return m
}

func (m *mockTariffPlanStore) GetByID(ctx context.Context, id int64) (*model.TariffPlan, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	p, ok := m.plans[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *mockTariffPlanStore) GetBySlug(_ context.Context, slug string) (*model.TariffPlan, error) {
	for _, p := range m.plans {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockTariffPlanStore) List(_ context.Context, _, _ int32) ([]model.TariffPlan, error) {
	return nil, nil
}

func (m *mockTariffPlanStore) ListActive(_ context.Context) ([]model.TariffPlan, error) {
	var out []model.TariffPlan
	for _, p := range m.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockTariffPlanStore) Save(_ context.Context, plan *model.TariffPlan, _ *int) error {
	m.plans[plan.ID] = *plan
	return nil
}

func (m *mockTariffPlanStore) Delete(_ context.Context, id int64) error {
	delete(m.plans, id)
	return nil
}

type mockSubscriptionStore struct {
	mu   sync.Mutex
	subs map[int64]model.Subscription

	saveFn        func(ctx context.Context, sub *model.Subscription, expectedVersion *int) error
	listExpiredFn func(ctx context.Context, now time.Time, limit int32) ([]model.Subscription, error)
	saveCalls     int
}

func newMockSubscriptionStore(subs ...model.Subscription) *mockSubscriptionStore {
	m := &mockSubscriptionStore{subs: map[int64]model.Subscription{}}
	for _, s := range subs {
		m.subs[s.ID] = s
	}
	return m
}

func (m *mockSubscriptionStore) get(id int64) model.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs[id]
}

func (m *mockSubscriptionStore) GetByID(_ context.Context, id int64) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (m *mockSubscriptionStore) List(_ context.Context, _, _ int32) ([]model.Subscription, error) {
	return nil, nil
}

func (m *mockSubscriptionStore) ListByUser(_ context.Context, userID int64) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockSubscriptionStore) GetActiveByUser(_ context.Context, userID int64) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.UserID == userID && s.Status == model.SubscriptionStatusActive {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockSubscriptionStore) ListExpired(ctx context.Context, now time.Time, limit int32) ([]model.Subscription, error) {
	if m.listExpiredFn != nil {
		return m.listExpiredFn(ctx, now, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, s := range m.subs {
		if s.Status == model.SubscriptionStatusActive && s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
			out = append(out, s)
		}
		if int32(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockSubscriptionStore) ListExpiringBetween(_ context.Context, from, to time.Time) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, s := range m.subs {
		if s.Status == model.SubscriptionStatusActive && s.ExpiresAt != nil &&
			s.ExpiresAt.After(from) && !s.ExpiresAt.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSubscriptionStore) Save(ctx context.Context, sub *model.Subscription, expectedVersion *int) error {
	m.mu.Lock()
	m.saveCalls++
	m.mu.Unlock()
	if m.saveFn != nil {
		return m.saveFn(ctx, sub, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var current *int
	if s, ok := m.subs[sub.ID]; ok {
		current = &s.Version
	}
	if err := saveVersioned(current, &sub.Version, expectedVersion); err != nil {
		return err
	}
	m.subs[sub.ID] = *sub
	return nil
}

func (m *mockSubscriptionStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
	return nil
}

type mockInvoiceStore struct {
	mu       sync.Mutex
	invoices map[int64]model.Invoice

	saveFn func(ctx context.Context, inv *model.Invoice, expectedVersion *int) error
}

func newMockInvoiceStore(invs ...model.Invoice) *mockInvoiceStore {
	m := &mockInvoiceStore{invoices: map[int64]model.Invoice{}}
	for _, inv := range invs {
		m.invoices[inv.ID] = inv
	}
	return m
}

func (m *mockInvoiceStore) get(id int64) model.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invoices[id]
}

func (m *mockInvoiceStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.invoices)
}

func (m *mockInvoiceStore) GetByID(_ context.Context, id int64) (*model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &inv, nil
}

func (m *mockInvoiceStore) GetByNumber(_ context.Context, number string) (*model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockInvoiceStore) GetByPaymentRef(_ context.Context, ref string) (*model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.PaymentRef != nil && *inv.PaymentRef == ref {
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockInvoiceStore) List(_ context.Context, _, _ int32) ([]model.Invoice, error) {
	return nil, nil
}

func (m *mockInvoiceStore) ListBySubscription(_ context.Context, subscriptionID int64) ([]model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Invoice
	for _, inv := range m.invoices {
		if inv.SubscriptionID != nil && *inv.SubscriptionID == subscriptionID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoicedAt.After(out[j].InvoicedAt) })
	return out, nil
}

func (m *mockInvoiceStore) ListByUser(_ context.Context, userID int64) ([]model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Invoice
	for _, inv := range m.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockInvoiceStore) Save(ctx context.Context, inv *model.Invoice, expectedVersion *int) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, inv, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var current *int
	if existing, ok := m.invoices[inv.ID]; ok {
		current = &existing.Version
	}
	if err := saveVersioned(current, &inv.Version, expectedVersion); err != nil {
		return err
	}
	m.invoices[inv.ID] = *inv
	return nil
}

func (m *mockInvoiceStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.invoices, id)
	return nil
}

type mockCurrencyStore struct {
	currencies map[string]model.Currency
}

func newMockCurrencyStore(cs ...model.Currency) *mockCurrencyStore {
	m := &mockCurrencyStore{currencies: map[string]model.Currency{}}
	for _, c := range cs {
		m.currencies[c.Code] = c
	}
	return m
}

func (m *mockCurrencyStore) GetByID(_ context.Context, id int64) (*model.Currency, error) {
	for _, c := range m.currencies {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockCurrencyStore) GetByCode(_ context.Context, code string) (*model.Currency, error) {
	c, ok := m.currencies[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m *mockCurrencyStore) GetDefault(_ context.Context) (*model.Currency, error) {
	for _, c := range m.currencies {
		if c.IsDefault {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockCurrencyStore) List(_ context.Context, _, _ int32) ([]model.Currency, error) {
	return nil, nil
}

func (m *mockCurrencyStore) Save(_ context.Context, c *model.Currency, _ *int) error {
	m.currencies[c.Code] = *c
	return nil
}

func (m *mockCurrencyStore) Delete(_ context.Context, _ int64) error {
	return nil
}

type mockTaxStore struct {
	taxes map[string]model.Tax
}

func (m *mockTaxStore) GetByID(_ context.Context, _ int64) (*model.Tax, error) {
	return nil, store.ErrNotFound
}

func (m *mockTaxStore) GetByCode(_ context.Context, code string) (*model.Tax, error) {
	t, ok := m.taxes[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (m *mockTaxStore) List(_ context.Context, _, _ int32) ([]model.Tax, error) {
	return nil, nil
}

func (m *mockTaxStore) ListActiveByCountry(_ context.Context, countryCode string) ([]model.Tax, error) {
	var out []model.Tax
	for _, t := range m.taxes {
		if t.IsActive && t.CountryCode != nil && *t.CountryCode == countryCode {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].RegionCode == nil) != (out[j].RegionCode == nil) {
			return out[i].RegionCode == nil
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (m *mockTaxStore) Save(_ context.Context, t *model.Tax, _ *int) error {
	m.taxes[t.Code] = *t
	return nil
}

func (m *mockTaxStore) Delete(_ context.Context, _ int64) error {
	return nil
}

type mockStoreProvider struct {
	users         store.UserStore
	plans         store.TariffPlanStore
	subscriptions store.SubscriptionStore
	invoices      store.InvoiceStore
}

func (m *mockStoreProvider) Users() store.UserStore                 { return m.users }
func (m *mockStoreProvider) TariffPlans() store.TariffPlanStore     { return m.plans }
func (m *mockStoreProvider) Subscriptions() store.SubscriptionStore { return m.subscriptions }
func (m *mockStoreProvider) Invoices() store.InvoiceStore           { return m.invoices }

type mockTxRunner struct {
	stores *mockStoreProvider
	calls  int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	return fn(m.stores)
}

// recordingEmitter captures dispatched events and answers with a canned
// result per event name. Unknown names get NoHandler.
type recordingEmitter struct {
	mu      sync.Mutex
	events  []events.Event
	results map[string]events.Result
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{results: map[string]events.Result{}}
}

func (r *recordingEmitter) Dispatch(_ context.Context, e events.Event) events.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if res, ok := r.results[e.Name()]; ok {
		return res
	}
	return events.NoHandler()
}

func (r *recordingEmitter) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name()
	}
	return out
}

func (r *recordingEmitter) last(name string) events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name() == name {
			return r.events[i]
		}
	}
	return nil
}
