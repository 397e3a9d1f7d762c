package service

import (
	"log/slog"

	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	locker   cache.Locker
	emitter  events.Emitter
	logger   *slog.Logger
}

func NewServices(stores *store.Stores, txRunner TxRunner, locker cache.Locker, emitter events.Emitter, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		locker:   locker,
		emitter:  emitter,
		logger:   logger,
	}
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users(), s.emitter)
}

func (s *Services) Subscriptions() SubscriptionService {
	return NewSubscriptionService(s.stores.Subscriptions(), s.stores.TariffPlans(), s.emitter, s.logger)
}

func (s *Services) Invoices() InvoiceService {
	return NewInvoiceService(s.stores.Invoices(), s.locker, s.logger)
}

func (s *Services) Checkout() CheckoutService {
	return NewCheckoutService(s.stores.TariffPlans(), s.stores.Subscriptions(), s.txRunner, s.Invoices(), s.Currencies(), s.emitter, s.logger)
}

func (s *Services) Refunds() RefundService {
	return NewRefundService(s.Invoices(), s.locker, s.emitter, s.logger)
}

func (s *Services) Currencies() CurrencyService {
	return NewCurrencyService(s.stores.Currencies())
}

func (s *Services) Taxes() TaxService {
	return NewTaxService(s.stores.Taxes())
}

func (s *Services) TariffPlans() TariffPlanService {
	return NewTariffPlanService(s.stores.TariffPlans(), s.Currencies(), s.Taxes(), s.logger)
}
