package store

import (
	"context"

	"github.com/dantweb/vbwd-sdk/core/db/sqlc"
	"github.com/dantweb/vbwd-sdk/internal/model"
)

type invoiceStore struct {
	queries *sqlc.Queries
}

func newInvoiceStore(queries *sqlc.Queries) InvoiceStore {
	return &invoiceStore{queries: queries}
}

func (s *invoiceStore) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	row, err := s.queries.GetInvoice(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toInvoiceModel(row), nil
}

func (s *invoiceStore) GetByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	row, err := s.queries.GetInvoiceByNumber(ctx, number)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toInvoiceModel(row), nil
}

func (s *invoiceStore) GetByPaymentRef(ctx context.Context, ref string) (*model.Invoice, error) {
	row, err := s.queries.GetInvoiceByPaymentRef(ctx, &ref)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toInvoiceModel(row), nil
}

func (s *invoiceStore) List(ctx context.Context, limit, offset int32) ([]model.Invoice, error) {
	rows, err := s.queries.ListInvoices(ctx, sqlc.ListInvoicesParams{Limit: limit, Offset: offset})
	return toModels(rows, err, toInvoiceModel)
}

func (s *invoiceStore) ListBySubscription(ctx context.Context, subscriptionID int64) ([]model.Invoice, error) {
	rows, err := s.queries.ListInvoicesBySubscription(ctx, &subscriptionID)
	return toModels(rows, err, toInvoiceModel)
}

func (s *invoiceStore) ListByUser(ctx context.Context, userID int64) ([]model.Invoice, error) {
	rows, err := s.queries.ListInvoicesByUser(ctx, userID)
	return toModels(rows, err, toInvoiceModel)
}

func (s *invoiceStore) Save(ctx context.Context, inv *model.Invoice, expectedVersion *int) error {
	if isInsert(inv.Version, expectedVersion) {
		row, err := s.queries.CreateInvoice(ctx, sqlc.CreateInvoiceParams{
			ID:             inv.ID,
			UserID:         inv.UserID,
			TariffPlanID:   inv.TariffPlanID,
			SubscriptionID: inv.SubscriptionID,
			InvoiceNumber:  inv.InvoiceNumber,
			Amount:         inv.Amount,
			Currency:       inv.Currency,
			Status:         string(inv.Status),
			RefundedAmount: inv.RefundedAmount,
			PaymentMethod:  inv.PaymentMethod,
			PaymentRef:     inv.PaymentRef,
			InvoicedAt:     inv.InvoicedAt,
			PaidAt:         inv.PaidAt,
			ExpiresAt:      inv.ExpiresAt,
		})
		if err != nil {
			return err
		}
		*inv = *toInvoiceModel(row)
		return nil
	}

	row, err := s.queries.UpdateInvoice(ctx, sqlc.UpdateInvoiceParams{
		Status:          string(inv.Status),
		PaymentMethod:   inv.PaymentMethod,
		PaymentRef:      inv.PaymentRef,
		PaidAt:          inv.PaidAt,
		ExpiresAt:       inv.ExpiresAt,
		Amount:          inv.Amount,
		Currency:        inv.Currency,
		RefundedAmount:  inv.RefundedAmount,
		ID:              inv.ID,
		ExpectedVersion: expected(inv.Version, expectedVersion),
	})
	if err != nil {
		return updateMiss(ctx, err, inv.ID, s.queries.InvoiceExists)
	}
	*inv = *toInvoiceModel(row)
	return nil
}

func (s *invoiceStore) Delete(ctx context.Context, id int64) error {
	return deleted(s.queries.DeleteInvoice(ctx, id))
}

func toInvoiceModel(row sqlc.Invoice) *model.Invoice {
	return &model.Invoice{
		ID:             row.ID,
		UserID:         row.UserID,
		TariffPlanID:   row.TariffPlanID,
		SubscriptionID: row.SubscriptionID,
		InvoiceNumber:  row.InvoiceNumber,
		Amount:         row.Amount,
		Currency:       row.Currency,
		Status:         model.InvoiceStatus(row.Status),
		RefundedAmount: row.RefundedAmount,
		PaymentMethod:  row.PaymentMethod,
		PaymentRef:     row.PaymentRef,
		InvoicedAt:     row.InvoicedAt,
		PaidAt:         row.PaidAt,
		ExpiresAt:      row.ExpiresAt,
		Version:        int(row.Version),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
