package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

const amountPlaces = 2

type WalletService struct {
	store store.RecordStore
	now   func() time.Time
}

func NewWalletService(s store.RecordStore) *WalletService {
	return &WalletService{store: s, now: time.Now}
}

func (s *WalletService) List(ctx context.Context, walletID string) ([]models.WalletTransaction, error) {
	q := store.From(store.WalletTransactions).Order("created_at", false)
	if walletID != "" {
		q = q.Eq("wallet_id", walletID)
	}
	var rows []models.WalletTransaction
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch wallet transactions", err)
	}
	return nonNil(rows), nil
}

func (s *WalletService) Get(ctx context.Context, id string) (models.WalletTransaction, error) {
	if id == "" {
		return models.WalletTransaction{}, errs.Validation("Missing transaction id")
	}
	tx, err := store.FindOne[models.WalletTransaction](ctx, s.store, store.From(store.WalletTransactions).Eq("id", id))
	if errors.Is(err, store.ErrNotFound) {
		return models.WalletTransaction{}, errs.NotFound("Not found")
	}
	if err != nil {
		return models.WalletTransaction{}, errs.Upstream("Failed to fetch wallet transaction", err)
	}
	return tx, nil
}

func (s *WalletService) Create(ctx context.Context, in models.WalletTransactionInput) (models.WalletTransaction, error) {
	if in.Type == nil {
		return models.WalletTransaction{}, errs.Validation("type is required")
	}
	if in.Amount == nil {
		return models.WalletTransaction{}, errs.Validation("amount is required")
	}
	if in.Status == nil {
		pending := models.TxPending
		in.Status = &pending
	}
	values, err := transactionValues(in)
	if err != nil {
		return models.WalletTransaction{}, err
	}
	now := s.now().UTC()
	values["created_at"] = now
	values["updated_at"] = now

	var saved models.WalletTransaction
	if err := s.store.Upsert(ctx, store.WalletTransactions, values, nil, &saved); err != nil {
		return models.WalletTransaction{}, errs.Upstream("Failed to create wallet transaction", err)
	}
	return saved, nil
}

// Update applies the non-nil fields of in to transaction id.
func (s *WalletService) Update(ctx context.Context, id string, in models.WalletTransactionInput) (models.WalletTransaction, error) {
	if id == "" {
		return models.WalletTransaction{}, errs.Validation("Missing transaction id")
	}
	values, err := transactionValues(in)
	if err != nil {
		return models.WalletTransaction{}, err
	}
	values["updated_at"] = s.now().UTC()

	var rows []models.WalletTransaction
	if err := s.store.Update(ctx, store.From(store.WalletTransactions).Eq("id", id), values, &rows); err != nil {
		return models.WalletTransaction{}, errs.Upstream("Failed to update wallet transaction", err)
	}
	if len(rows) == 0 {
		return models.WalletTransaction{}, errs.NotFound("Not found")
	}
	return rows[0], nil
}

func (s *WalletService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errs.Validation("Missing transaction id")
	}
	n, err := s.store.Delete(ctx, store.From(store.WalletTransactions).Eq("id", id))
	if err != nil {
		return errs.Upstream("Failed to delete wallet transaction", err)
	}
	if n == 0 {
		return errs.NotFound("Not found")
	}
	return nil
}

// transactionValues validates the set fields of in and converts them to
// column values. Amounts are stored with two fractional digits.
func transactionValues(in models.WalletTransactionInput) (store.Values, error) {
	values := store.Values{}
	if in.WalletID != nil {
		values["wallet_id"] = *in.WalletID
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, errs.Validation("Invalid transaction type")
		}
		values["type"] = string(*in.Type)
	}
	if in.Amount != nil {
		if !in.Amount.GreaterThan(decimal.Zero) {
			return nil, errs.Validation("amount must be greater than zero")
		}
		values["amount"] = in.Amount.Round(amountPlaces).StringFixed(amountPlaces)
	}
	if in.Description != nil {
		values["description"] = *in.Description
	}
	if in.Metadata != nil {
		values["metadata"] = in.Metadata
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, errs.Validation("Invalid transaction status")
		}
		values["status"] = string(*in.Status)
	}
	return values, nil
}
