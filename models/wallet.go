package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxDeposit             TransactionType = "deposit"
	TxCashout             TransactionType = "cashout"
	TxReward              TransactionType = "reward"
	TxTokenPurchase       TransactionType = "token_purchase"
	TxMoneyTransfer       TransactionType = "money_transfer"
	TxAffiliateCommission TransactionType = "affiliate_commission"
	TxPremiumBill         TransactionType = "premium_bill"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxCashout, TxReward, TxTokenPurchase, TxMoneyTransfer, TxAffiliateCommission, TxPremiumBill:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	return s == TxPending || s == TxCompleted || s == TxFailed
}

// JSONMap is a jsonb column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", src)
	}
}

type WalletTransaction struct {
	ID          string            `json:"id" db:"id"`
	WalletID    *string           `json:"wallet_id" db:"wallet_id"`
	Type        TransactionType   `json:"type" db:"type"`
	Amount      decimal.Decimal   `json:"amount" db:"amount"`
	Description *string           `json:"description" db:"description"`
	Metadata    JSONMap           `json:"metadata" db:"metadata"`
	Status      TransactionStatus `json:"status" db:"status"`
	CreatedAt   *time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at" db:"updated_at"`
}

// WalletTransactionInput is the body of a create or update. Nil fields are
// left unchanged on update.
type WalletTransactionInput struct {
	WalletID    *string            `json:"wallet_id"`
	Type        *TransactionType   `json:"type"`
	Amount      *decimal.Decimal   `json:"amount"`
	Description *string            `json:"description"`
	Metadata    JSONMap            `json:"metadata"`
	Status      *TransactionStatus `json:"status"`
}
