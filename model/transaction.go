package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the write-once record of a settled payment. ProviderTxnID
// is the payment provider's id and doubles as the idempotency key: redelivery
// of the same provider event maps onto the same row.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ProviderTxnID string          `gorm:"uniqueIndex;not null" json:"provider_txn_id"`
	Type          string          `gorm:"not null;default:sell" json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CustomerID    uint            `gorm:"index" json:"customer_id"`
	CreatedAt     time.Time       `json:"created_at"`
}
