package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	OrderPending = "pending"
	OrderShipped = "shipped"
	OrderSuccess = "success"
	OrderCancel  = "cancel"
)

// Order is a priced cart waiting for (or settled by) a payment. Items,
// amount and address are snapshots taken at checkout; only state,
// transaction_id and payment_method change afterwards.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerID    uint            `gorm:"not null;index:idx_orders_customer_pending,unique,where:state = 'pending'" json:"customer_id"`
	Items         datatypes.JSON  `json:"items"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	State         string          `gorm:"not null;default:pending" json:"state"`
	TransactionID *uint           `json:"transaction_id,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Address       datatypes.JSON  `json:"address,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem is one snapshotted cart line inside Order.Items.
type OrderItem struct {
	VariantID uint            `json:"variant_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// AddressSnapshot is the shipping address copied onto the order at checkout.
type AddressSnapshot struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

// OrderItems decodes the snapshot column back into lines.
func (o *Order) OrderItems() ([]OrderItem, error) {
	var items []OrderItem
	if len(o.Items) == 0 {
		return items, nil
	}
	err := json.Unmarshal(o.Items, &items)
	return items, err
}
