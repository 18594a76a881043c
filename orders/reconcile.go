package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"shop-backend/model"
)

// CheckoutCompletedEvent is the provider's "checkout session completed"
// webhook payload. Amounts arrive in cents.
type CheckoutCompletedEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		Session struct {
			ID            string `json:"id"`
			OrderID       uint   `json:"order_id"`
			AmountTotal   int64  `json:"amount_total"`
			PaymentIntent string `json:"payment_intent"`
			PaymentMethod string `json:"payment_method"`
		} `json:"session"`
	} `json:"data"`
}

// ParseCheckoutCompleted decodes a raw provider payload.
func ParseCheckoutCompleted(raw []byte) (*CheckoutCompletedEvent, error) {
	var evt CheckoutCompletedEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, &model.ValidationError{Msg: "malformed payment event"}
	}
	return &evt, nil
}

// SettleStore is the order surface reconciliation writes through.
type SettleStore interface {
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	Settle(ctx context.Context, id, txnID uint, method string) error
}

// TransactionStore inserts at most one transaction per provider id.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, bool, error)
}

// Notifier delivers the receipt. Failures are the notifier's problem, not
// reconciliation's.
type Notifier interface {
	SendReceipt(orderID uint, amount decimal.Decimal) error
}

type Reconciler struct {
	orders   SettleStore
	txns     TransactionStore
	notifier Notifier
}

func NewReconciler(orders SettleStore, txns TransactionStore, notifier Notifier) *Reconciler {
	return &Reconciler{orders: orders, txns: txns, notifier: notifier}
}

// Reconcile settles an order from a provider event: record the transaction,
// mark the order successful, send the receipt. An event referencing an
// unknown order is dropped without error, since replays and abandoned
// sessions are expected. A redelivered event reuses the existing transaction row and
// rewrites the same order state, so running twice ends in the same place.
func (r *Reconciler) Reconcile(ctx context.Context, evt *CheckoutCompletedEvent) error {
	session := evt.Data.Session
	if session.OrderID == 0 || session.PaymentIntent == "" {
		return &model.ValidationError{Msg: "payment event missing order or payment intent"}
	}

	order, err := r.orders.GetByID(ctx, session.OrderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			log.Printf("payment event for unknown order %d dropped (session %s)",
				session.OrderID, session.ID)
			return nil
		}
		return err
	}

	txn := &model.Transaction{
		ProviderTxnID: session.PaymentIntent,
		Type:          "sell",
		PaymentMethod: session.PaymentMethod,
		Amount:        decimal.New(session.AmountTotal, -2),
		CustomerID:    order.CustomerID,
	}
	txn, created, err := r.txns.InsertTransaction(ctx, txn)
	if err != nil {
		return err
	}
	if !created {
		log.Printf("duplicate payment event for order %d (txn %s), reusing transaction %d",
			order.ID, session.PaymentIntent, txn.ID)
	}

	if err := r.orders.Settle(ctx, order.ID, txn.ID, txn.PaymentMethod); err != nil {
		return err
	}

	if r.notifier != nil {
		if err := r.notifier.SendReceipt(order.ID, order.Amount); err != nil {
			log.Printf("receipt for order %d not sent: %v", order.ID, err)
		}
	}
	return nil
}
