package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/checkout"
	"shop-backend/model"
)

type mockNotifier struct {
	sent []uint
	err  error
}

func (m *mockNotifier) SendReceipt(orderID uint, _ decimal.Decimal) error {
	m.sent = append(m.sent, orderID)
	return m.err
}

func completedEvent(orderID uint, intent string, cents int64) *CheckoutCompletedEvent {
	var evt CheckoutCompletedEvent
	evt.EventType = "checkout.session.completed"
	evt.Data.Session.ID = "cs_test_1"
	evt.Data.Session.OrderID = orderID
	evt.Data.Session.AmountTotal = cents
	evt.Data.Session.PaymentIntent = intent
	evt.Data.Session.PaymentMethod = "card"
	return &evt
}

func TestReconcileSettlesOrder(t *testing.T) {
	order := pendingOrder(1, 7)
	order.Amount = decimal.NewFromInt(499)
	store := newMemStore(order)
	notifier := &mockNotifier{}
	rec := NewReconciler(store, store, notifier)

	err := rec.Reconcile(context.Background(), completedEvent(1, "pi_123", 49900))
	require.NoError(t, err)

	assert.Equal(t, model.OrderSuccess, order.State)
	require.NotNil(t, order.TransactionID)
	require.NotNil(t, order.PaymentMethod)
	assert.Equal(t, "card", *order.PaymentMethod)

	txn := store.txns["pi_123"]
	require.NotNil(t, txn)
	assert.Equal(t, "sell", txn.Type)
	assert.Equal(t, uint(7), txn.CustomerID)
	assert.True(t, decimal.NewFromInt(499).Equal(txn.Amount), "cents converted, got %s", txn.Amount)

	assert.Equal(t, []uint{1}, notifier.sent)
}

func TestReconcileDuplicateDelivery(t *testing.T) {
	order := pendingOrder(1, 7)
	store := newMemStore(order)
	rec := NewReconciler(store, store, &mockNotifier{})

	evt := completedEvent(1, "pi_123", 49900)
	require.NoError(t, rec.Reconcile(context.Background(), evt))
	firstTxn := *order.TransactionID

	// redelivery: same end state, same single transaction row
	require.NoError(t, rec.Reconcile(context.Background(), evt))
	assert.Equal(t, model.OrderSuccess, order.State)
	assert.Equal(t, firstTxn, *order.TransactionID)
	assert.Len(t, store.txns, 1)
}

func TestReconcileUnknownOrderIsDropped(t *testing.T) {
	store := newMemStore()
	rec := NewReconciler(store, store, &mockNotifier{})

	err := rec.Reconcile(context.Background(), completedEvent(42, "pi_999", 100))
	assert.NoError(t, err, "provider events detached from a known order are a no-op")
	assert.Empty(t, store.txns)
}

func TestReconcileMalformedEvent(t *testing.T) {
	store := newMemStore(pendingOrder(1, 7))
	rec := NewReconciler(store, store, &mockNotifier{})

	var validation *model.ValidationError
	err := rec.Reconcile(context.Background(), completedEvent(0, "pi_1", 100))
	assert.ErrorAs(t, err, &validation)

	err = rec.Reconcile(context.Background(), completedEvent(1, "", 100))
	assert.ErrorAs(t, err, &validation)
}

func TestReconcileNotifierFailureDoesNotRollBack(t *testing.T) {
	order := pendingOrder(1, 7)
	store := newMemStore(order)
	rec := NewReconciler(store, store, &mockNotifier{err: errors.New("smtp down")})

	err := rec.Reconcile(context.Background(), completedEvent(1, "pi_123", 49900))
	require.NoError(t, err)
	assert.Equal(t, model.OrderSuccess, order.State)
}

func TestParseCheckoutCompleted(t *testing.T) {
	evt, err := ParseCheckoutCompleted([]byte(`{
		"event_type": "checkout.session.completed",
		"data": {"session": {"id": "cs_1", "order_id": 5, "amount_total": 1000,
			"payment_intent": "pi_5", "payment_method": "card"}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, uint(5), evt.Data.Session.OrderID)
	assert.Equal(t, "pi_5", evt.Data.Session.PaymentIntent)

	_, err = ParseCheckoutCompleted([]byte(`{not json`))
	var validation *model.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// checkoutOrderStore adapts memStore to the checkout orchestrator so the
// full pending → success path can run against one shared store.
type checkoutOrderStore struct {
	*memStore
	nextID uint
}

func (s *checkoutOrderStore) CreatePending(_ context.Context, order *model.Order) (*model.Order, bool, error) {
	for _, o := range s.orders {
		if o.CustomerID == order.CustomerID && o.State == model.OrderPending {
			return o, false, nil
		}
	}
	s.nextID++
	order.ID = s.nextID
	s.orders[order.ID] = order
	return order, true, nil
}

type staticVariants []model.Variant

func (v staticVariants) ResolveCartVariants(_ context.Context, ids []uint) ([]model.Variant, error) {
	return v, nil
}

func TestCheckoutToSettlementScenario(t *testing.T) {
	store := &checkoutOrderStore{memStore: newMemStore()}
	variants := staticVariants{{
		ID:       1,
		SKU:      "ps5-disc",
		Price:    decimal.NewFromInt(499),
		Quantity: 3,
		Family:   &model.Family{Name: "PlayStation 5"},
	}}

	result, err := checkout.NewService(variants, store).
		Checkout(context.Background(), 7, []checkout.CartLine{{VariantID: 1, Quantity: 2}}, nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(998).Equal(result.Amount))

	order := store.orders[result.OrderID]
	require.NotNil(t, order)
	assert.Equal(t, model.OrderPending, order.State)

	notifier := &mockNotifier{}
	rec := NewReconciler(store.memStore, store.memStore, notifier)
	evt := completedEvent(result.OrderID, "pi_settle", 99800)
	require.NoError(t, rec.Reconcile(context.Background(), evt))

	assert.Equal(t, model.OrderSuccess, order.State)
	assert.Len(t, store.txns, 1)
	require.NotNil(t, order.PaymentMethod)
	assert.Equal(t, "card", *order.PaymentMethod)

	// a second identical delivery leaves everything as it is
	require.NoError(t, rec.Reconcile(context.Background(), evt))
	assert.Equal(t, model.OrderSuccess, order.State)
	assert.Len(t, store.txns, 1)
	assert.Equal(t, []uint{order.ID, order.ID}, notifier.sent)
}
