package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/model"
)

// memStore is an in-memory Store/SettleStore/TransactionStore used across
// the lifecycle and reconciliation tests.
type memStore struct {
	orders map[uint]*model.Order
	txns   map[string]*model.Transaction
	nextTx uint
}

func newMemStore(orders ...*model.Order) *memStore {
	s := &memStore{
		orders: make(map[uint]*model.Order),
		txns:   make(map[string]*model.Transaction),
	}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *memStore) GetByID(_ context.Context, id uint) (*model.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	return o, nil
}

func (s *memStore) SetState(_ context.Context, id uint, state string) error {
	o, ok := s.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.State = state
	return nil
}

func (s *memStore) Settle(_ context.Context, id, txnID uint, method string) error {
	o, ok := s.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.State = model.OrderSuccess
	o.TransactionID = &txnID
	o.PaymentMethod = &method
	return nil
}

func (s *memStore) List(_ context.Context, f ListFilters, offset, limit int) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range s.orders {
		if f.State != "" && o.State != f.State {
			continue
		}
		if f.CustomerID != 0 && o.CustomerID != f.CustomerID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (s *memStore) InsertTransaction(_ context.Context, txn *model.Transaction) (*model.Transaction, bool, error) {
	if existing, ok := s.txns[txn.ProviderTxnID]; ok {
		return existing, false, nil
	}
	s.nextTx++
	txn.ID = s.nextTx
	s.txns[txn.ProviderTxnID] = txn
	return txn, true, nil
}

func pendingOrder(id, customer uint) *model.Order {
	return &model.Order{ID: id, CustomerID: customer, State: model.OrderPending}
}

func TestCancelIsIdempotent(t *testing.T) {
	store := newMemStore(pendingOrder(1, 7))
	svc := NewService(store)

	require.NoError(t, svc.Cancel(context.Background(), 1))
	assert.Equal(t, model.OrderCancel, store.orders[1].State)

	// a second cancel rewrites the same value without error
	require.NoError(t, svc.Cancel(context.Background(), 1))
	assert.Equal(t, model.OrderCancel, store.orders[1].State)
}

func TestShip(t *testing.T) {
	store := newMemStore(pendingOrder(1, 7))
	svc := NewService(store)

	require.NoError(t, svc.Ship(context.Background(), 1))
	assert.Equal(t, model.OrderShipped, store.orders[1].State)
}

func TestLifecycleUnknownOrder(t *testing.T) {
	svc := NewService(newMemStore())
	assert.ErrorIs(t, svc.Cancel(context.Background(), 99), model.ErrOrderNotFound)
	assert.ErrorIs(t, svc.Ship(context.Background(), 99), model.ErrOrderNotFound)
}

func TestListFilters(t *testing.T) {
	a := pendingOrder(1, 7)
	b := pendingOrder(2, 8)
	b.State = model.OrderSuccess
	store := newMemStore(a, b)
	svc := NewService(store)

	list, total, err := svc.List(context.Background(), ListFilters{State: model.OrderPending}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint(1), list[0].ID)

	list, total, err = svc.List(context.Background(), ListFilters{CustomerID: 8}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint(2), list[0].ID)
}
