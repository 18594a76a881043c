package orders

import (
	"context"

	"shop-backend/model"
)

// Store is the order persistence surface the lifecycle needs.
type Store interface {
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	SetState(ctx context.Context, id uint, state string) error
	List(ctx context.Context, f ListFilters, offset, limit int) ([]model.Order, int64, error)
}

// Service drives the order state machine: pending orders can be cancelled or
// shipped by direct calls; success is reached only through payment
// reconciliation. Cancel and ship carry no current-state precondition;
// repeating either call rewrites the same value and is a no-op.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Cancel(ctx context.Context, id uint) error {
	return s.store.SetState(ctx, id, model.OrderCancel)
}

func (s *Service) Ship(ctx context.Context, id uint) error {
	return s.store.SetState(ctx, id, model.OrderShipped)
}

func (s *Service) Get(ctx context.Context, id uint) (*model.Order, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilters, offset, limit int) ([]model.Order, int64, error) {
	return s.store.List(ctx, f, offset, limit)
}
