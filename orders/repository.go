package orders

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"shop-backend/model"
)

type Repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, sqlDB: sqlDB}, nil
}

// The conflict target matches the partial unique index on
// orders(customer_id) WHERE state = 'pending': two concurrent checkouts for
// one customer cannot both insert, whichever loses reads the winner's row.
const insertPendingOrder = `
	INSERT INTO orders (customer_id, items, amount, state, address, created_at, updated_at)
	VALUES ($1, $2::jsonb, $3, 'pending', $4::jsonb, NOW(), NOW())
	ON CONFLICT (customer_id) WHERE state = 'pending' DO NOTHING
	RETURNING id, created_at
`

// CreatePending inserts the order unless the customer already holds the
// pending slot, in which case the existing order is returned unchanged.
func (r *Repository) CreatePending(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	return findOrCreatePending(order,
		func() error { return r.insertPending(ctx, order) },
		func() (*model.Order, error) { return r.findPending(ctx, order.CustomerID) },
	)
}

func (r *Repository) insertPending(ctx context.Context, order *model.Order) error {
	var address interface{}
	if len(order.Address) > 0 {
		address = []byte(order.Address)
	}
	return r.sqlDB.QueryRowContext(
		ctx,
		insertPendingOrder,
		order.CustomerID,
		[]byte(order.Items),
		order.Amount,
		address,
	).Scan(&order.ID, &order.CreatedAt)
}

func (r *Repository) findPending(ctx context.Context, customerID uint) (*model.Order, error) {
	var existing model.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND state = ?", customerID, model.OrderPending).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// findOrCreatePending resolves the window between a losing insert and the
// follow-up read: if the winning pending order changed state before the read
// landed, the slot is free again and the insert is retried once.
func findOrCreatePending(order *model.Order, insert func() error, find func() (*model.Order, error)) (*model.Order, bool, error) {
	for attempt := 0; ; attempt++ {
		err := insert()
		if err == nil {
			return order, true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, err
		}
		existing, ferr := find()
		if ferr == nil {
			return existing, false, nil
		}
		if !errors.Is(ferr, model.ErrOrderNotFound) || attempt > 0 {
			return nil, false, ferr
		}
	}
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// SetState writes the state unconditionally; re-applying the same state
// affects the row again, which keeps cancel and ship idempotent.
func (r *Repository) SetState(ctx context.Context, id uint, state string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("state", state)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// Settle marks the order paid and attaches its transaction.
func (r *Repository) Settle(ctx context.Context, id, txnID uint, method string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":          model.OrderSuccess,
			"transaction_id": txnID,
			"payment_method": method,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// ListFilters narrows the order listing. Zero values mean "no filter".
type ListFilters struct {
	State      string
	CustomerID uint
}

func (r *Repository) List(ctx context.Context, f ListFilters, offset, limit int) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Order
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

const insertTransaction = `
	INSERT INTO transactions (provider_txn_id, type, payment_method, amount, customer_id, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (provider_txn_id) DO NOTHING
	RETURNING id, created_at
`

// InsertTransaction is write-once per provider transaction id: a redelivered
// event lands on the existing row instead of creating a duplicate.
func (r *Repository) InsertTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, bool, error) {
	err := r.sqlDB.QueryRowContext(
		ctx,
		insertTransaction,
		txn.ProviderTxnID,
		txn.Type,
		txn.PaymentMethod,
		txn.Amount,
		txn.CustomerID,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err == nil {
		return txn, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	var existing model.Transaction
	ferr := r.db.WithContext(ctx).
		Where("provider_txn_id = ?", txn.ProviderTxnID).
		First(&existing).Error
	if ferr != nil {
		return nil, false, ferr
	}
	return &existing, false, nil
}
