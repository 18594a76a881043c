package orders

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/model"
)

func TestFindOrCreatePendingInsertWins(t *testing.T) {
	order := &model.Order{CustomerID: 9}

	got, created, err := findOrCreatePending(order,
		func() error { return nil },
		func() (*model.Order, error) {
			t.Fatal("find should not run when the insert wins")
			return nil, nil
		},
	)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Same(t, order, got)
}

func TestFindOrCreatePendingReusesWinner(t *testing.T) {
	existing := &model.Order{ID: 41, CustomerID: 9, State: model.OrderPending}

	got, created, err := findOrCreatePending(&model.Order{CustomerID: 9},
		func() error { return sql.ErrNoRows },
		func() (*model.Order, error) { return existing, nil },
	)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, existing, got)
}

// The winning order can change state between the losing insert and the read,
// leaving no pending row to return. The slot is free again, so the insert is
// retried instead of surfacing a not-found error.
func TestFindOrCreatePendingRetriesWhenWinnerMovedOn(t *testing.T) {
	order := &model.Order{CustomerID: 9}
	inserts := 0

	got, created, err := findOrCreatePending(order,
		func() error {
			inserts++
			if inserts == 1 {
				return sql.ErrNoRows
			}
			order.ID = 42
			return nil
		},
		func() (*model.Order, error) { return nil, model.ErrOrderNotFound },
	)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Same(t, order, got)
	assert.Equal(t, uint(42), got.ID)
	assert.Equal(t, 2, inserts)
}

func TestFindOrCreatePendingGivesUpAfterOneRetry(t *testing.T) {
	inserts := 0

	_, _, err := findOrCreatePending(&model.Order{CustomerID: 9},
		func() error {
			inserts++
			return sql.ErrNoRows
		},
		func() (*model.Order, error) { return nil, model.ErrOrderNotFound },
	)

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	assert.Equal(t, 2, inserts)
}

func TestFindOrCreatePendingPropagatesInsertError(t *testing.T) {
	boom := errors.New("connection reset")

	_, _, err := findOrCreatePending(&model.Order{CustomerID: 9},
		func() error { return boom },
		func() (*model.Order, error) {
			t.Fatal("find should not run on a hard insert error")
			return nil, nil
		},
	)

	assert.ErrorIs(t, err, boom)
}
