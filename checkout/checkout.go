package checkout

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"shop-backend/model"
)

// CartLine is one requested product in a checkout call.
type CartLine struct {
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

// Result is what the client needs to open a payment session.
type Result struct {
	OrderID uint            `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// VariantSource resolves cart lines against the catalog.
type VariantSource interface {
	ResolveCartVariants(ctx context.Context, ids []uint) ([]model.Variant, error)
}

// OrderCreator performs the find-or-create of the customer's pending order
// as a single atomic write. It returns the order that now holds the pending
// slot and whether this call created it.
type OrderCreator interface {
	CreatePending(ctx context.Context, order *model.Order) (*model.Order, bool, error)
}

type Service struct {
	variants VariantSource
	orders   OrderCreator
}

func NewService(variants VariantSource, orders OrderCreator) *Service {
	return &Service{variants: variants, orders: orders}
}

// Checkout validates the cart, prices it at current effective prices, and
// creates the customer's pending order. If the customer already has a
// pending order it is returned unchanged. The stock check
// is advisory only: nothing is reserved or decremented here.
func (s *Service) Checkout(ctx context.Context, customerID uint, lines []CartLine, addr *model.AddressSnapshot) (*Result, error) {
	if customerID == 0 {
		return nil, &model.ValidationError{Msg: "missing customer"}
	}
	if len(lines) == 0 {
		return nil, &model.ValidationError{Msg: "cart is empty"}
	}
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.VariantID == 0 || line.Quantity < 1 {
			return nil, &model.ValidationError{Msg: "invalid cart line"}
		}
		ids = append(ids, line.VariantID)
	}

	variants, err := s.variants.ResolveCartVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Variant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}
	if len(byID) == 0 {
		return nil, &model.ValidationError{Msg: "no cart products could be resolved"}
	}

	var items []model.OrderItem
	amount := decimal.Zero
	for _, line := range lines {
		v, ok := byID[line.VariantID]
		if !ok {
			continue
		}
		if line.Quantity > v.Quantity {
			return nil, &model.StockError{
				VariantID: v.ID,
				SKU:       v.SKU,
				Requested: line.Quantity,
				Available: v.Quantity,
			}
		}
		unit := v.EffectivePrice()
		subtotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		name := v.SKU
		if v.Family != nil {
			name = v.Family.Name
		}
		items = append(items, model.OrderItem{
			VariantID: v.ID,
			SKU:       v.SKU,
			Name:      name,
			UnitPrice: unit,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
		amount = amount.Add(subtotal)
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	order := &model.Order{
		CustomerID: customerID,
		Items:      datatypes.JSON(itemsJSON),
		Amount:     amount,
		State:      model.OrderPending,
	}
	if addr != nil {
		addrJSON, err := json.Marshal(addr)
		if err != nil {
			return nil, err
		}
		order.Address = datatypes.JSON(addrJSON)
	}

	order, _, err = s.orders.CreatePending(ctx, order)
	if err != nil {
		return nil, err
	}
	return &Result{OrderID: order.ID, Amount: order.Amount}, nil
}
