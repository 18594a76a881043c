package controller

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/model"
)

func storedVariant() *model.Variant {
	return &model.Variant{
		ID:         7,
		Model:      "Disc",
		Controller: "DualSense",
		Condition:  "New",
		Memory:     "825GB",
		Price:      decimal.NewFromInt(499),
		OfferPrice: decimal.NewNullDecimal(decimal.NewFromInt(449)),
		Quantity:   12,
		Images:     toJSON([]string{"uploads/ps5-front.jpg"}),
	}
}

func decodeUpdate(t *testing.T, body string) updateVariantRequest {
	t.Helper()
	var in updateVariantRequest
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestApplyVariantUpdatePriceOnlyKeepsStockAndOffer(t *testing.T) {
	variant := storedVariant()

	applyVariantUpdate(variant, decodeUpdate(t, `{"price":"450.00"}`))

	assert.True(t, decimal.NewFromFloat(450).Equal(variant.Price))
	assert.Equal(t, 12, variant.Quantity)
	assert.True(t, variant.OfferPrice.Valid)
	assert.True(t, decimal.NewFromInt(449).Equal(variant.OfferPrice.Decimal))
	assert.Equal(t, toJSON([]string{"uploads/ps5-front.jpg"}), variant.Images)
}

func TestApplyVariantUpdateQuantityOnly(t *testing.T) {
	variant := storedVariant()

	applyVariantUpdate(variant, decodeUpdate(t, `{"quantity":0}`))

	assert.Equal(t, 0, variant.Quantity)
	assert.True(t, decimal.NewFromInt(499).Equal(variant.Price))
	assert.True(t, variant.OfferPrice.Valid)
}

func TestApplyVariantUpdateOfferPrice(t *testing.T) {
	variant := storedVariant()

	applyVariantUpdate(variant, decodeUpdate(t, `{"offer_price":"399.00"}`))

	assert.True(t, variant.OfferPrice.Valid)
	assert.True(t, decimal.NewFromInt(399).Equal(variant.OfferPrice.Decimal))
	assert.Equal(t, 12, variant.Quantity)
}

func TestApplyVariantUpdateEmptyBodyChangesNothing(t *testing.T) {
	variant := storedVariant()
	before := *variant

	applyVariantUpdate(variant, decodeUpdate(t, `{}`))

	assert.Equal(t, before, *variant)
}
