package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"shop-backend/model"
)

func newVariant(id uint, mdl, controller, condition, memory string, price float64) model.Variant {
	return model.Variant{
		ID:         id,
		Model:      mdl,
		Controller: controller,
		Condition:  condition,
		Memory:     memory,
		Price:      decimal.NewFromFloat(price),
	}
}

func withOffer(v model.Variant, offer float64) model.Variant {
	v.OfferPrice = decimal.NewNullDecimal(decimal.NewFromFloat(offer))
	return v
}

func TestBuildOptionsDeltaSymmetry(t *testing.T) {
	a := newVariant(1, "Disc", "DualSense", "New", "825GB", 100)
	b := newVariant(2, "Disc", "DualSense", "New", "1TB", 120)
	family := &model.Family{Variants: []model.Variant{a, b}}

	fromA := BuildOptions(family, &family.Variants[0])
	assert.Equal(t, []AttributeOption{
		{Value: "825GB", Delta: "+0"},
		{Value: "1TB", Delta: "+20.00"},
	}, fromA.Memory)

	fromB := BuildOptions(family, &family.Variants[1])
	assert.Equal(t, []AttributeOption{
		{Value: "825GB", Delta: "-20.00"},
		{Value: "1TB", Delta: "+0"},
	}, fromB.Memory)
}

func TestBuildOptionsTieIsNeutral(t *testing.T) {
	a := newVariant(1, "Disc", "DualSense", "New", "825GB", 100)
	b := newVariant(2, "Digital", "DualSense", "New", "825GB", 100)
	family := &model.Family{Variants: []model.Variant{a, b}}

	opts := BuildOptions(family, &family.Variants[0])
	assert.Equal(t, []AttributeOption{
		{Value: "Disc", Delta: "+0"},
		{Value: "Digital", Delta: "+0"},
	}, opts.Model)
}

func TestBuildOptionsUnavailableCombination(t *testing.T) {
	// c differs from a in BOTH model and memory, so switching only the
	// memory from a's configuration has no purchasable sibling
	a := newVariant(1, "Disc", "DualSense", "New", "825GB", 100)
	c := newVariant(2, "Digital", "DualSense", "New", "1TB", 150)
	family := &model.Family{Variants: []model.Variant{a, c}}

	opts := BuildOptions(family, &family.Variants[0])
	assert.Equal(t, []AttributeOption{
		{Value: "825GB", Delta: "+0"},
		{Value: "1TB", Delta: "+0"},
	}, opts.Memory)
}

func TestBuildOptionsUsesEffectivePrice(t *testing.T) {
	// offer price wins over list price on both sides of the delta
	a := withOffer(newVariant(1, "Disc", "DualSense", "New", "825GB", 130), 100)
	b := withOffer(newVariant(2, "Disc", "DualSense", "New", "1TB", 200), 120)
	family := &model.Family{Variants: []model.Variant{a, b}}

	opts := BuildOptions(family, &family.Variants[0])
	assert.Equal(t, "+20.00", opts.Memory[1].Delta)
}

func TestBuildOptionsSkipsEmptyValues(t *testing.T) {
	a := newVariant(1, "Disc", "", "New", "825GB", 100)
	family := &model.Family{Variants: []model.Variant{a}}

	opts := BuildOptions(family, &family.Variants[0])
	assert.Empty(t, opts.Controller)
	assert.Len(t, opts.Model, 1)
}

func TestFormatDelta(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "+0"},
		{20, "+20.00"},
		{-20, "-20.00"},
		{0.5, "+0.50"},
		{-129.99, "-129.99"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDelta(decimal.NewFromFloat(tc.in)))
	}
}

func TestEffectivePrice(t *testing.T) {
	v := newVariant(1, "Disc", "DualSense", "New", "825GB", 130)
	assert.True(t, decimal.NewFromInt(130).Equal(v.EffectivePrice()))

	v = withOffer(v, 100)
	assert.True(t, decimal.NewFromInt(100).Equal(v.EffectivePrice()))
}
