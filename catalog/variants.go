package catalog

import (
	"github.com/shopspring/decimal"

	"shop-backend/model"
)

// AttributeOption is one selectable value for a variant attribute, with the
// price difference relative to the variant the customer is looking at.
type AttributeOption struct {
	Value string `json:"value"`
	Delta string `json:"delta"`
}

// VariantOptions lists, per attribute, every value that exists somewhere in
// the family.
type VariantOptions struct {
	Model      []AttributeOption `json:"model,omitempty"`
	Controller []AttributeOption `json:"controller,omitempty"`
	Condition  []AttributeOption `json:"condition,omitempty"`
	Memory     []AttributeOption `json:"memory,omitempty"`
}

type attribute struct {
	name string
	get  func(*model.Variant) string
}

var attributes = []attribute{
	{"model", func(v *model.Variant) string { return v.Model }},
	{"controller", func(v *model.Variant) string { return v.Controller }},
	{"condition", func(v *model.Variant) string { return v.Condition }},
	{"memory", func(v *model.Variant) string { return v.Memory }},
}

// BuildOptions computes the option lists for a family as seen from the
// viewed variant. A value whose configuration does not exist in the family
// gets a neutral "+0" rather than being dropped: the customer can still see
// the value, just without a price hint.
func BuildOptions(family *model.Family, viewed *model.Variant) VariantOptions {
	var opts VariantOptions
	for _, attr := range attributes {
		values := distinctValues(family, attr)
		list := make([]AttributeOption, 0, len(values))
		for _, value := range values {
			list = append(list, AttributeOption{
				Value: value,
				Delta: deltaFor(family, viewed, attr, value),
			})
		}
		switch attr.name {
		case "model":
			opts.Model = list
		case "controller":
			opts.Controller = list
		case "condition":
			opts.Condition = list
		case "memory":
			opts.Memory = list
		}
	}
	return opts
}

func distinctValues(family *model.Family, attr attribute) []string {
	seen := make(map[string]bool)
	var values []string
	for i := range family.Variants {
		v := attr.get(&family.Variants[i])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// deltaFor prices switching the viewed variant's attribute to value. The
// sibling is the family member agreeing with the viewed variant on every
// other attribute; if no such configuration exists the delta is neutral.
func deltaFor(family *model.Family, viewed *model.Variant, attr attribute, value string) string {
	if attr.get(viewed) == value {
		return "+0"
	}
	sibling := findSibling(family, viewed, attr, value)
	if sibling == nil {
		return "+0"
	}
	return FormatDelta(sibling.EffectivePrice().Sub(viewed.EffectivePrice()))
}

func findSibling(family *model.Family, viewed *model.Variant, attr attribute, value string) *model.Variant {
	for i := range family.Variants {
		candidate := &family.Variants[i]
		if attr.get(candidate) != value {
			continue
		}
		match := true
		for _, other := range attributes {
			if other.name == attr.name {
				continue
			}
			if other.get(candidate) != other.get(viewed) {
				match = false
				break
			}
		}
		if match {
			return candidate
		}
	}
	return nil
}

// FormatDelta renders a price difference with an explicit sign and two
// decimals; a zero difference is the literal "+0".
func FormatDelta(d decimal.Decimal) string {
	if d.IsZero() {
		return "+0"
	}
	if d.Sign() > 0 {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
