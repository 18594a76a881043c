package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Family is one sellable product line (e.g. "PlayStation 5"). Shared,
// display-level fields live here; purchasable configurations live on Variant.
type Family struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	ProductType string         `json:"product_type"`
	Brand       string         `json:"brand"`
	Description string         `json:"description"`
	Rating      float64        `json:"rating"`
	ReviewCount int            `json:"review_count"`
	DisplayRank *int           `json:"display_rank,omitempty"`
	Related     datatypes.JSON `json:"related,omitempty"`
	Images      datatypes.JSON `json:"images,omitempty"`
	Variants    []Variant      `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (f *Family) TableName() string {
	return "families"
}

// Variant is one purchasable configuration of a Family. The attribute tuple
// is unique within a family; exactly one variant per family is the base.
type Variant struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	FamilyID   uint                `gorm:"not null;uniqueIndex:idx_variant_attrs;index:idx_variant_base,unique,where:is_base" json:"family_id"`
	SKU        string              `gorm:"uniqueIndex;not null" json:"sku"`
	Model      string              `gorm:"uniqueIndex:idx_variant_attrs" json:"model"`
	Controller string              `gorm:"uniqueIndex:idx_variant_attrs" json:"controller"`
	Condition  string              `gorm:"uniqueIndex:idx_variant_attrs" json:"condition"`
	Memory     string              `gorm:"uniqueIndex:idx_variant_attrs" json:"memory"`
	Price      decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	OfferPrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"offer_price,omitempty"`
	Quantity   int                 `json:"quantity"`
	IsBase     bool                `json:"is_base"`
	Images     datatypes.JSON      `json:"images,omitempty"`
	Family     *Family             `gorm:"foreignKey:FamilyID" json:"-"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// EffectivePrice is the price a customer actually pays: the offer price when
// one is set, the list price otherwise.
func (v *Variant) EffectivePrice() decimal.Decimal {
	if v.OfferPrice.Valid {
		return v.OfferPrice.Decimal
	}
	return v.Price
}

// BaseVariant returns the family's base configuration, or nil when the
// family has no variants yet.
func (f *Family) BaseVariant() *Variant {
	for i := range f.Variants {
		if f.Variants[i].IsBase {
			return &f.Variants[i]
		}
	}
	if len(f.Variants) > 0 {
		return &f.Variants[0]
	}
	return nil
}
