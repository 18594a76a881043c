package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shop-backend/model"
)

// Filters narrows the catalog to the customer's current selection. Zero
// values mean "no filter".
type Filters struct {
	ProductType string
	Brand       string
	Condition   string
	Search      string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// Facets are the remaining filter choices over the currently filtered set.
type Facets struct {
	ProductTypes []string        `json:"product_types"`
	Brands       []string        `json:"brands"`
	Conditions   []string        `json:"conditions"`
	MinPrice     decimal.Decimal `json:"min_price"`
	MaxPrice     decimal.Decimal `json:"max_price"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// familyQuery joins families to their variants and applies the filter set.
// Variant-level filters (condition, price) match a family when ANY of its
// variants matches; price always means effective price.
func (r *Repository) familyQuery(ctx context.Context, f Filters) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Family{}).
		Joins("JOIN variants ON variants.family_id = families.id")
	if f.ProductType != "" {
		q = q.Where("families.product_type = ?", f.ProductType)
	}
	if f.Brand != "" {
		q = q.Where("families.brand = ?", f.Brand)
	}
	if f.Condition != "" {
		q = q.Where("variants.condition = ?", f.Condition)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("families.name ILIKE ? OR families.description ILIKE ?", like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("COALESCE(variants.offer_price, variants.price) >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("COALESCE(variants.offer_price, variants.price) <= ?", *f.MaxPrice)
	}
	return q
}

// ListFamilies returns one row per matching family, ordered by display rank
// (unranked families last), plus the total family count. Pagination happens
// after grouping so totals reflect families, not variant rows.
func (r *Repository) ListFamilies(ctx context.Context, f Filters, offset, limit int) ([]model.Family, int64, error) {
	var total int64
	if err := r.familyQuery(ctx, f).Distinct("families.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var families []model.Family
	err := r.familyQuery(ctx, f).
		Distinct("families.*").
		Order("families.display_rank ASC NULLS LAST, families.id ASC").
		Offset(offset).Limit(limit).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("variants.id ASC")
		}).
		Find(&families).Error
	if err != nil {
		return nil, 0, err
	}
	return families, total, nil
}

// FacetsFor computes the distinct facet values over the filtered set. Each
// facet ignores its own selection so the UI can widen within a narrowed list.
func (r *Repository) FacetsFor(ctx context.Context, f Filters) (Facets, error) {
	var facets Facets

	ft := f
	ft.ProductType = ""
	if err := r.familyQuery(ctx, ft).Distinct().
		Order("families.product_type").
		Pluck("families.product_type", &facets.ProductTypes).Error; err != nil {
		return facets, err
	}

	fb := f
	fb.Brand = ""
	if err := r.familyQuery(ctx, fb).Distinct().
		Order("families.brand").
		Pluck("families.brand", &facets.Brands).Error; err != nil {
		return facets, err
	}

	fc := f
	fc.Condition = ""
	if err := r.familyQuery(ctx, fc).Distinct().
		Order("variants.condition").
		Pluck("variants.condition", &facets.Conditions).Error; err != nil {
		return facets, err
	}

	var min, max decimal.NullDecimal
	row := r.familyQuery(ctx, f).
		Select("MIN(COALESCE(variants.offer_price, variants.price)), MAX(COALESCE(variants.offer_price, variants.price))").
		Row()
	if err := row.Scan(&min, &max); err != nil {
		return facets, err
	}
	if min.Valid {
		facets.MinPrice = min.Decimal
	}
	if max.Valid {
		facets.MaxPrice = max.Decimal
	}
	return facets, nil
}

func (r *Repository) GetFamilyBySlug(ctx context.Context, slug string) (*model.Family, error) {
	var family model.Family
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("variants.id ASC")
		}).
		Where("slug = ?", slug).
		First(&family).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}
	return &family, nil
}

// GetFamiliesBySlugs resolves related-product links. Unknown slugs are
// simply absent from the result.
func (r *Repository) GetFamiliesBySlugs(ctx context.Context, slugs []string) ([]model.Family, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var families []model.Family
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("slug IN ?", slugs).
		Find(&families).Error
	return families, err
}

func (r *Repository) GetVariantsByIDs(ctx context.Context, ids []uint) ([]model.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []model.Variant
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&variants).Error
	return variants, err
}

// ResolveCartVariants batch-fetches cart lines with their family loaded so
// checkout can snapshot display names alongside prices.
func (r *Repository) ResolveCartVariants(ctx context.Context, ids []uint) ([]model.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []model.Variant
	err := r.db.WithContext(ctx).Preload("Family").Where("id IN ?", ids).Find(&variants).Error
	return variants, err
}

func (r *Repository) CreateFamily(ctx context.Context, family *model.Family) error {
	family.Slug = Slugify(family.Name)
	return r.db.WithContext(ctx).Create(family).Error
}

// CreateVariant inserts one configuration. The first variant of a family
// becomes its base; a duplicate attribute tuple is a conflict. The partial
// unique index on variants(family_id) WHERE is_base admits one base per
// family, so of two concurrent first inserts only one can claim it.
func (r *Repository) CreateVariant(ctx context.Context, family *model.Family, v *model.Variant) error {
	v.FamilyID = family.ID
	v.SKU = VariantSKU(family.Slug, v.Model, v.Controller, v.Condition, v.Memory)

	var siblings int64
	if err := r.db.WithContext(ctx).Model(&model.Variant{}).
		Where("family_id = ?", family.ID).Count(&siblings).Error; err != nil {
		return err
	}
	v.IsBase = siblings == 0

	err := r.db.WithContext(ctx).Create(v).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && v.IsBase {
		// lost the base claim to a concurrent insert; join as a plain variant
		v.IsBase = false
		err = r.db.WithContext(ctx).Create(v).Error
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrDuplicateVariant
	}
	return err
}

func (r *Repository) GetVariant(ctx context.Context, id uint) (*model.Variant, error) {
	var v model.Variant
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrVariantNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repository) SaveVariant(ctx context.Context, v *model.Variant) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *Repository) SaveFamily(ctx context.Context, family *model.Family) error {
	return r.db.WithContext(ctx).Save(family).Error
}

// DeleteFamily removes a family and its variants, returning the deleted
// record so the caller can clean up image files.
func (r *Repository) DeleteFamily(ctx context.Context, id uint) (*model.Family, error) {
	var family model.Family
	err := r.db.WithContext(ctx).Preload("Variants").First(&family, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).Select("Variants").Delete(&family).Error; err != nil {
		return nil, err
	}
	return &family, nil
}
