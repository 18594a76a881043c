package catalog

import (
	"context"
	"encoding/json"

	"shop-backend/model"
)

// FamilyGetter is the slice of the repository the detail view needs.
type FamilyGetter interface {
	GetFamilyBySlug(ctx context.Context, slug string) (*model.Family, error)
	GetFamiliesBySlugs(ctx context.Context, slugs []string) ([]model.Family, error)
}

type ProductDetail struct {
	Family  *model.Family   `json:"product"`
	Viewed  *model.Variant  `json:"variant"`
	Options VariantOptions  `json:"options"`
	Related []ListedProduct `json:"related_products"`
}

type DetailService struct {
	repo FamilyGetter
}

func NewDetailService(repo FamilyGetter) *DetailService {
	return &DetailService{repo: repo}
}

// GetBySlug resolves a family and the variant the customer is viewing (the
// sku parameter, or the base when empty), with per-attribute price deltas
// relative to that variant and the resolved related products. Related slugs
// that no longer exist are skipped.
func (s *DetailService) GetBySlug(ctx context.Context, slug, sku string) (*ProductDetail, error) {
	family, err := s.repo.GetFamilyBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	viewed := family.BaseVariant()
	if sku != "" {
		viewed = nil
		for i := range family.Variants {
			if family.Variants[i].SKU == sku {
				viewed = &family.Variants[i]
				break
			}
		}
	}
	if viewed == nil {
		return nil, model.ErrVariantNotFound
	}

	detail := &ProductDetail{
		Family:  family,
		Viewed:  viewed,
		Options: BuildOptions(family, viewed),
	}

	var slugs []string
	if len(family.Related) > 0 {
		_ = json.Unmarshal(family.Related, &slugs)
	}
	related, err := s.repo.GetFamiliesBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	for i := range related {
		rep := related[i].BaseVariant()
		if rep == nil {
			continue
		}
		detail.Related = append(detail.Related, listedProduct(&related[i], rep))
	}
	return detail, nil
}
