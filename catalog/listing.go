package catalog

import (
	"context"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"shop-backend/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100

	SortMinPrice = "min_price"
	SortMaxPrice = "max_price"
)

// FamilyLister is the slice of the repository the listing engine needs.
type FamilyLister interface {
	ListFamilies(ctx context.Context, f Filters, offset, limit int) ([]model.Family, int64, error)
	FacetsFor(ctx context.Context, f Filters) (Facets, error)
}

// ListingQuery is a fully parsed, clamped listing request.
type ListingQuery struct {
	Filters
	Sort  string
	Page  int
	Limit int
}

// ListedProduct is one family's representative row in a listing page.
type ListedProduct struct {
	FamilyID       uint                `json:"id"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	ProductType    string              `json:"product_type"`
	Brand          string              `json:"brand"`
	SKU            string              `json:"sku"`
	Condition      string              `json:"condition"`
	Price          decimal.Decimal     `json:"price"`
	OfferPrice     decimal.NullDecimal `json:"offer_price,omitempty"`
	EffectivePrice decimal.Decimal     `json:"effective_price"`
	Quantity       int                 `json:"quantity"`
	Rating         float64             `json:"rating"`
	ReviewCount    int                 `json:"review_count"`
	Images         datatypes.JSON      `json:"images,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type ListingResult struct {
	Products   []ListedProduct `json:"products"`
	Facets     Facets          `json:"facets"`
	Pagination Pagination      `json:"pagination"`
}

type ListingService struct {
	repo FamilyLister
}

func NewListingService(repo FamilyLister) *ListingService {
	return &ListingService{repo: repo}
}

// List returns one representative per matching family plus facets and
// pagination. Price sorting re-orders the returned page in memory only, so
// it is correct within a page but not across page boundaries; the default
// order (display rank) is applied in the query and paginates correctly.
func (s *ListingService) List(ctx context.Context, q ListingQuery) (*ListingResult, error) {
	page := q.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	families, total, err := s.repo.ListFamilies(ctx, q.Filters, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	facets, err := s.repo.FacetsFor(ctx, q.Filters)
	if err != nil {
		return nil, err
	}

	products := make([]ListedProduct, 0, len(families))
	for i := range families {
		rep := families[i].BaseVariant()
		if rep == nil {
			continue
		}
		products = append(products, listedProduct(&families[i], rep))
	}

	switch q.Sort {
	case SortMinPrice:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].EffectivePrice.LessThan(products[j].EffectivePrice)
		})
	case SortMaxPrice:
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].EffectivePrice.LessThan(products[i].EffectivePrice)
		})
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &ListingResult{
		Products: products,
		Facets:   facets,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func listedProduct(f *model.Family, rep *model.Variant) ListedProduct {
	return ListedProduct{
		FamilyID:       f.ID,
		Name:           f.Name,
		Slug:           f.Slug,
		ProductType:    f.ProductType,
		Brand:          f.Brand,
		SKU:            rep.SKU,
		Condition:      rep.Condition,
		Price:          rep.Price,
		OfferPrice:     rep.OfferPrice,
		EffectivePrice: rep.EffectivePrice(),
		Quantity:       rep.Quantity,
		Rating:         f.Rating,
		ReviewCount:    f.ReviewCount,
		Images:         rep.Images,
	}
}

// ParsePage and ParseLimit fall back to defaults on malformed input instead
// of erroring.
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultPage
	}
	return n
}

func ParseLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// ParsePrice returns nil on malformed or negative input.
func ParsePrice(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}
