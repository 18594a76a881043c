package controller

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"shop-backend/cache"
	"shop-backend/catalog"
	"shop-backend/kafka"
	"shop-backend/model"
	"shop-backend/search"
	"shop-backend/storage"
)

const (
	listCachePrefix   = "products:list:"
	detailCachePrefix = "products:detail:"
	cacheTTL          = 5 * time.Minute
)

type ProductController struct {
	Repo     *catalog.Repository
	Listing  *catalog.ListingService
	Detail   *catalog.DetailService
	Cache    *redis.Client
	Producer *kafka.Producer
}

func (pc *ProductController) List(c *fiber.Ctx) error {
	ctx := c.UserContext()

	cacheKey := listCachePrefix + c.OriginalURL()
	if cached, err := pc.Cache.Get(ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	}

	query := catalog.ListingQuery{
		Filters: catalog.Filters{
			ProductType: c.Query("product_type"),
			Brand:       c.Query("brand"),
			Condition:   c.Query("condition"),
			Search:      c.Query("search"),
			MinPrice:    catalog.ParsePrice(c.Query("min_price")),
			MaxPrice:    catalog.ParsePrice(c.Query("max_price")),
		},
		Sort:  c.Query("sort"),
		Page:  catalog.ParsePage(c.Query("page")),
		Limit: catalog.ParseLimit(c.Query("limit")),
	}

	result, err := pc.Listing.List(ctx, query)
	if err != nil {
		return errJSON(c, err)
	}

	if body, err := json.Marshal(result); err == nil {
		pc.Cache.Set(ctx, cacheKey, body, cacheTTL)
	}
	return c.JSON(result)
}

func (pc *ProductController) GetBySlug(c *fiber.Ctx) error {
	ctx := c.UserContext()
	slug := c.Params("slug")
	sku := c.Query("sku")

	cacheKey := detailCachePrefix + slug + ":" + sku
	if cached, err := pc.Cache.Get(ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	}

	detail, err := pc.Detail.GetBySlug(ctx, slug, sku)
	if err != nil {
		return errJSON(c, err)
	}

	if body, err := json.Marshal(detail); err == nil {
		pc.Cache.Set(ctx, cacheKey, body, cacheTTL)
	}
	return c.JSON(detail)
}

type createFamilyRequest struct {
	Name        string   `json:"name"`
	ProductType string   `json:"product_type"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	DisplayRank *int     `json:"display_rank"`
	Related     []string `json:"related"`
	Images      []string `json:"images"`
}

func (pc *ProductController) CreateProduct(c *fiber.Ctx) error {
	var in createFamilyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if in.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	family := &model.Family{
		Name:        in.Name,
		ProductType: in.ProductType,
		Brand:       in.Brand,
		Description: in.Description,
		DisplayRank: in.DisplayRank,
		Related:     toJSON(in.Related),
		Images:      toJSON(in.Images),
	}
	if err := pc.Repo.CreateFamily(c.UserContext(), family); err != nil {
		return errJSON(c, err)
	}

	pc.afterCatalogWrite(c.UserContext(), "upsert", family)
	return c.Status(201).JSON(family)
}

type variantRequest struct {
	Model      string              `json:"model"`
	Controller string              `json:"controller"`
	Condition  string              `json:"condition"`
	Memory     string              `json:"memory"`
	Price      decimal.Decimal     `json:"price"`
	OfferPrice decimal.NullDecimal `json:"offer_price"`
	Quantity   int                 `json:"quantity"`
	Images     []string            `json:"images"`
}

func (pc *ProductController) CreateVariant(c *fiber.Ctx) error {
	ctx := c.UserContext()

	family, err := pc.Repo.GetFamilyBySlug(ctx, c.Params("slug"))
	if err != nil {
		return errJSON(c, err)
	}

	var in variantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if in.Price.IsNegative() || in.Price.IsZero() {
		return c.Status(400).JSON(fiber.Map{"error": "price must be positive"})
	}

	variant := &model.Variant{
		Model:      in.Model,
		Controller: in.Controller,
		Condition:  in.Condition,
		Memory:     in.Memory,
		Price:      in.Price,
		OfferPrice: in.OfferPrice,
		Quantity:   in.Quantity,
		Images:     toJSON(in.Images),
	}
	if err := pc.Repo.CreateVariant(ctx, family, variant); err != nil {
		return errJSON(c, err)
	}

	pc.afterCatalogWrite(ctx, "upsert", family)
	return c.Status(201).JSON(variant)
}

// updateVariantRequest carries only the fields the caller wants changed.
// Omitted fields keep their stored values.
type updateVariantRequest struct {
	Price      *decimal.Decimal     `json:"price"`
	OfferPrice *decimal.NullDecimal `json:"offer_price"`
	Quantity   *int                 `json:"quantity"`
	Images     []string             `json:"images"`
}

func applyVariantUpdate(variant *model.Variant, in updateVariantRequest) {
	if in.Price != nil {
		variant.Price = *in.Price
	}
	if in.OfferPrice != nil {
		variant.OfferPrice = *in.OfferPrice
	}
	if in.Quantity != nil {
		variant.Quantity = *in.Quantity
	}
	if in.Images != nil {
		// replaced images lose their files
		storage.DeleteFiles(replacedImages(variant.Images, in.Images))
		variant.Images = toJSON(in.Images)
	}
}

func (pc *ProductController) UpdateVariant(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}
	variant, err := pc.Repo.GetVariant(ctx, uint(id))
	if err != nil {
		return errJSON(c, err)
	}

	var in updateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if in.Price != nil && !in.Price.IsPositive() {
		return c.Status(400).JSON(fiber.Map{"error": "price must be positive"})
	}

	applyVariantUpdate(variant, in)

	if err := pc.Repo.SaveVariant(ctx, variant); err != nil {
		return errJSON(c, err)
	}

	cache.InvalidatePrefix(ctx, pc.Cache, listCachePrefix)
	cache.InvalidatePrefix(ctx, pc.Cache, detailCachePrefix)
	return c.JSON(variant)
}

func (pc *ProductController) DeleteProduct(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	family, err := pc.Repo.DeleteFamily(ctx, uint(id))
	if err != nil {
		return errJSON(c, err)
	}

	var paths []string
	paths = append(paths, imagePaths(family.Images)...)
	for i := range family.Variants {
		paths = append(paths, imagePaths(family.Variants[i].Images)...)
	}
	storage.DeleteFiles(paths)

	pc.afterCatalogWrite(ctx, "delete", family)
	return c.SendStatus(204)
}

// afterCatalogWrite fans a write out to the search indexer and drops stale
// cache entries.
func (pc *ProductController) afterCatalogWrite(ctx context.Context, action string, family *model.Family) {
	pc.Producer.PublishCatalogUpdatedEvent(map[string]interface{}{
		"event_type": "catalog.updated",
		"data": map[string]interface{}{
			"action": action,
			"family": search.FamilyDoc{
				ID:          family.ID,
				Name:        family.Name,
				Slug:        family.Slug,
				Description: family.Description,
				ProductType: family.ProductType,
				Brand:       family.Brand,
			},
		},
	})
	cache.InvalidatePrefix(ctx, pc.Cache, listCachePrefix)
	cache.InvalidatePrefix(ctx, pc.Cache, detailCachePrefix)
}

func toJSON(values []string) datatypes.JSON {
	if values == nil {
		return nil
	}
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}

func imagePaths(raw datatypes.JSON) []string {
	var paths []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &paths)
	}
	return paths
}

// replacedImages returns old paths absent from the new list.
func replacedImages(old datatypes.JSON, updated []string) []string {
	keep := make(map[string]bool, len(updated))
	for _, p := range updated {
		keep[p] = true
	}
	var gone []string
	for _, p := range imagePaths(old) {
		if !keep[p] {
			gone = append(gone, p)
		}
	}
	return gone
}
