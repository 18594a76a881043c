package controller

import (
	"github.com/gofiber/fiber/v2"

	"shop-backend/catalog"
	"shop-backend/model"
)

type ReviewController struct {
	Repo    *catalog.ReviewRepository
	Catalog *catalog.Repository
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create upserts the caller's review of a product: reviewing the same
// product twice replaces the first review.
func (rc *ReviewController) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	family, err := rc.Catalog.GetFamilyBySlug(ctx, c.Params("slug"))
	if err != nil {
		return errJSON(c, err)
	}

	var in reviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if in.Rating < 1 || in.Rating > 5 {
		return c.Status(400).JSON(fiber.Map{"error": "rating must be between 1 and 5"})
	}

	review := &model.Review{
		FamilyID:       family.ID,
		CustomerID:     c.Locals("user_id").(uint),
		Rating:         in.Rating,
		Comment:        in.Comment,
		CustomerName:   localString(c, "user_name"),
		CustomerAvatar: localString(c, "user_avatar"),
	}
	if err := rc.Repo.Upsert(ctx, review); err != nil {
		return errJSON(c, err)
	}
	return c.Status(201).JSON(review)
}

func (rc *ReviewController) List(c *fiber.Ctx) error {
	ctx := c.UserContext()

	family, err := rc.Catalog.GetFamilyBySlug(ctx, c.Params("slug"))
	if err != nil {
		return errJSON(c, err)
	}

	reviews, err := rc.Repo.ListByFamily(ctx, family.ID)
	if err != nil {
		return errJSON(c, err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return c.JSON(reviews)
}

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return v
	}
	return ""
}
