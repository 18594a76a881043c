package controller

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"shop-backend/cache"
	"shop-backend/catalog"
	"shop-backend/checkout"
	"shop-backend/model"
	"shop-backend/orders"
)

const orderListCachePrefix = "orders:list:"

type OrderController struct {
	Checkout *checkout.Service
	Orders   *orders.Service
	Cache    *redis.Client
}

type checkoutRequest struct {
	Items   []checkout.CartLine    `json:"items"`
	Address *model.AddressSnapshot `json:"address"`
}

func (oc *OrderController) Create(c *fiber.Ctx) error {
	customerID := c.Locals("user_id").(uint)

	var body checkoutRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	result, err := oc.Checkout.Checkout(c.UserContext(), customerID, body.Items, body.Address)
	if err != nil {
		return errJSON(c, err)
	}

	cache.InvalidatePrefix(c.UserContext(), oc.Cache, orderListCachePrefix)
	return c.Status(201).JSON(result)
}

func (oc *OrderController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	order, err := oc.Orders.Get(c.UserContext(), uint(id))
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(order)
}

func (oc *OrderController) Cancel(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	if err := oc.Orders.Cancel(c.UserContext(), uint(id)); err != nil {
		return errJSON(c, err)
	}

	cache.InvalidatePrefix(c.UserContext(), oc.Cache, orderListCachePrefix)
	return c.JSON(fiber.Map{"message": "order cancelled"})
}

func (oc *OrderController) Ship(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	if err := oc.Orders.Ship(c.UserContext(), uint(id)); err != nil {
		return errJSON(c, err)
	}

	cache.InvalidatePrefix(c.UserContext(), oc.Cache, orderListCachePrefix)
	return c.JSON(fiber.Map{"message": "order shipped"})
}

// ListAll is the admin view over every order.
func (oc *OrderController) ListAll(c *fiber.Ctx) error {
	ctx := c.UserContext()

	cacheKey := orderListCachePrefix + c.OriginalURL()
	if cached, err := oc.Cache.Get(ctx, cacheKey).Result(); err == nil {
		return c.Type("json").SendString(cached)
	}

	filters := orders.ListFilters{State: c.Query("state")}
	if customer, err := strconv.Atoi(c.Query("customer_id")); err == nil {
		filters.CustomerID = uint(customer)
	}
	page := catalog.ParsePage(c.Query("page"))
	limit := catalog.ParseLimit(c.Query("limit"))

	list, total, err := oc.Orders.List(ctx, filters, (page-1)*limit, limit)
	if err != nil {
		return errJSON(c, err)
	}
	if list == nil {
		list = []model.Order{}
	}

	result := fiber.Map{
		"orders": list,
		"pagination": catalog.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	}
	if body, err := json.Marshal(result); err == nil {
		oc.Cache.Set(ctx, cacheKey, body, time.Minute)
	}
	return c.JSON(result)
}

// ListMine returns the calling customer's own orders.
func (oc *OrderController) ListMine(c *fiber.Ctx) error {
	customerID := c.Locals("user_id").(uint)

	page := catalog.ParsePage(c.Query("page"))
	limit := catalog.ParseLimit(c.Query("limit"))

	list, total, err := oc.Orders.List(c.UserContext(),
		orders.ListFilters{State: c.Query("state"), CustomerID: customerID},
		(page-1)*limit, limit)
	if err != nil {
		return errJSON(c, err)
	}
	if list == nil {
		list = []model.Order{}
	}

	return c.JSON(fiber.Map{
		"orders": list,
		"pagination": catalog.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	})
}
