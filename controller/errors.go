package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shop-backend/model"
)

// errStatus maps domain errors onto HTTP statuses at the request boundary.
func errStatus(err error) int {
	var validation *model.ValidationError
	var stock *model.StockError

	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &stock):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrVariantNotFound),
		errors.Is(err, model.ErrOrderNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrDuplicateVariant),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errJSON(c *fiber.Ctx, err error) error {
	return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
