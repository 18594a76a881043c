package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shop-backend/model"
	"shop-backend/orders"
)

type PaymentController struct {
	Reconciler *orders.Reconciler
}

// Webhook receives provider checkout-completed events over HTTP. The
// provider only cares whether we accepted the delivery; an event for an
// unknown order is still a 200 so the provider stops retrying it.
func (pc *PaymentController) Webhook(c *fiber.Ctx) error {
	evt, err := orders.ParseCheckoutCompleted(c.Body())
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := pc.Reconciler.Reconcile(c.UserContext(), evt); err != nil {
		var validation *model.ValidationError
		if errors.As(err, &validation) {
			return c.Status(400).JSON(fiber.Map{"error": validation.Msg})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"received": true})
}
