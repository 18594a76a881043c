package routes

import (
	"github.com/gofiber/fiber/v2"

	"shop-backend/controller"
	"shop-backend/middleware"
)

func RegisterProductRoutes(app *fiber.App, pc *controller.ProductController, auth fiber.Handler) {
	api := app.Group("/api")
	p := api.Group("/products")

	p.Get("/", pc.List)
	p.Get("/:slug", pc.GetBySlug)

	p.Post("/", auth, middleware.RoleRequired("admin"), pc.CreateProduct)
	p.Post("/:slug/variants", auth, middleware.RoleRequired("admin"), pc.CreateVariant)
	p.Put("/variants/:id", auth, middleware.RoleRequired("admin"), pc.UpdateVariant)
	p.Delete("/:id", auth, middleware.RoleRequired("admin"), pc.DeleteProduct)
}

func RegisterOrderRoutes(app *fiber.App, oc *controller.OrderController, auth fiber.Handler) {
	api := app.Group("/api")
	o := api.Group("/orders")

	o.Post("/checkout", auth, oc.Create)
	o.Get("/my", auth, oc.ListMine)
	o.Get("/", auth, middleware.RoleRequired("admin"), oc.ListAll)
	o.Get("/:id", auth, oc.Get)
	o.Post("/:id/cancel", auth, oc.Cancel)
	o.Post("/:id/ship", auth, middleware.RoleRequired("admin"), oc.Ship)
}

func RegisterPaymentRoutes(app *fiber.App, pc *controller.PaymentController) {
	api := app.Group("/api")
	api.Post("/payments/webhook", pc.Webhook)
}

func RegisterReviewRoutes(app *fiber.App, rc *controller.ReviewController, auth fiber.Handler) {
	api := app.Group("/api")
	r := api.Group("/products/:slug/reviews")

	r.Get("/", rc.List)
	r.Post("/", auth, rc.Create)
}
