package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"food-delivery/api/config"
	"food-delivery/api/errs"
	"food-delivery/api/services"
	"food-delivery/api/storage"
)

type Server struct {
	cfg        *config.Config
	carts      *services.CartService
	orders     *services.OrderService
	deliveries *services.DeliveryService
	users      *storage.UserRepository
}

func NewServer(
	cfg *config.Config,
	carts *services.CartService,
	orders *services.OrderService,
	deliveries *services.DeliveryService,
	users *storage.UserRepository,
) *Server {
	return &Server{
		cfg:        cfg,
		carts:      carts,
		orders:     orders,
		deliveries: deliveries,
		users:      users,
	}
}

func (s *Server) RegisterRoutes(app *fiber.App) {
	app.Get("/health", healthCheck)

	v1 := app.Group("/api/v1")

	user := v1.Group("/user", s.requireRole("user"))
	user.Get("/cart", s.getCart)
	user.Post("/cart/items", s.addCartItems)
	user.Delete("/cart", s.clearCart)
	user.Put("/cart/items/:menuID", s.updateCartItemQuantity)
	user.Delete("/cart/items/:menuID", s.removeCartItem)
	user.Post("/orders", s.createOrder)
	user.Get("/orders", s.getUserOrders)
	user.Get("/orders/:orderID", s.getUserOrderDetail)
	user.Post("/orders/:orderID/cancel", s.cancelOrderByUser)

	partner := v1.Group("/partner", s.requireRole("partner"))
	partner.Get("/stores/:storeID/orders", s.getStoreOrders)
	partner.Post("/stores/:storeID/orders/:orderID/approve", s.approveOrder)
	partner.Post("/stores/:storeID/orders/:orderID/reject", s.rejectOrder)
	partner.Post("/stores/:storeID/orders/:orderID/cancel", s.cancelOrderByPartner)
	partner.Post("/stores/:storeID/orders/:orderID/cook", s.cookOrder)
	partner.Post("/stores/:storeID/orders/:orderID/complete", s.completeOrder)

	rider := v1.Group("/rider", s.requireRole("rider"))
	rider.Get("/orders/nearby", s.getOrdersNearby)
	rider.Post("/deliveries", s.createDelivery)
	rider.Post("/deliveries/:deliveryID/start", s.startDelivery)
	rider.Post("/deliveries/:deliveryID/complete", s.completeDelivery)
	rider.Post("/deliveries/:deliveryID/cancel", s.cancelDelivery)
	rider.Put("/location", s.updateRiderLocation)

	// Rider live location stream.
	app.Use("/ws/rider", s.validateRiderToken)
	app.Get("/ws/rider", websocket.New(s.handleRiderWebSocket))
}

// ErrorHandler maps business errors to their HTTP status; anything else is a
// plain 500/fiber error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var be *errs.Error
	if errors.As(err, &be) {
		return c.Status(be.Status).JSON(fiber.Map{
			"code":  string(be.Code),
			"error": be.Message,
		})
	}

	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// @Summary Health check
// @Tags Health
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now(),
	})
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errs.New(errs.InvalidRequest)
	}
	return uint(id), nil
}
