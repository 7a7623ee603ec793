package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"food-delivery/api/errs"
	"food-delivery/api/models"
	"food-delivery/api/services"
)

// @Summary Create an order from the cart
// @Tags Orders
// @Accept json
// @Produce json
// @Router /api/v1/user/orders [post]
func (s *Server) createOrder(c *fiber.Ctx) error {
	user, err := s.users.FindUser(c.Context(), accountID(c))
	if err != nil {
		return err
	}

	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return errs.New(errs.InvalidRequest)
	}

	order, err := s.orders.CreateOrder(c.Context(), user, input)
	if err != nil {
		return err
	}
	ordersCreated.Inc()
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (s *Server) getUserOrders(c *fiber.Ctx) error {
	user, err := s.users.FindUser(c.Context(), accountID(c))
	if err != nil {
		return err
	}

	orders, hasNext, err := s.orders.GetUserOrders(c.Context(), user, listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": orders, "has_next": hasNext})
}

func (s *Server) getUserOrderDetail(c *fiber.Ctx) error {
	user, err := s.users.FindUser(c.Context(), accountID(c))
	if err != nil {
		return err
	}
	orderID, err := paramUint(c, "orderID")
	if err != nil {
		return err
	}

	order, delivery, err := s.orders.GetUserOrderDetail(c.Context(), user, orderID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"order": order, "delivery": delivery})
}

func (s *Server) cancelOrderByUser(c *fiber.Ctx) error {
	user, err := s.users.FindUser(c.Context(), accountID(c))
	if err != nil {
		return err
	}
	orderID, err := paramUint(c, "orderID")
	if err != nil {
		return err
	}
	if err := s.orders.CancelOrderByUser(c.Context(), user, orderID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// @Summary List orders for a store
// @Tags Orders
// @Produce json
// @Router /api/v1/partner/stores/{storeID}/orders [get]
func (s *Server) getStoreOrders(c *fiber.Ctx) error {
	partner, err := s.users.FindPartner(c.Context(), accountID(c))
	if err != nil {
		return err
	}
	storeID, err := paramUint(c, "storeID")
	if err != nil {
		return err
	}

	orders, hasNext, err := s.orders.GetStoreOrders(c.Context(), partner, storeID, listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": orders, "has_next": hasNext})
}

func (s *Server) approveOrder(c *fiber.Ctx) error {
	return s.partnerOrderAction(c, s.orders.ApproveOrder)
}

func (s *Server) rejectOrder(c *fiber.Ctx) error {
	return s.partnerOrderAction(c, s.orders.RejectOrder)
}

func (s *Server) cancelOrderByPartner(c *fiber.Ctx) error {
	return s.partnerOrderAction(c, s.orders.CancelOrderByPartner)
}

func (s *Server) cookOrder(c *fiber.Ctx) error {
	return s.partnerOrderAction(c, s.orders.CookOrder)
}

func (s *Server) completeOrder(c *fiber.Ctx) error {
	return s.partnerOrderAction(c, s.orders.CompleteOrder)
}

func (s *Server) partnerOrderAction(c *fiber.Ctx, action func(ctx context.Context, partner *models.Partner, storeID, orderID uint) error) error {
	partner, err := s.users.FindPartner(c.Context(), accountID(c))
	if err != nil {
		return err
	}
	storeID, err := paramUint(c, "storeID")
	if err != nil {
		return err
	}
	orderID, err := paramUint(c, "orderID")
	if err != nil {
		return err
	}
	if err := action(c.Context(), partner, storeID, orderID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func listOptions(c *fiber.Ctx) services.ListOptions {
	opts := services.ListOptions{
		Query: c.Query("query"),
		Page:  c.QueryInt("page", 0),
		Limit: c.QueryInt("limit", 20),
	}
	if raw := c.Query("status"); raw != "" {
		if status, ok := models.ParseOrderStatus(raw); ok {
			opts.Status = &status
		}
	}
	return opts
}
