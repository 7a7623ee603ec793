package handlers

import (
	"github.com/gofiber/fiber/v2"

	"food-delivery/api/errs"
	"food-delivery/api/services"
)

// @Summary Add items to the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Router /api/v1/user/cart/items [post]
func (s *Server) addCartItems(c *fiber.Ctx) error {
	var req struct {
		Items []services.CartItemInput `json:"items"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.New(errs.InvalidRequest)
	}

	cart, err := s.carts.AddItems(c.Context(), accountID(c), req.Items)
	if err != nil {
		return err
	}
	return c.JSON(cart)
}

func (s *Server) getCart(c *fiber.Ctx) error {
	cart, err := s.carts.Get(c.Context(), accountID(c))
	if err != nil {
		return err
	}
	return c.JSON(cart)
}

func (s *Server) clearCart(c *fiber.Ctx) error {
	if err := s.carts.Clear(c.Context(), accountID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) removeCartItem(c *fiber.Ctx) error {
	menuID, err := paramUint(c, "menuID")
	if err != nil {
		return err
	}
	if err := s.carts.RemoveItem(c.Context(), accountID(c), menuID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) updateCartItemQuantity(c *fiber.Ctx) error {
	menuID, err := paramUint(c, "menuID")
	if err != nil {
		return err
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.New(errs.InvalidRequest)
	}
	if err := s.carts.UpdateItemQuantity(c.Context(), accountID(c), menuID, req.Quantity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
