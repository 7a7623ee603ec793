package handlers

import (
	"github.com/gofiber/fiber/v2"

	"food-delivery/api/errs"
	"food-delivery/api/models"
)

// @Summary Nearby claimable orders
// @Tags Delivery
// @Produce json
// @Router /api/v1/rider/orders/nearby [get]
func (s *Server) getOrdersNearby(c *fiber.Ctx) error {
	rider, err := s.users.FindRider(c.Context(), accountID(c))
	if err != nil {
		return err
	}
	orders, err := s.deliveries.GetOrdersNearby(c.Context(), rider.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// @Summary Claim an order
// @Tags Delivery
// @Accept json
// @Produce json
// @Router /api/v1/rider/deliveries [post]
func (s *Server) createDelivery(c *fiber.Ctx) error {
	rider, err := s.users.FindRider(c.Context(), accountID(c))
	if err != nil {
		return err
	}

	var req struct {
		OrderID uint `json:"order_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.OrderID == 0 {
		return errs.New(errs.InvalidRequest)
	}

	delivery, err := s.deliveries.CreateDelivery(c.Context(), rider, req.OrderID)
	if err != nil {
		return err
	}
	deliveriesClaimed.Inc()
	return c.Status(fiber.StatusCreated).JSON(delivery)
}

func (s *Server) startDelivery(c *fiber.Ctx) error {
	rider, deliveryID, err := s.riderAndDelivery(c)
	if err != nil {
		return err
	}
	if err := s.deliveries.StartDelivery(c.Context(), rider, deliveryID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// completeDelivery accepts an optional multipart "image" file as proof of
// delivery.
func (s *Server) completeDelivery(c *fiber.Ctx) error {
	rider, deliveryID, err := s.riderAndDelivery(c)
	if err != nil {
		return err
	}

	if fileHeader, fErr := c.FormFile("image"); fErr == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return errs.New(errs.FileUploadFailed)
		}
		defer file.Close()
		if err := s.deliveries.CompleteDelivery(c.Context(), rider, deliveryID, file, fileHeader.Filename); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}

	if err := s.deliveries.CompleteDelivery(c.Context(), rider, deliveryID, nil, ""); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) cancelDelivery(c *fiber.Ctx) error {
	rider, deliveryID, err := s.riderAndDelivery(c)
	if err != nil {
		return err
	}
	if err := s.deliveries.CancelDelivery(c.Context(), rider, deliveryID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) updateRiderLocation(c *fiber.Ctx) error {
	rider, err := s.users.FindRider(c.Context(), accountID(c))
	if err != nil {
		return err
	}

	var req models.Coordinate
	if err := c.BodyParser(&req); err != nil {
		return errs.New(errs.InvalidRequest)
	}
	if err := s.deliveries.UpdateRiderLocation(c.Context(), rider.ID, req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) riderAndDelivery(c *fiber.Ctx) (*models.Rider, uint, error) {
	rider, err := s.users.FindRider(c.Context(), accountID(c))
	if err != nil {
		return nil, 0, err
	}
	deliveryID, err := paramUint(c, "deliveryID")
	if err != nil {
		return nil, 0, err
	}
	return rider, deliveryID, nil
}
