package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

// requireRole authenticates the bearer token and checks its role claim.
// Token issuance is someone else's job; we only validate.
func (s *Server) requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.ErrUnauthorized
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, s.hmacKey)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		if claims["role"] != role {
			return fiber.ErrForbidden
		}

		accountID, ok := claims["account_id"].(float64)
		if !ok || accountID <= 0 {
			return fiber.ErrUnauthorized
		}

		c.Locals("accountID", uint(accountID))
		return c.Next()
	}
}

func accountID(c *fiber.Ctx) uint {
	id, _ := c.Locals("accountID").(uint)
	return id
}

// validateRiderToken guards the rider websocket; credentials come in query
// params since websocket clients cannot always set headers.
func (s *Server) validateRiderToken(c *fiber.Ctx) error {
	token := c.Query("token")
	riderID := c.Query("rider_id")

	if token == "" || riderID == "" {
		return fiber.ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.hmacKey)
	if err != nil || fmt.Sprint(claims["rider_id"]) != riderID {
		return fiber.ErrUnauthorized
	}

	return c.Next()
}

// hmacKey hands out the HMAC secret, refusing tokens signed with any other
// method.
func (s *Server) hmacKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(s.cfg.JWT.SecretKey), nil
}
