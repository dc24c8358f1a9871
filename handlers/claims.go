package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var errMalformedClaims = errors.New("malformed token claims")

// currentUserID extracts the authenticated user's id from the JWT the auth
// middleware stored on the context. Tokens are issued by this server, so a
// missing or non-uuid user_id claim means the token is not one of ours.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errMalformedClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errMalformedClaims
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errMalformedClaims
	}
	return uuid.Parse(raw)
}
