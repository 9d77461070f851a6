package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// BrandCookie holds the ID of the brand the user is currently working on.
const BrandCookie = "plum_brand"

// ActiveBrandID reads the active brand from its cookie.
func ActiveBrandID(c fiber.Ctx) (uuid.UUID, bool) {
	raw := c.Cookies(BrandCookie)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SetActiveBrand stores brandID in the brand cookie for a year.
func SetActiveBrand(c fiber.Ctx, brandID uuid.UUID, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     BrandCookie,
		Value:    brandID.String(),
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearActiveBrand expires the brand cookie.
func ClearActiveBrand(c fiber.Ctx) {
	c.ClearCookie(BrandCookie)
}
