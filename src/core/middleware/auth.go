package middleware

import (
	"errors"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/config"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/helpers"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Protected middleware for validating JWT tokens
func Protected() fiber.Handler {
	jwtSecret := config.Config("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET is not set in the environment variables") // Panic to prevent startup
	}

	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(jwtSecret)},
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			// Extract user claims and attach auth_id to the context
			user := c.Locals("user").(*jwt.Token)
			claims := user.Claims.(jwt.MapClaims)
			if authID, ok := claims["sub"].(string); ok {
				c.Locals("auth_id", authID)
				return c.Next()
			}
			return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
		},
	})
}

// CurrentUser resolves the authenticated actor from the token's auth_id to
// the profile row. Every mutating operation goes through this so the actor
// is always an explicit parameter further down.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	authID, ok := c.Locals("auth_id").(string)
	if !ok || authID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var user models.User
	err := database.DB.Where("auth_id = ?", authID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &user, nil
}

// jwtError handles JWT-related errors
func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or malformed JWT", err)
	}
	return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired JWT", err)
}
