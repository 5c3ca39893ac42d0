package authentication

import (
	"strings"
	"time"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/config"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/helpers"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// issueJwtToken generates a JWT token for authenticated users. The subject
// is the auth id, which Protected() resolves back to the profile row.
func issueJwtToken(authID string, username string, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   authID,
		"name":  username,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secretKey := config.Config("JWT_SECRET")
	return token.SignedString([]byte(secretKey))
}

// DefaultUsername derives the initial username from a fragment of the
// identifier, the way signup seeds a profile before the user picks a handle.
func DefaultUsername(id uuid.UUID) string {
	return "user_" + strings.ReplaceAll(id.String(), "-", "")[:12]
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignUp registers a new account. Signup seeds the profile row with a
// derived default username and the `user` role.
func SignUp(c *fiber.Ctx) error {
	db := database.DB

	body := new(signUpRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid signup details", err)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	authID := uuid.New()
	user := models.User{
		ID:       uuid.New(),
		AuthID:   authID,
		Username: DefaultUsername(authID),
		Email:    strings.ToLower(body.Email),
		Password: string(hashedPwd),
		Role:     models.RoleUser,
	}

	if err := db.Create(&user).Error; err != nil {
		return helpers.HandleAppError(c, "Failed to create user account", apperrors.FromStore(err))
	}

	token, err := issueJwtToken(user.AuthID.String(), user.Username, user.Email)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Account created successfully", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// SignIn handles user authentication.
func SignIn(c *fiber.Ctx) error {
	db := database.DB

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	user := new(models.User)
	if result := db.Where("email = ?", strings.ToLower(body.Email)).First(user); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid login credentials", result.Error)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid login credentials", err)
	}

	token, err := issueJwtToken(user.AuthID.String(), user.Username, user.Email)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Sign-in successful", fiber.Map{"token": token})
}
