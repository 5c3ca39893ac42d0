package users

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/helpers"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/middleware"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/counts"
	"github.com/OnyeDev-hub/Reel-Nija/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// profileResponse is a user plus their follow counters, aggregated from the
// ledger at read time.
type profileResponse struct {
	models.User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	PostsCount     int64 `json:"posts_count"`
}

func buildProfile(c *fiber.Ctx, db *gorm.DB, user *models.User) (*profileResponse, error) {
	ctx := c.Context()
	followers, err := counts.Default.Followers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := counts.Default.Following(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var postCount int64
	err = apperrors.Retry(ctx, func() error {
		if cerr := db.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&postCount).Error; cerr != nil {
			return apperrors.FromStore(cerr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &profileResponse{
		User:           *user,
		FollowersCount: followers,
		FollowingCount: following,
		PostsCount:     postCount,
	}, nil
}

// GetProfile returns the authenticated user's own profile.
func GetProfile(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	profile, err := buildProfile(c, database.DB, actor)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch profile", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "User profile retrieved successfully", profile)
}

// GetProfileByUsername returns any user's public profile.
func GetProfileByUsername(c *fiber.Ctx) error {
	db := database.DB

	var user models.User
	if err := db.Where("username = ?", c.Params("username")).First(&user).Error; err != nil {
		return helpers.HandleAppError(c, "User not found", apperrors.FromStore(err))
	}

	profile, err := buildProfile(c, db, &user)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch profile", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "User profile retrieved successfully", profile)
}

// UpdateProfile edits the mutable profile fields. Only the owning user ever
// reaches this point; username uniqueness is enforced by the store.
func UpdateProfile(c *fiber.Ctx) error {
	db := database.DB
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	var body struct {
		Username    *string `json:"username"`
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		Website     *string `json:"website"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	updates := map[string]interface{}{}
	if body.Username != nil {
		username := strings.TrimSpace(*body.Username)
		if !validUsername(username) {
			return helpers.HandleAppError(c, "Invalid username",
				fmt.Errorf("%w: username must be %d-%d characters", apperrors.ErrValidationFailed, models.UsernameMinLen, models.UsernameMaxLen))
		}
		updates["username"] = username
	}
	if body.DisplayName != nil {
		updates["display_name"] = *body.DisplayName
	}
	if body.Bio != nil {
		updates["bio"] = *body.Bio
	}
	if body.Website != nil {
		updates["website"] = *body.Website
	}

	if len(updates) > 0 {
		if err := db.Model(actor).Updates(updates).Error; err != nil {
			return helpers.HandleAppError(c, "Failed to update profile", apperrors.FromStore(err))
		}
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Profile updated successfully", actor)
}

// validUsername counts characters, not bytes, so multibyte usernames get
// the full allowance.
func validUsername(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= models.UsernameMinLen && n <= models.UsernameMaxLen
}

// avatarObjectPath picks where the avatar blob lives. A user who already
// has an avatar keeps their storage path so the old blob is replaced in
// place instead of leaking; a first upload gets an owner-partitioned path.
func avatarObjectPath(actor *models.User, filename string) (string, bool) {
	if actor.AvatarStoragePath != "" {
		return actor.AvatarStoragePath, true
	}
	return fmt.Sprintf("%s/avatar-%s-%s", actor.ID, uuid.New(), filename), false
}

// UploadAvatar replaces the user's avatar through the same
// blob-then-record pipeline posts use.
func UploadAvatar(c *fiber.Ctx) error {
	db := database.DB
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing avatar file", err)
	}

	storagePath, replace := avatarObjectPath(actor, file.Filename)
	var avatarURL string
	if replace {
		_, avatarURL, _, err = utils.UpdateToSupabaseStorage(file, storagePath)
	} else {
		storagePath, avatarURL, _, err = utils.UploadToSupabaseStorage(file, storagePath)
	}
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadGateway, "Failed to upload avatar", err)
	}

	if err := db.Model(actor).Updates(map[string]interface{}{
		"avatar_url":          avatarURL,
		"avatar_storage_path": storagePath,
	}).Error; err != nil {
		return helpers.HandleAppError(c, "Failed to update avatar", apperrors.FromStore(err))
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Avatar updated successfully", fiber.Map{
		"avatar_url": avatarURL,
	})
}
