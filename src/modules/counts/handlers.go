package counts

import (
	"github.com/OnyeDev-hub/Reel-Nija/src/core/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PostCountsHandler serves GET /posts/:post_id/counts.
func PostCountsHandler(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	ctx := c.Context()
	likes, err := Default.Likes(ctx, postID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to count likes", err)
	}
	comments, err := Default.Comments(ctx, postID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to count comments", err)
	}
	saves, err := Default.Saves(ctx, postID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to count saves", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Counts retrieved", fiber.Map{
		"likes_count":    likes,
		"comments_count": comments,
		"saves_count":    saves,
	})
}

// UserCountsHandler serves GET /users/:user_id/counts.
func UserCountsHandler(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user_id format", err)
	}

	ctx := c.Context()
	followers, err := Default.Followers(ctx, userID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to count followers", err)
	}
	following, err := Default.Following(ctx, userID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to count following", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Counts retrieved", fiber.Map{
		"followers_count": followers,
		"following_count": following,
	})
}
