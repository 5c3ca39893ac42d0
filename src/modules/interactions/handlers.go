package interactions

import (
	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/helpers"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ToggleLikeHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	state, err := ToggleLike(database.DB, actor.ID, postID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to toggle like", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Like toggled", fiber.Map{"state": state})
}

func ToggleSaveHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	state, err := ToggleSave(database.DB, actor.ID, postID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to toggle save", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Save toggled", fiber.Map{"state": state})
}

func ToggleFollowHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	var input struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	followeeID, err := uuid.Parse(input.UserID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user_id format", err)
	}

	state, err := ToggleFollow(database.DB, actor.ID, followeeID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to toggle follow", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Follow toggled", fiber.Map{"state": state})
}

func FollowStatusHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	otherID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user_id format", err)
	}

	status, err := FollowStatus(database.DB, actor.ID, otherID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to check follow status", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Follow status retrieved", fiber.Map{"status": status})
}
