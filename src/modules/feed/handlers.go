package feed

import (
	"strconv"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/helpers"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/metrics"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func HomeHandler(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}
	metrics.FeedRequestsTotal.WithLabelValues("home").Inc()

	limit, _ := strconv.Atoi(c.Query("limit"))
	posts, next, err := Home(database.DB, viewer.ID, limit, c.Query("cursor"))
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch feed", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Feed fetched successfully", fiber.Map{
		"posts":  posts,
		"cursor": next,
	})
}

func ExploreHandler(c *fiber.Ctx) error {
	metrics.FeedRequestsTotal.WithLabelValues("explore").Inc()

	limit, _ := strconv.Atoi(c.Query("limit"))
	posts, next, err := Explore(database.DB, limit, c.Query("cursor"))
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch explore feed", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Explore feed fetched successfully", fiber.Map{
		"posts":  posts,
		"cursor": next,
	})
}

func ProfileHandler(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}
	metrics.FeedRequestsTotal.WithLabelValues("profile").Inc()

	ownerID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user_id format", err)
	}

	posts, err := Profile(database.DB, viewer.ID, ownerID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch profile grid", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Profile grid fetched successfully", posts)
}

func SavedHandler(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}
	metrics.FeedRequestsTotal.WithLabelValues("saved").Inc()

	posts, err := Saved(database.DB, viewer.ID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch saved grid", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Saved grid fetched successfully", posts)
}
