package router

import (
	"fmt"
	"sort"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/middleware"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/authentication"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/counts"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/feed"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/interactions"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/notifications"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/posts"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func InitialiseAndSetupRoutes(app *fiber.App) {
	root := app.Group("/", logger.New())

	root.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	apiV1 := root.Group("/api/v1")
	setupAPIV1Routes(apiV1)

	routes := app.GetRoutes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	for _, route := range routes {
		fmt.Printf("%s\t%s\n", route.Method, route.Path)
	}
}

func setupAPIV1Routes(router fiber.Router) {
	// Grouped API endpoints
	authGroup := router.Group("/auth")
	userGroup := router.Group("/users")
	postGroup := router.Group("/posts")
	feedGroup := router.Group("/feed")
	notificationGroup := router.Group("/notifications")

	// Authentication routes
	authGroup.Post("/signup", authentication.SignUp)
	authGroup.Post("/signin", authentication.SignIn)

	// User routes
	userGroup.Get("/profile", middleware.Protected(), users.GetProfile)
	userGroup.Get("/profile/:username", middleware.Protected(), users.GetProfileByUsername)
	userGroup.Put("/profile", middleware.Protected(), users.UpdateProfile)
	userGroup.Post("/avatar", middleware.Protected(), users.UploadAvatar)
	userGroup.Post("/follow", middleware.Protected(), interactions.ToggleFollowHandler)
	userGroup.Get("/follow-status", middleware.Protected(), interactions.FollowStatusHandler)
	userGroup.Get("/:user_id/counts", middleware.Protected(), counts.UserCountsHandler)

	// Post routes
	postGroup.Post("/", middleware.Protected(), posts.CreatePostHandler)
	postGroup.Get("/:post_id", middleware.Protected(), posts.GetPostHandler)
	postGroup.Patch("/:post_id", middleware.Protected(), posts.UpdatePostHandler)
	postGroup.Delete("/:post_id", middleware.Protected(), posts.DeletePostHandler)
	postGroup.Post("/:post_id/like", middleware.Protected(), interactions.ToggleLikeHandler)
	postGroup.Post("/:post_id/save", middleware.Protected(), interactions.ToggleSaveHandler)
	postGroup.Post("/:post_id/comments", middleware.Protected(), posts.CreateCommentHandler)
	postGroup.Get("/:post_id/comments", middleware.Protected(), posts.CommentsHandler)
	postGroup.Delete("/comments/:comment_id", middleware.Protected(), posts.DeleteCommentHandler)
	postGroup.Get("/:post_id/counts", middleware.Protected(), counts.PostCountsHandler)

	// Feed routes
	feedGroup.Get("/home", middleware.Protected(), feed.HomeHandler)
	feedGroup.Get("/explore", middleware.Protected(), feed.ExploreHandler)
	feedGroup.Get("/profile/:user_id", middleware.Protected(), feed.ProfileHandler)
	feedGroup.Get("/saved", middleware.Protected(), feed.SavedHandler)

	// Notification routes
	notificationGroup.Get("/", middleware.Protected(), notifications.ListHandler)
	notificationGroup.Post("/read-all", middleware.Protected(), notifications.MarkAllReadHandler)
}
