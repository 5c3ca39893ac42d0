package posts

import (
	"context"
	"fmt"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/helpers"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/middleware"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/counts"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/feed"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/notifications"
	"github.com/OnyeDev-hub/Reel-Nija/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CreatePostHandler runs the authoring pipeline: validate the request,
// upload the media blob under the owner's path, then create the Post row.
// The blob write always comes first; a Post must never reference unwritten
// media.
func CreatePostHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	mediaKind := c.FormValue("media_kind")
	caption := c.FormValue("caption")
	location := c.FormValue("location")

	if err := ValidateInput(mediaKind, caption, location); err != nil {
		return helpers.HandleAppError(c, "Invalid post", err)
	}

	media, err := c.FormFile("media")
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing media file", err)
	}

	// Owner-partitioned object path keeps the bucket's write isolation
	// aligned with post ownership.
	storagePath := fmt.Sprintf("%s/%s-%s", actor.ID, uuid.New(), media.Filename)
	path, mediaURL, _, err := utils.UploadToSupabaseStorage(media, storagePath)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadGateway, "Failed to upload media", err)
	}

	post, err := Create(database.DB, actor.ID, CreateInput{
		MediaURL:         mediaURL,
		MediaStoragePath: path,
		MediaKind:        mediaKind,
		Caption:          caption,
		Location:         location,
	})
	if err != nil {
		return helpers.HandleAppError(c, "Failed to create post", err)
	}

	NotifyMentions(database.DB, actor.ID, post.ID, post.Caption)

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Post created successfully", post)
}

func GetPostHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	post, err := feed.Get(database.DB, actor.ID, postID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch post", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Post fetched successfully", post)
}

func UpdatePostHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	var body struct {
		Caption  *string `json:"caption"`
		Location *string `json:"location"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	post, err := Update(database.DB, actor.ID, postID, UpdateInput{Caption: body.Caption, Location: body.Location})
	if err != nil {
		return helpers.HandleAppError(c, "Failed to update post", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Post updated successfully", post)
}

func DeletePostHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	post, err := Delete(database.DB, actor.ID, actor.Role, postID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to delete post", err)
	}

	// Blob cleanup is best effort; the row is already gone.
	if post.MediaStoragePath != "" {
		if err := utils.DeleteFromSupabaseStorage(post.MediaStoragePath); err != nil {
			log.WithField("path", post.MediaStoragePath).Warnf("blob cleanup failed, orphan left for sweep: %v", err)
		}
	}
	counts.Default.InvalidatePost(context.Background(), postID)

	return helpers.HandleSuccess(c, fiber.StatusOK, "Post deleted successfully", fiber.Map{"id": post.ID})
}

func CreateCommentHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	var body struct {
		Body string `json:"body" validate:"required"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	comment, ownerID, err := CreateComment(database.DB, actor.ID, postID, body.Body)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to create comment", err)
	}

	counts.Default.InvalidatePost(context.Background(), postID)
	notifications.Default.Dispatch(notifications.CommentEvent(ownerID, actor.ID, postID, comment.ID))
	NotifyMentions(database.DB, actor.ID, postID, comment.Body)

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Comment created successfully", comment)
}

func CommentsHandler(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post_id format", err)
	}

	rows, err := Comments(database.DB, postID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch comments", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Comments fetched successfully", rows)
}

func DeleteCommentHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	commentID, err := uuid.Parse(c.Params("comment_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid comment_id format", err)
	}

	if err := DeleteComment(database.DB, actor.ID, actor.Role, commentID); err != nil {
		return helpers.HandleAppError(c, "Failed to delete comment", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Comment deleted successfully", nil)
}
