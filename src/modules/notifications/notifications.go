package notifications

import (
	"context"
	"strconv"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/helpers"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/middleware"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultListLimit = 50

// List returns a recipient's notifications, newest first, optionally
// filtered to unread. Same-timestamp rows fall back to the dispatch
// sequence, so a recipient always sees events in the order they fanned out.
func List(db *gorm.DB, recipientID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	q := db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var rows []models.Notification
	err := apperrors.Retry(context.Background(), func() error {
		rows = rows[:0]
		if ferr := q.Order("created_at DESC, seq DESC").Limit(limit).Find(&rows).Error; ferr != nil {
			return apperrors.FromStore(ferr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkAllRead flips every unread notification for the recipient in one
// batch and reports how many rows changed. Calling it again is a no-op that
// reports zero.
func MarkAllRead(db *gorm.DB, recipientID uuid.UUID) (int64, error) {
	var affected int64
	err := apperrors.Retry(context.Background(), func() error {
		res := db.Model(&models.Notification{}).
			Where("recipient_id = ? AND is_read = ?", recipientID, false).
			Update("is_read", true)
		if res.Error != nil {
			return apperrors.FromStore(res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// ListHandler serves GET /notifications. Rows are scoped to the
// authenticated recipient; nobody can read another user's notifications.
func ListHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := List(database.DB, actor.ID, unreadOnly, limit)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to fetch notifications", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Notifications fetched successfully", rows)
}

// MarkAllReadHandler serves POST /notifications/read-all.
func MarkAllReadHandler(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to resolve user", err)
	}

	affected, err := MarkAllRead(database.DB, actor.ID)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to mark notifications read", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Notifications marked read", fiber.Map{
		"updated": affected,
	})
}
