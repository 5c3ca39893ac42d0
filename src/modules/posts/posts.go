package posts

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/metrics"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/notifications"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateInput carries everything the authoring pipeline validates before a
// Post row is written. MediaURL/MediaStoragePath must already point at a
// durable blob: the upload happens first, in the handler, so a Post can
// never reference unwritten media.
type CreateInput struct {
	MediaURL         string
	MediaStoragePath string
	MediaKind        string
	Caption          string
	Location         string
}

// ValidateInput enforces the authoring constraints. Called before the blob
// upload so an invalid post never costs a storage write.
func ValidateInput(mediaKind, caption, location string) error {
	if mediaKind != models.MediaKindImage && mediaKind != models.MediaKindVideo {
		return fmt.Errorf("%w: media_kind must be image or video", apperrors.ErrValidationFailed)
	}
	// Limits count characters, not bytes; multibyte captions get the full
	// allowance.
	if utf8.RuneCountInString(caption) > models.CaptionMaxLen {
		return fmt.Errorf("%w: caption exceeds %d characters", apperrors.ErrValidationFailed, models.CaptionMaxLen)
	}
	if utf8.RuneCountInString(location) > models.LocationMaxLen {
		return fmt.Errorf("%w: location exceeds %d characters", apperrors.ErrValidationFailed, models.LocationMaxLen)
	}
	return nil
}

// Create persists a validated post. If the insert fails after a successful
// blob write the orphaned object is logged for out-of-band cleanup; it is
// never a correctness problem because nothing references it.
func Create(db *gorm.DB, ownerID uuid.UUID, in CreateInput) (*models.Post, error) {
	if err := ValidateInput(in.MediaKind, in.Caption, in.Location); err != nil {
		return nil, err
	}
	if in.MediaURL == "" {
		return nil, fmt.Errorf("%w: post has no media reference", apperrors.ErrUploadIncomplete)
	}

	post := models.Post{
		ID:               uuid.New(),
		UserID:           ownerID,
		MediaURL:         in.MediaURL,
		MediaStoragePath: in.MediaStoragePath,
		MediaKind:        in.MediaKind,
		Caption:          in.Caption,
		Location:         strings.TrimSpace(in.Location),
	}
	err := apperrors.Retry(context.Background(), func() error {
		if cerr := db.Create(&post).Error; cerr != nil {
			return apperrors.FromStore(cerr)
		}
		return nil
	})
	if err != nil {
		if in.MediaStoragePath != "" {
			log.WithField("path", in.MediaStoragePath).Warn("post insert failed, blob orphaned for cleanup")
		}
		return nil, err
	}

	metrics.PostsCreatedTotal.Inc()
	return &post, nil
}

// UpdateInput holds the only mutable fields of a post.
type UpdateInput struct {
	Caption  *string
	Location *string
}

// Update edits caption/location. Owner only; everything else on a post is
// immutable.
func Update(db *gorm.DB, actorID, postID uuid.UUID, in UpdateInput) (*models.Post, error) {
	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	if post.UserID != actorID {
		return nil, apperrors.ErrUnauthorized
	}

	updates := map[string]interface{}{}
	if in.Caption != nil {
		if utf8.RuneCountInString(*in.Caption) > models.CaptionMaxLen {
			return nil, fmt.Errorf("%w: caption exceeds %d characters", apperrors.ErrValidationFailed, models.CaptionMaxLen)
		}
		updates["caption"] = *in.Caption
	}
	if in.Location != nil {
		if utf8.RuneCountInString(*in.Location) > models.LocationMaxLen {
			return nil, fmt.Errorf("%w: location exceeds %d characters", apperrors.ErrValidationFailed, models.LocationMaxLen)
		}
		updates["location"] = strings.TrimSpace(*in.Location)
	}
	if len(updates) == 0 {
		return &post, nil
	}

	if err := db.Model(&post).Updates(updates).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &post, nil
}

// Delete removes a post. Allowed for the owner, or for an admin acting on
// anyone's post. Dependent ledger rows go with it in the same transaction.
func Delete(db *gorm.DB, actorID uuid.UUID, actorRole string, postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	if post.UserID != actorID && actorRole != models.RoleAdmin {
		return nil, apperrors.ErrUnauthorized
	}

	// The cascade is one transaction; a transient failure rolls all of it
	// back, so the retry re-runs it from scratch.
	err := apperrors.Retry(context.Background(), func() error {
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", postID).Delete(&models.Save{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			return tx.Delete(&post).Error
		})
		return apperrors.FromStore(txErr)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateComment adds a comment to an existing post and returns it together
// with the post owner (the fan-out recipient).
func CreateComment(db *gorm.DB, actorID, postID uuid.UUID, body string) (*models.Comment, uuid.UUID, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, uuid.Nil, fmt.Errorf("%w: comment body is empty", apperrors.ErrValidationFailed)
	}
	if utf8.RuneCountInString(body) > models.CommentMaxLen {
		return nil, uuid.Nil, fmt.Errorf("%w: comment exceeds %d characters", apperrors.ErrValidationFailed, models.CommentMaxLen)
	}

	var post models.Post
	if err := db.Select("id", "user_id").First(&post, "id = ?", postID).Error; err != nil {
		return nil, uuid.Nil, apperrors.FromStore(err)
	}

	comment := models.Comment{
		ID:     uuid.New(),
		PostID: postID,
		UserID: actorID,
		Body:   body,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, uuid.Nil, apperrors.FromStore(err)
	}
	return &comment, post.UserID, nil
}

// Comments lists a post's comments oldest first.
func Comments(db *gorm.DB, postID uuid.UUID) ([]models.Comment, error) {
	var post models.Post
	if err := db.Select("id").First(&post, "id = ?", postID).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}

	var rows []models.Comment
	if err := db.Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	return rows, nil
}

// mentionPattern matches @username at the start of the text or after a
// non-word character, so addresses like someone@example.com are not picked
// up as mentions.
var mentionPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_])@([A-Za-z0-9_]{3,30})`)

// Mentions extracts the distinct usernames @-referenced in text, in order
// of first appearance.
func Mentions(text string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// NotifyMentions fans out a mention notification to every user whose
// username is @-referenced in text. Unknown usernames are ignored and a
// self mention is dropped by the dispatcher; a lookup failure only costs
// the notifications, never the triggering write.
func NotifyMentions(db *gorm.DB, actorID, postID uuid.UUID, text string) {
	names := Mentions(text)
	if len(names) == 0 {
		return
	}

	var mentioned []models.User
	if err := db.Select("id").Where("username IN ?", names).Find(&mentioned).Error; err != nil {
		log.Warnf("mention lookup failed: %v", err)
		return
	}
	for _, user := range mentioned {
		notifications.Default.Dispatch(notifications.MentionEvent(user.ID, actorID, postID))
	}
}

// DeleteComment removes a comment, allowed for its author, the post owner,
// or an admin.
func DeleteComment(db *gorm.DB, actorID uuid.UUID, actorRole string, commentID uuid.UUID) error {
	var comment models.Comment
	if err := db.First(&comment, "id = ?", commentID).Error; err != nil {
		return apperrors.FromStore(err)
	}

	if comment.UserID != actorID && actorRole != models.RoleAdmin {
		var post models.Post
		if err := db.Select("user_id").First(&post, "id = ?", comment.PostID).Error; err != nil {
			return apperrors.FromStore(err)
		}
		if post.UserID != actorID {
			return apperrors.ErrUnauthorized
		}
	}

	if err := db.Delete(&comment).Error; err != nil {
		return apperrors.FromStore(err)
	}
	return nil
}
