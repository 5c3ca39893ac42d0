package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationMention = "mention"
)

// Notification is only ever created as a side effect of another write (like,
// comment, follow). PostID/CommentID are set according to Kind: like and
// mention carry a post, comment carries a post and a comment, follow carries
// neither. Seq is assigned by the fan-out worker and is strictly increasing
// in dispatch order; it breaks created_at ties when listing.
type Notification struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index" json:"recipient_id"`
	ActorID     uuid.UUID  `gorm:"column:actor_id;type:uuid;not null" json:"actor_id"`
	Kind        string     `gorm:"column:kind;type:text;not null" json:"kind"`
	Seq         int64      `gorm:"column:seq;not null;index" json:"-"`
	PostID      *uuid.UUID `gorm:"column:post_id;type:uuid" json:"post_id,omitempty"`
	CommentID   *uuid.UUID `gorm:"column:comment_id;type:uuid" json:"comment_id,omitempty"`
	IsRead      bool       `gorm:"column:is_read;not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
