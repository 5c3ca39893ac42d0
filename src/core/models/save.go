package models

import (
	"time"

	"github.com/google/uuid"
)

// Save is a bookmark edge, private to its owner. Same toggle semantics and
// uniqueness guarantee as Like.
type Save struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_saves_user_post" json:"user_id"`
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_saves_user_post;index" json:"post_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Save) TableName() string {
	return "saves"
}
