package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is one edge of the interaction ledger. The composite unique index is
// what linearizes concurrent toggles for the same (user, post) pair.
type Like struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
