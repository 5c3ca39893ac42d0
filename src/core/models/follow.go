package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge in the follow graph. At most one edge per
// ordered (follower, followee) pair; follower == followee is rejected before
// the row is ever written.
type Follow struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FollowerID uuid.UUID `gorm:"column:follower_id;type:uuid;not null;uniqueIndex:idx_follows_edge" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"column:followee_id;type:uuid;not null;uniqueIndex:idx_follows_edge;index" json:"followee_id"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
