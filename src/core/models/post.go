package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"

	CaptionMaxLen  = 2200
	LocationMaxLen = 100
)

// Post represents a single piece of published content. Media is uploaded to
// the blob store before the row exists, so MediaURL always points at a
// durable object.
type Post struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	MediaURL         string    `gorm:"column:media_url;type:text;not null" json:"media_url"`
	MediaStoragePath string    `gorm:"column:media_storage_path;type:text;not null;default:''" json:"-"`
	MediaKind        string    `gorm:"column:media_kind;type:text;not null" json:"media_kind"`
	Caption          string    `gorm:"column:caption;type:text;not null;default:''" json:"caption"`
	Location         string    `gorm:"column:location;type:text;not null;default:''" json:"location"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
