package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UsernameMinLen = 3
	UsernameMaxLen = 30
)

type User struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	AuthID            uuid.UUID `gorm:"column:auth_id;type:uuid;unique" json:"auth_id"`
	Username          string    `gorm:"column:username;type:text;unique;not null" json:"username"`
	DisplayName       string    `gorm:"column:display_name;type:text;not null;default:''" json:"display_name"`
	Bio               string    `gorm:"column:bio;type:text;not null;default:''" json:"bio"`
	Website           string    `gorm:"column:website;type:text;not null;default:''" json:"website"`
	AvatarURL         string    `gorm:"column:avatar_url;type:text;not null;default:''" json:"avatar_url"`
	AvatarStoragePath string    `gorm:"column:avatar_storage_path;type:text;not null;default:''" json:"-"`
	Email             string    `gorm:"column:email;type:text;unique;not null" json:"email"`
	Password          string    `gorm:"column:password;type:text;not null" json:"-"`
	Role              string    `gorm:"column:role;type:text;not null;default:'user'" json:"role"`
	CreatedAt         time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
