package models

import (
	"time"
)

// User is a credential holder. PlayerID is only meaningful for RolePlayer.
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Name        string     `json:"name" db:"name" example:"Amine Tazi"`
	Email       string     `json:"email" db:"email" example:"amine@example.com"`
	Password    string     `json:"-" db:"password"`
	RoleType    RoleType   `json:"role" db:"role" example:"player"`
	PlayerID    *int64     `json:"playerId,omitempty" db:"player_id" example:"7"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}
