package models

import "time"

type User struct {
	ID             int64     `json:"id" example:"1"`
	Email          string    `json:"email" example:"jan.kowalski@example.com"`
	FullName       *string   `json:"full_name,omitempty" example:"Jan Kowalski"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	Disabled       bool      `json:"disabled"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
}
