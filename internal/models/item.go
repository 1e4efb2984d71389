package models

import "time"

type Item struct {
	ID          int64     `json:"id" example:"123"`
	Title       string    `json:"title" example:"Notatki z projektu"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int64     `json:"owner_id" example:"1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
