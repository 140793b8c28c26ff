package projects

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("project not found")

// Project pairs an uploaded product image with its processed derivative and
// the generated copy. Image fields hold server-relative paths until the HTTP
// layer rewrites them to absolute URLs.
type Project struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	OriginalImage  *string   `json:"original_image"`
	ProcessedImage *string   `json:"processed_image"`
	AITitle        *string   `json:"ai_title"`
	AIDescription  *string   `json:"ai_description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateParams carries the mutable fields; nil means "leave unchanged".
type UpdateParams struct {
	Name          *string
	AITitle       *string
	AIDescription *string
}
