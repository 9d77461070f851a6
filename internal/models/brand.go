package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is a product or company a user promotes through Plum.
type Brand struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Website     string    `json:"website"`
	Description string    `json:"description"`
	Industry    string    `json:"industry"`
	Tone        string    `json:"tone"` // voice used for generated replies
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
