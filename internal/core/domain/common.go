package domain

import "time"

// Timestamps holds the store-managed creation and update times of a record.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
