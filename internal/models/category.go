package models

import "time"

// Category groups products. Names are unique across all categories.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// CategoryInput carries the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}
