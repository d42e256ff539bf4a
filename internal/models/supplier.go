package models

import "time"

// Supplier represents a vendor that products can be sourced from. The email
// is optional but unique when present.
type Supplier struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Email         *string   `json:"email,omitempty" gorm:"type:varchar(255);uniqueIndex" validate:"omitempty,email"`
	Phone         string    `json:"phone,omitempty" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Address       string    `json:"address,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	ContactPerson string    `json:"contact_person,omitempty" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SupplierInput carries the payload for creating or updating a supplier.
type SupplierInput struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone" validate:"omitempty,max=50"`
	Address       string  `json:"address" validate:"omitempty,max=255"`
	ContactPerson string  `json:"contact_person" validate:"omitempty,max=100"`
}
