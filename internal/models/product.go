package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultExpiryThresholdDays is the look-ahead window used when flagging
// products as expiring soon on response views.
const DefaultExpiryThresholdDays = 7

// Product represents a tracked item in the warehouse inventory.
type Product struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name            string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Description     string          `json:"description,omitempty" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	SKU             string          `json:"sku" gorm:"column:sku;type:varchar(50);uniqueIndex;not null" validate:"required,min=3,max=50"`
	Barcode         string          `json:"barcode" gorm:"type:varchar(20);uniqueIndex;not null" validate:"required,min=8,max=20"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null" validate:"required"`
	StockQuantity   int             `json:"stock_quantity" gorm:"not null" validate:"gte=0"`
	MinStockLevel   int             `json:"min_stock_level" gorm:"not null" validate:"gte=0"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty" gorm:"type:date"`
	IsPerishable    bool            `json:"is_perishable" gorm:"not null;default:false"`
	StorageLocation string          `json:"storage_location,omitempty" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	CategoryID      *string         `json:"category_id,omitempty" gorm:"type:varchar(36)"`
	SupplierID      *string         `json:"supplier_id,omitempty" gorm:"type:varchar(36)"`
	Category        *Category       `json:"-" gorm:"foreignKey:CategoryID"`
	Supplier        *Supplier       `json:"-" gorm:"foreignKey:SupplierID"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// ProductInput carries the payload for creating or fully replacing a product.
type ProductInput struct {
	Name            string          `json:"name" validate:"required,min=2,max=100"`
	Description     string          `json:"description" validate:"omitempty,max=500"`
	SKU             string          `json:"sku" validate:"required,min=3,max=50"`
	Barcode         string          `json:"barcode" validate:"required,min=8,max=20"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	StockQuantity   int             `json:"stock_quantity" validate:"gte=0"`
	MinStockLevel   int             `json:"min_stock_level" validate:"gte=0"`
	ExpirationDate  *time.Time      `json:"expiration_date"`
	IsPerishable    bool            `json:"is_perishable"`
	StorageLocation string          `json:"storage_location" validate:"omitempty,max=100"`
	CategoryID      *string         `json:"category_id" validate:"omitempty,uuid"`
	SupplierID      *string         `json:"supplier_id" validate:"omitempty,uuid"`
}

// ProductResponse is the outward view of a product. The category and
// supplier names are flattened in and the three status flags are computed
// from the current fields and the current date, never stored.
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	SKU             string          `json:"sku"`
	Barcode         string          `json:"barcode"`
	Price           decimal.Decimal `json:"price"`
	StockQuantity   int             `json:"stock_quantity"`
	MinStockLevel   int             `json:"min_stock_level"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	IsPerishable    bool            `json:"is_perishable"`
	StorageLocation string          `json:"storage_location,omitempty"`
	CategoryName    string          `json:"category_name,omitempty"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	IsLowStock      bool            `json:"is_low_stock"`
	IsExpired       bool            `json:"is_expired"`
	IsExpiringSoon  bool            `json:"is_expiring_soon"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsLowStock reports whether the stock on hand is at or below the minimum
// level. Equality counts as low.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// IsExpired reports whether the expiration date lies strictly before today.
// A product expiring today is not yet expired.
func (p *Product) IsExpired() bool {
	if p.ExpirationDate == nil {
		return false
	}
	return DateOnly(*p.ExpirationDate).Before(DateOnly(time.Now()))
}

// IsExpiringSoon reports whether the expiration date lies strictly before
// today plus thresholdDays. A product expiring exactly thresholdDays from
// now is not flagged; an already expired product is.
func (p *Product) IsExpiringSoon(thresholdDays int) bool {
	if p.ExpirationDate == nil {
		return false
	}
	cutoff := DateOnly(time.Now()).AddDate(0, 0, thresholdDays)
	return DateOnly(*p.ExpirationDate).Before(cutoff)
}

// ToResponse converts the product into its response view, flattening the
// resolved category/supplier names and evaluating the status flags with the
// default expiry threshold.
func (p *Product) ToResponse() ProductResponse {
	resp := ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		SKU:             p.SKU,
		Barcode:         p.Barcode,
		Price:           p.Price,
		StockQuantity:   p.StockQuantity,
		MinStockLevel:   p.MinStockLevel,
		ExpirationDate:  p.ExpirationDate,
		IsPerishable:    p.IsPerishable,
		StorageLocation: p.StorageLocation,
		IsLowStock:      p.IsLowStock(),
		IsExpired:       p.IsExpired(),
		IsExpiringSoon:  p.IsExpiringSoon(DefaultExpiryThresholdDays),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	return resp
}

// DateOnly truncates a timestamp to its calendar date in UTC so that
// expiration comparisons ignore the time of day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
