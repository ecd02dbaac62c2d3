package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable inventory item. Quantity is the live stock on hand
// and must never go negative; checkout decrements it conditionally.
type Product struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	CategoryID *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Category   *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Quantity   int             `gorm:"column:quantity;not null;default:0"`
	MinStock   int             `gorm:"column:min_stock;not null;default:0"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive   bool            `gorm:"column:is_active;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
