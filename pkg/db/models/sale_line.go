package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine is one product entry belonging to exactly one sale. UnitPrice is
// the price frozen in the cart at sale time, not the live product price.
type SaleLine struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
}
