package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
)

// Sale is the header row for one completed checkout. Rows are immutable once
// written; there is no update path.
type Sale struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SaleDate      time.Time           `gorm:"column:sale_date;not null;autoCreateTime"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	SellerID      *uuid.UUID          `gorm:"column:seller_id;type:uuid"`
	Lines         []SaleLine          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
