package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfarias-dev/puntoventa-backend/pkg/db/models"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
)

// SaleSummaryDTO is the list-view shape for a completed sale.
type SaleSummaryDTO struct {
	ID            uuid.UUID           `json:"id"`
	SaleDate      time.Time           `json:"sale_date"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	SellerID      *uuid.UUID          `json:"seller_id,omitempty"`
	LineCount     int                 `json:"line_count"`
}

// SaleLineDTO is one product line on a sale detail.
type SaleLineDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleDetailDTO is the full view of a sale with its lines.
type SaleDetailDTO struct {
	ID            uuid.UUID           `json:"id"`
	SaleDate      time.Time           `json:"sale_date"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	SellerID      *uuid.UUID          `json:"seller_id,omitempty"`
	Lines         []SaleLineDTO       `json:"lines"`
}

// SaleListResult is one page of sales plus the cursor for the next page.
type SaleListResult struct {
	Items      []SaleSummaryDTO `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// SummaryFromModel maps a sale row onto its list-view DTO.
func SummaryFromModel(s *models.Sale) SaleSummaryDTO {
	return SaleSummaryDTO{
		ID:            s.ID,
		SaleDate:      s.SaleDate,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		SellerID:      s.SellerID,
		LineCount:     len(s.Lines),
	}
}

func detailFromModel(s *models.Sale) *SaleDetailDTO {
	if s == nil {
		return nil
	}
	lines := make([]SaleLineDTO, 0, len(s.Lines))
	for _, line := range s.Lines {
		dto := SaleLineDTO{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		}
		if line.Product != nil {
			dto.ProductName = line.Product.Name
		}
		lines = append(lines, dto)
	}
	return &SaleDetailDTO{
		ID:            s.ID,
		SaleDate:      s.SaleDate,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		SellerID:      s.SellerID,
		Lines:         lines,
	}
}
