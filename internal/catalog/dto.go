package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfarias-dev/puntoventa-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for a product category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductDTO is the transport shape for a catalog product.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName *string         `json:"category_name,omitempty"`
	Quantity     int             `json:"quantity"`
	MinStock     int             `json:"min_stock"`
	Price        decimal.Decimal `json:"price"`
	IsActive     bool            `json:"is_active"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name       string
	CategoryID *uuid.UUID
	Quantity   int
	MinStock   int
	Price      decimal.Decimal
	IsActive   *bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name       *string
	CategoryID *uuid.UUID
	Quantity   *int
	MinStock   *int
	Price      *decimal.Decimal
	IsActive   *bool
}

// ListProductsInput captures the catalog listing filters.
type ListProductsInput struct {
	Search     string
	CategoryID *uuid.UUID
	ActiveOnly bool
	LowStock   bool
}

func categoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func productFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		Quantity:   p.Quantity,
		MinStock:   p.MinStock,
		Price:      p.Price,
		IsActive:   p.IsActive,
		LowStock:   p.Quantity <= p.MinStock,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Category != nil && p.Category.Name != "" {
		name := p.Category.Name
		dto.CategoryName = &name
	}
	return dto
}
