package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfarias-dev/puntoventa-backend/pkg/db/models"
	"github.com/mfarias-dev/puntoventa-backend/pkg/pagination"
)

// Repository exposes sale persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateSale inserts the sale header and its lines in one statement batch.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	for i := range sale.Lines {
		if sale.Lines[i].ID == uuid.Nil {
			sale.Lines[i].ID = uuid.New()
		}
		sale.Lines[i].SaleID = sale.ID
	}
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// ListQuery captures the filters for the sales history listing.
type ListQuery struct {
	Limit  int
	Cursor *pagination.Cursor
	From   *time.Time
	To     *time.Time
}

// List returns sales newest-first using cursor pagination.
func (r *Repository) List(ctx context.Context, params ListQuery) ([]models.Sale, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Sale{}).Preload("Lines")

	if params.From != nil {
		query = query.Where("sale_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("sale_date < ?", *params.To)
	}
	if params.Cursor != nil {
		query = query.Where(
			"sale_date < ? OR (sale_date = ? AND id < ?)",
			params.Cursor.Timestamp, params.Cursor.Timestamp, params.Cursor.ID,
		)
	}

	var sales []models.Sale
	if err := query.Order("sale_date DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&sales).Error; err != nil {
		return nil, nil, err
	}

	if len(sales) > limit {
		sales = sales[:limit]
		last := sales[limit-1]
		return sales, &pagination.Cursor{
			Timestamp: last.SaleDate,
			ID:        last.ID,
		}, nil
	}

	return sales, nil, nil
}

// FindByID loads the sale with its lines and each line's product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Product").
		First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// SumBetween aggregates revenue and count for sales in [from, to).
func (r *Repository) SumBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	if err := r.db.WithContext(ctx).
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Recent returns the most recent sales up to limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]models.Sale, error) {
	var sales []models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Order("sale_date DESC, id DESC").
		Limit(limit).
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
