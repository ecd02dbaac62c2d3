package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
	"github.com/mfarias-dev/puntoventa-backend/pkg/pagination"
)

// Service exposes read access to the sales history.
type Service interface {
	ListSales(ctx context.Context, params ListParams) (*SaleListResult, error)
	GetSale(ctx context.Context, id uuid.UUID) (*SaleDetailDTO, error)
}

// ListParams captures the sales listing inputs from the API layer.
type ListParams struct {
	pagination.Params
	From *time.Time
	To   *time.Time
}

type service struct {
	repo *Repository
}

// NewService constructs a sales service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListSales(ctx context.Context, params ListParams) (*SaleListResult, error) {
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to date must not be before from date")
	}

	query := ListQuery{
		Limit: params.Limit,
		From:  params.From,
		To:    params.To,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}

	result := &SaleListResult{Items: make([]SaleSummaryDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, SummaryFromModel(&rows[i]))
	}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) GetSale(ctx context.Context, id uuid.UUID) (*SaleDetailDTO, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale")
	}
	return detailFromModel(sale), nil
}
