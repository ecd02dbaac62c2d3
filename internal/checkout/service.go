package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mfarias-dev/puntoventa-backend/internal/catalog"
	"github.com/mfarias-dev/puntoventa-backend/internal/pos"
	"github.com/mfarias-dev/puntoventa-backend/internal/sales"
	"github.com/mfarias-dev/puntoventa-backend/pkg/db/models"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartProvider interface {
	Get(sellerID uuid.UUID) pos.Snapshot
	Clear(sellerID uuid.UUID)
}

// Input captures one checkout request.
type Input struct {
	SellerID       uuid.UUID
	PaymentMethod  enums.PaymentMethod
	AmountTendered *decimal.Decimal
}

// Result describes the committed sale returned to the register.
type Result struct {
	SaleID        uuid.UUID           `json:"sale_id"`
	SaleDate      time.Time           `json:"sale_date"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Change        decimal.Decimal     `json:"change"`
	Lines         []pos.Line          `json:"lines"`
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	tx          txRunner
	carts       cartProvider
	catalogRepo *catalog.Repository
	salesRepo   *sales.Repository
}

// NewService builds the checkout service.
func NewService(tx txRunner, carts cartProvider, catalogRepo *catalog.Repository, salesRepo *sales.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if salesRepo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{
		tx:          tx,
		carts:       carts,
		catalogRepo: catalogRepo,
		salesRepo:   salesRepo,
	}, nil
}

// Execute validates the operator's cart and commits the sale. The sale
// header, its lines, and every stock decrement happen inside one database
// transaction: either the whole sale lands or nothing does.
func (s *service) Execute(ctx context.Context, input Input) (*Result, error) {
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}

	snapshot := s.carts.Get(input.SellerID)
	if len(snapshot.Lines) == 0 || !snapshot.Total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	change := decimal.Zero
	if input.PaymentMethod == enums.PaymentMethodCash {
		if input.AmountTendered == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount tendered is required for cash payments")
		}
		if !input.AmountTendered.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount tendered must be positive")
		}
		if input.AmountTendered.LessThan(snapshot.Total) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount tendered is less than the total").
				WithDetails(map[string]any{
					"total":    snapshot.Total.String(),
					"tendered": input.AmountTendered.String(),
				})
		}
		change = input.AmountTendered.Sub(snapshot.Total)
	}

	sellerID := input.SellerID
	sale := &models.Sale{
		TotalAmount:   snapshot.Total,
		PaymentMethod: input.PaymentMethod,
		SellerID:      &sellerID,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)

		if err := s.checkStock(ctx, catalogRepo, snapshot.Lines); err != nil {
			return err
		}

		for _, line := range snapshot.Lines {
			sale.Lines = append(sale.Lines, models.SaleLine{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}
		if _, err := s.salesRepo.WithTx(tx).CreateSale(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record sale")
		}

		// The precheck above reads a snapshot; this guard is what actually
		// prevents overselling under concurrent checkouts.
		for _, line := range snapshot.Lines {
			ok, err := catalogRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("not enough stock for %s", line.Name)).
					WithDetails(map[string]any{
						"product_id": line.ProductID.String(),
						"product":    line.Name,
						"requested":  line.Quantity,
					})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Only a committed sale clears the register.
	s.carts.Clear(input.SellerID)

	return &Result{
		SaleID:        sale.ID,
		SaleDate:      sale.SaleDate,
		Total:         snapshot.Total,
		PaymentMethod: input.PaymentMethod,
		Change:        change,
		Lines:         snapshot.Lines,
	}, nil
}

// checkStock verifies every cart line against live inventory and reports all
// shortages at once so the operator can fix the cart in one pass.
func (s *service) checkStock(ctx context.Context, repo *catalog.Repository, lines []pos.Line) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	var shortages []map[string]any
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s is no longer available", line.Name)).
				WithDetails(map[string]any{"product_id": line.ProductID.String()})
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s is no longer available", product.Name)).
				WithDetails(map[string]any{"product_id": line.ProductID.String()})
		}
		if product.Quantity < line.Quantity {
			shortages = append(shortages, map[string]any{
				"product_id": product.ID.String(),
				"product":    product.Name,
				"available":  product.Quantity,
				"requested":  line.Quantity,
			})
		}
	}
	if len(shortages) > 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"items": shortages})
	}
	return nil
}
