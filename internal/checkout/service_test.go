package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mfarias-dev/puntoventa-backend/internal/catalog"
	"github.com/mfarias-dev/puntoventa-backend/internal/pos"
	"github.com/mfarias-dev/puntoventa-backend/internal/sales"
	"github.com/mfarias-dev/puntoventa-backend/pkg/db/models"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type fixture struct {
	conn  *gorm.DB
	carts *pos.CartStore
	svc   Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}, &models.Sale{}, &models.SaleLine{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	carts := pos.NewCartStore()
	svc, err := NewService(gormTxRunner{db: conn}, carts, catalog.NewRepository(conn), sales.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{conn: conn, carts: carts, svc: svc}
}

func (f *fixture) seedProduct(t *testing.T, name string, quantity int, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Quantity: quantity,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
	if err := f.conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func (f *fixture) productQuantity(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := f.conn.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return product.Quantity
}

func (f *fixture) saleCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := f.conn.Model(&models.Sale{}).Count(&count).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	return count
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestExecuteCommitsSaleAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := uuid.New()

	cola := f.seedProduct(t, "Coca Cola 600ml", 10, "18.50")
	chips := f.seedProduct(t, "Sabritas 45g", 5, "17.00")

	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)
	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)
	f.carts.AddItem(seller, chips.ID, chips.Name, chips.Price)

	result, err := f.svc.Execute(ctx, Input{
		SellerID:       seller,
		PaymentMethod:  enums.PaymentMethodCash,
		AmountTendered: decPtr("100.00"),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	wantTotal := decimal.RequireFromString("54.00")
	if !result.Total.Equal(wantTotal) {
		t.Fatalf("expected total %s, got %s", wantTotal, result.Total)
	}
	if !result.Change.Equal(decimal.RequireFromString("46.00")) {
		t.Fatalf("expected change 46.00, got %s", result.Change)
	}
	if result.SaleID == uuid.Nil {
		t.Fatal("expected sale id")
	}

	if got := f.productQuantity(t, cola.ID); got != 8 {
		t.Fatalf("expected cola stock 8, got %d", got)
	}
	if got := f.productQuantity(t, chips.ID); got != 4 {
		t.Fatalf("expected chips stock 4, got %d", got)
	}

	var lines []models.SaleLine
	if err := f.conn.Where("sale_id = ?", result.SaleID).Find(&lines).Error; err != nil {
		t.Fatalf("load sale lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 sale lines, got %d", len(lines))
	}

	if got := f.carts.Get(seller); len(got.Lines) != 0 {
		t.Fatalf("expected cart cleared after commit, got %d lines", len(got.Lines))
	}
}

func TestExecuteRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Execute(context.Background(), Input{
		SellerID:      uuid.New(),
		PaymentMethod: enums.PaymentMethodCash,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteCashValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := uuid.New()

	cola := f.seedProduct(t, "Coca Cola 600ml", 10, "18.50")
	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)

	cases := []struct {
		name     string
		tendered *decimal.Decimal
	}{
		{"missing tendered", nil},
		{"zero tendered", decPtr("0")},
		{"negative tendered", decPtr("-5")},
		{"short tendered", decPtr("10.00")},
	}
	for _, tc := range cases {
		_, err := f.svc.Execute(ctx, Input{
			SellerID:       seller,
			PaymentMethod:  enums.PaymentMethodCash,
			AmountTendered: tc.tendered,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	// Failed validation leaves the world untouched.
	if got := f.saleCount(t); got != 0 {
		t.Fatalf("expected no sales, got %d", got)
	}
	if got := f.productQuantity(t, cola.ID); got != 10 {
		t.Fatalf("expected stock untouched, got %d", got)
	}
	if got := f.carts.Get(seller); len(got.Lines) != 1 {
		t.Fatal("expected cart preserved after failed checkout")
	}
}

func TestExecuteRejectsInvalidPaymentMethod(t *testing.T) {
	f := newFixture(t)
	seller := uuid.New()
	cola := f.seedProduct(t, "Coca Cola 600ml", 10, "18.50")
	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)

	_, err := f.svc.Execute(context.Background(), Input{
		SellerID:      seller,
		PaymentMethod: enums.PaymentMethod("cheque"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteCardPaymentsSkipChange(t *testing.T) {
	f := newFixture(t)
	seller := uuid.New()
	cola := f.seedProduct(t, "Coca Cola 600ml", 10, "18.50")
	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)

	result, err := f.svc.Execute(context.Background(), Input{
		SellerID:      seller,
		PaymentMethod: enums.PaymentMethodDebit,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Change.IsZero() {
		t.Fatalf("expected zero change for debit, got %s", result.Change)
	}
}

func TestExecuteReportsAllShortages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := uuid.New()

	cola := f.seedProduct(t, "Coca Cola 600ml", 1, "18.50")
	chips := f.seedProduct(t, "Sabritas 45g", 0, "17.00")

	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)
	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)
	f.carts.AddItem(seller, chips.ID, chips.Name, chips.Price)

	_, err := f.svc.Execute(ctx, Input{
		SellerID:       seller,
		PaymentMethod:  enums.PaymentMethodCash,
		AmountTendered: decPtr("100.00"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	items, ok := details["items"].([]map[string]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected both shortages reported, got %v", details["items"])
	}

	// Nothing was written and the cart survives for correction.
	if got := f.saleCount(t); got != 0 {
		t.Fatalf("expected no sales, got %d", got)
	}
	if got := f.productQuantity(t, cola.ID); got != 1 {
		t.Fatalf("expected cola stock untouched, got %d", got)
	}
	if got := f.carts.Get(seller); len(got.Lines) != 2 {
		t.Fatal("expected cart preserved after shortage")
	}
}

func TestExecuteRejectsInactiveProduct(t *testing.T) {
	f := newFixture(t)
	seller := uuid.New()

	cola := f.seedProduct(t, "Coca Cola 600ml", 10, "18.50")
	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)

	if err := f.conn.Model(&models.Product{}).Where("id = ?", cola.ID).
		UpdateColumn("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}

	_, err := f.svc.Execute(context.Background(), Input{
		SellerID:      seller,
		PaymentMethod: enums.PaymentMethodDebit,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inactive product, got %v", err)
	}
}

func TestExecuteExactCashGivesZeroChange(t *testing.T) {
	f := newFixture(t)
	seller := uuid.New()
	cola := f.seedProduct(t, "Coca Cola 600ml", 10, "18.50")
	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)

	result, err := f.svc.Execute(context.Background(), Input{
		SellerID:       seller,
		PaymentMethod:  enums.PaymentMethodCash,
		AmountTendered: decPtr("18.50"),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Change.IsZero() {
		t.Fatalf("expected zero change, got %s", result.Change)
	}
}

func TestExecuteFreezesUnitPriceFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := uuid.New()

	cola := f.seedProduct(t, "Coca Cola 600ml", 10, "18.50")
	f.carts.AddItem(seller, cola.ID, cola.Name, cola.Price)

	// Reprice the product after the item was added to the cart.
	newPrice := decimal.RequireFromString("25.00")
	if err := f.conn.Model(&models.Product{}).Where("id = ?", cola.ID).
		Update("price", newPrice).Error; err != nil {
		t.Fatalf("reprice product: %v", err)
	}

	result, err := f.svc.Execute(ctx, Input{
		SellerID:       seller,
		PaymentMethod:  enums.PaymentMethodCash,
		AmountTendered: decPtr("20.00"),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	wantPrice := decimal.RequireFromString("18.50")
	if !result.Total.Equal(wantPrice) {
		t.Fatalf("expected total %s from the cart price, got %s", wantPrice, result.Total)
	}

	var line models.SaleLine
	if err := f.conn.First(&line, "sale_id = ?", result.SaleID).Error; err != nil {
		t.Fatalf("load sale line: %v", err)
	}
	if !line.UnitPrice.Equal(wantPrice) {
		t.Fatalf("expected persisted unit price %s, got %s", wantPrice, line.UnitPrice)
	}
}
