package sales

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mfarias-dev/puntoventa-backend/pkg/db/models"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
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
	return conn
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, name string, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Quantity: 100,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestSale(t *testing.T, repo *Repository, product *models.Product, at time.Time, total string) *models.Sale {
	t.Helper()
	sale := &models.Sale{
		SaleDate:      at,
		TotalAmount:   decimal.RequireFromString(total),
		PaymentMethod: enums.PaymentMethodCash,
		Lines: []models.SaleLine{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString(total)},
		},
	}
	created, err := repo.CreateSale(context.Background(), sale)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return created
}
