package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCategoryLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: " Bebidas ", Description: strPtr("Refrescos y aguas")})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if created.Name != "Bebidas" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	if _, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Bebidas"}); err == nil {
		t.Fatal("expected duplicate name to conflict")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}

	updated, err := svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{Name: strPtr("Botanas")})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Name != "Botanas" {
		t.Fatalf("expected renamed category, got %q", updated.Name)
	}

	list, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 category, got %d", len(list))
	}

	if err := svc.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if err := svc.DeleteCategory(ctx, created.ID); err == nil {
		t.Fatal("expected not found on second delete")
	}
}

func TestDeleteCategoryDetachesProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Bebidas"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	product, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Coca Cola 600ml",
		CategoryID: &category.ID,
		Quantity:   10,
		Price:      decimal.RequireFromString("18.50"),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := svc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	reloaded, err := svc.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.CategoryID != nil {
		t.Fatalf("expected product detached from deleted category, got %v", reloaded.CategoryID)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{Name: "  ", Price: decimal.NewFromInt(1)}},
		{"negative quantity", CreateProductInput{Name: "x", Quantity: -1, Price: decimal.NewFromInt(1)}},
		{"negative min stock", CreateProductInput{Name: "x", MinStock: -1, Price: decimal.NewFromInt(1)}},
		{"negative price", CreateProductInput{Name: "x", Price: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		_, err := svc.CreateProduct(ctx, tc.input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	missing := uuid.New()
	_, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "x",
		CategoryID: &missing,
		Price:      decimal.NewFromInt(1),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing category, got %v", err)
	}
}

func TestUpdateProductReturnsPersistedRow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Coca Cola 600ml",
		Quantity: 10,
		MinStock: 3,
		Price:    decimal.RequireFromString("18.50"),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newPrice := decimal.RequireFromString("19.00")
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{
		Price:    &newPrice,
		Quantity: intPtr(25),
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if !updated.Price.Equal(newPrice) || updated.Quantity != 25 {
		t.Fatalf("unexpected updated row %+v", updated)
	}

	// The returned row reflects the database, not the caller's input struct.
	reloaded, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if !reloaded.Price.Equal(newPrice) || reloaded.Quantity != 25 {
		t.Fatalf("persisted row does not match update: %+v", reloaded)
	}
}

func TestListProductsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Bebidas"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	inactive := false
	seed := []CreateProductInput{
		{Name: "Coca Cola 600ml", CategoryID: &category.ID, Quantity: 10, MinStock: 3, Price: decimal.RequireFromString("18.50")},
		{Name: "Agua Ciel 1L", CategoryID: &category.ID, Quantity: 2, MinStock: 5, Price: decimal.RequireFromString("12.00")},
		{Name: "Sabritas 45g", Quantity: 8, MinStock: 2, Price: decimal.RequireFromString("17.00"), IsActive: &inactive},
	}
	for _, input := range seed {
		if _, err := svc.CreateProduct(ctx, input); err != nil {
			t.Fatalf("seed product %q: %v", input.Name, err)
		}
	}

	all, err := svc.ListProducts(ctx, ListProductsInput{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	byName, err := svc.ListProducts(ctx, ListProductsInput{Search: "cola"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Coca Cola 600ml" {
		t.Fatalf("unexpected search result %+v", byName)
	}

	active, err := svc.ListProducts(ctx, ListProductsInput{ActiveOnly: true})
	if err != nil {
		t.Fatalf("active only: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active products, got %d", len(active))
	}

	low, err := svc.ListProducts(ctx, ListProductsInput{LowStock: true})
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 1 || low[0].Name != "Agua Ciel 1L" {
		t.Fatalf("unexpected low stock result %+v", low)
	}
	if !low[0].LowStock {
		t.Fatal("expected low_stock flag set")
	}

	byCategory, err := svc.ListProducts(ctx, ListProductsInput{CategoryID: &category.ID})
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("expected 2 products in category, got %d", len(byCategory))
	}
}

func TestDecrementStockGuard(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Coca Cola 600ml",
		Quantity: 5,
		Price:    decimal.RequireFromString("18.50"),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	ok, err := repo.DecrementStock(ctx, created.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement to succeed")
	}

	ok, err = repo.DecrementStock(ctx, created.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected decrement past available stock to be refused")
	}

	reloaded, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Quantity != 2 {
		t.Fatalf("expected stock untouched by refused decrement, got %d", reloaded.Quantity)
	}
}

func TestCreateProductPersistsInactiveFlag(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	inactive := false
	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Chicles Trident",
		Quantity: 4,
		Price:    decimal.RequireFromString("9.00"),
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.IsActive {
		t.Fatal("expected created product to report inactive")
	}

	reloaded, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.IsActive {
		t.Fatal("expected inactive flag to survive the round trip")
	}

	active, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Paleta Payaso",
		Quantity: 6,
		Price:    decimal.RequireFromString("15.00"),
	})
	if err != nil {
		t.Fatalf("create default product: %v", err)
	}
	if !active.IsActive {
		t.Fatal("expected products to default to active")
	}
}
