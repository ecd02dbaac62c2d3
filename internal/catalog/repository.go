package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfarias-dev/puntoventa-backend/pkg/db/models"
)

// Repository wires together catalog persistence for products and categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateCategory inserts a category and returns the persisted row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindCategoryByID loads a category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// SaveCategory persists the full category row and returns what the database holds.
func (r *Repository) SaveCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return r.FindCategoryByID(ctx, category.ID)
}

// DeleteCategory removes the category; products keep a null category afterwards.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Product{}).
		Where("category_id = ?", id).
		UpdateColumn("category_id", nil).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Category{}, "id = ?", id).Error
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateProduct inserts a product and returns the persisted row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return r.FindProductByID(ctx, product.ID)
}

// FindProductByID loads the product with its category.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductsByIDs loads the given products in one query.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SaveProduct persists the full product row, then re-reads it so callers see
// exactly what the database holds rather than their in-memory guess.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return r.FindProductByID(ctx, product.ID)
}

// DeleteProduct removes the product row.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ListProducts returns products matching the filters, ordered by name.
func (r *Repository) ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	if input.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+input.Search+"%")
	}
	if input.CategoryID != nil {
		query = query.Where("category_id = ?", *input.CategoryID)
	}
	if input.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if input.LowStock {
		query = query.Where("quantity <= min_stock")
	}

	var products []models.Product
	if err := query.Order("name asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock atomically subtracts quantity when enough stock remains.
// It reports false when the guard fails, leaving the row untouched.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
