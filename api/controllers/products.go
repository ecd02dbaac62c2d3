package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfarias-dev/puntoventa-backend/api/responses"
	"github.com/mfarias-dev/puntoventa-backend/api/validators"
	"github.com/mfarias-dev/puntoventa-backend/internal/catalog"
	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
	"github.com/mfarias-dev/puntoventa-backend/pkg/logger"
)

type createProductRequest struct {
	Name       string  `json:"name" validate:"required"`
	CategoryID *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Quantity   int     `json:"quantity" validate:"min=0"`
	MinStock   int     `json:"min_stock" validate:"min=0"`
	Price      string  `json:"price" validate:"required"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

type updateProductRequest struct {
	Name       *string `json:"name,omitempty"`
	CategoryID *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Quantity   *int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
	MinStock   *int    `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	Price      *string `json:"price,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// ProductList returns catalog products with optional search and filters.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := catalog.ListProductsInput{
			Search:     r.URL.Query().Get("search"),
			ActiveOnly: queryFlag(r, "active_only"),
			LowStock:   queryFlag(r, "low_stock"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
				return
			}
			input.CategoryID = &id
		}

		products, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductGet returns one product by id.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCreate adds a product to the catalog.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := parsePrice(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := parseOptionalUUID(payload.CategoryID, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:       payload.Name,
			CategoryID: categoryID,
			Quantity:   payload.Quantity,
			MinStock:   payload.MinStock,
			Price:      price,
			IsActive:   payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate mutates the named product and returns the stored row so the
// client always renders what the database holds.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:     payload.Name,
			Quantity: payload.Quantity,
			MinStock: payload.MinStock,
			IsActive: payload.IsActive,
		}
		if payload.Price != nil {
			price, err := parsePrice(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Price = &price
		}
		if payload.CategoryID != nil {
			categoryID, err := parseOptionalUUID(payload.CategoryID, "category_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CategoryID = categoryID
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a product from the catalog.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	return price, nil
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(map[string]any{"field": field})
	}
	return &id, nil
}

func queryFlag(r *http.Request, key string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return value == "true" || value == "1"
}
