package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfarias-dev/puntoventa-backend/api/middleware"
	"github.com/mfarias-dev/puntoventa-backend/api/responses"
	"github.com/mfarias-dev/puntoventa-backend/api/validators"
	"github.com/mfarias-dev/puntoventa-backend/internal/catalog"
	checkoutsvc "github.com/mfarias-dev/puntoventa-backend/internal/checkout"
	"github.com/mfarias-dev/puntoventa-backend/internal/pos"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
	"github.com/mfarias-dev/puntoventa-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type checkoutRequest struct {
	PaymentMethod  string  `json:"payment_method" validate:"required,oneof=cash debit credit"`
	AmountTendered *string `json:"amount_tendered,omitempty"`
}

// CartFetch returns the operator's current register contents.
func CartFetch(carts *pos.CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, carts.Get(sellerID))
	}
}

// CartAddItem adds one unit of a product to the operator's cart. The unit
// price is frozen from the catalog at the moment of the first add.
func CartAddItem(carts *pos.CartStore, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := catalogSvc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.IsActive {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product is not available"))
			return
		}

		snapshot := carts.AddItem(sellerID, product.ID, product.Name, product.Price)
		responses.WriteSuccess(w, snapshot)
	}
}

// CartUpdateItem sets a line's quantity; zero removes the line.
func CartUpdateItem(carts *pos.CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, found := carts.UpdateQuantity(sellerID, productID, payload.Quantity)
		if !found && payload.Quantity > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart"))
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartRemoveItem drops a product from the cart.
func CartRemoveItem(carts *pos.CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, found := carts.RemoveItem(sellerID, productID)
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart"))
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartClear empties the operator's cart without recording a sale.
func CartClear(carts *pos.CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		carts.Clear(sellerID)
		responses.WriteSuccess(w, carts.Get(sellerID))
	}
}

// Checkout commits the operator's cart as a sale.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkoutsvc.Input{
			SellerID:      sellerID,
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
		}
		if payload.AmountTendered != nil {
			tendered, err := decimal.NewFromString(strings.TrimSpace(*payload.AmountTendered))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount tendered"))
				return
			}
			input.AmountTendered = &tendered
		}

		result, err := svc.Execute(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func sellerFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return id, nil
}
