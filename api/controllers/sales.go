package controllers

import (
	"net/http"
	"strings"

	"github.com/mfarias-dev/puntoventa-backend/api/responses"
	"github.com/mfarias-dev/puntoventa-backend/api/validators"
	salessvc "github.com/mfarias-dev/puntoventa-backend/internal/sales"
	"github.com/mfarias-dev/puntoventa-backend/pkg/logger"
	"github.com/mfarias-dev/puntoventa-backend/pkg/pagination"
)

// SalesList returns the sales history newest-first with cursor pagination.
// Supported query parameters: limit, cursor, from, to (dates as YYYY-MM-DD).
func SalesList(svc salessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if to != nil {
			// "to" is inclusive on the wire; the repo's upper bound is exclusive.
			end := to.AddDate(0, 0, 1)
			to = &end
		}

		result, err := svc.ListSales(r.Context(), salessvc.ListParams{
			Params: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
			From: from,
			To:   to,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SaleDetail returns one sale with its lines and product names.
func SaleDetail(svc salessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
