package controllers

import (
	"net/http"
	"time"

	"github.com/mfarias-dev/puntoventa-backend/api/responses"
	"github.com/mfarias-dev/puntoventa-backend/internal/reports"
	"github.com/mfarias-dev/puntoventa-backend/pkg/logger"
)

// ReportsDashboard returns today's revenue, low-stock products, and the
// latest sales for the admin home screen.
func ReportsDashboard(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := svc.Dashboard(r.Context(), time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
