package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rg-retail/packsplit-backend/api/responses"
	"github.com/rg-retail/packsplit-backend/api/validators"
	"github.com/rg-retail/packsplit-backend/internal/stock"
	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
	"github.com/rg-retail/packsplit-backend/pkg/logger"
)

type setStockRequest struct {
	ClosedBoxes int `json:"closed_boxes"`
	Singles     int `json:"singles"`
	Sixpk       int `json:"sixpk"`
}

type stockResponse struct {
	Barcode     string `json:"barcode"`
	ClosedBoxes int    `json:"closed_boxes"`
	Singles     int    `json:"singles"`
	Sixpk       int    `json:"sixpk"`
}

func toStockResponse(s *models.StockSnapshot) stockResponse {
	return stockResponse{
		Barcode:     s.Barcode,
		ClosedBoxes: s.ClosedBoxes,
		Singles:     s.Singles,
		Sixpk:       s.Sixpk,
	}
}

// GetStock returns the running balance for one product, creating the zero row
// on first touch.
func GetStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		barcode := chi.URLParam(r, "barcode")
		snapshot, err := svc.GetSnapshot(r.Context(), barcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toStockResponse(snapshot))
	}
}

// SetStock is the administrative overwrite used after a physical recount.
func SetStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		barcode := chi.URLParam(r, "barcode")

		var body setStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.SetStock(r.Context(), barcode, body.ClosedBoxes, body.Singles, body.Sixpk)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toStockResponse(snapshot))
	}
}

// StockPosition returns the full-catalog position report.
func StockPosition(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		rows, err := svc.Position(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// LowStock returns products at or under an unopened-box threshold.
func LowStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		threshold, err := validators.ParseQueryInt(r, "threshold", 2, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.LowStock(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// ExportStockCSV streams the position report as a CSV download.
func ExportStockCSV(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		filename := fmt.Sprintf("stock-position-%s.csv", time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := svc.PositionCSV(r.Context(), w); err != nil {
			// Headers are already out; log instead of writing a second body.
			if logg != nil {
				logg.Error(r.Context(), "stream stock csv", err)
			}
		}
	}
}

// StockCounts reports row counts for the diagnostics view.
func StockCounts(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		counts, err := svc.Counts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, counts)
	}
}
