package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rg-retail/packsplit-backend/api/responses"
	"github.com/rg-retail/packsplit-backend/api/validators"
	"github.com/rg-retail/packsplit-backend/internal/ledger"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
	"github.com/rg-retail/packsplit-backend/pkg/logger"
	"github.com/rg-retail/packsplit-backend/pkg/types"
)

type applyOpeningRequest struct {
	Barcode       string `json:"barcode" validate:"required"`
	BoxesOpened   int    `json:"boxes_opened"`
	ManualSingles int    `json:"manual_singles" validate:"min=0"`
	ManualSixpk   int    `json:"manual_sixpk" validate:"min=0"`
	Date          string `json:"date,omitempty"`
	Note          string `json:"note,omitempty" validate:"max=500"`
}

type previewOpeningRequest struct {
	Barcode       string `json:"barcode" validate:"required"`
	BoxesOpened   int    `json:"boxes_opened"`
	ManualSingles int    `json:"manual_singles" validate:"min=0"`
	ManualSixpk   int    `json:"manual_sixpk" validate:"min=0"`
}

// ApplyOpening records a box-opening entry and moves the running balances.
func ApplyOpening(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var body applyOpeningRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var day time.Time
		if strings.TrimSpace(body.Date) != "" {
			parsed, err := types.ParseDate(body.Date)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date"))
				return
			}
			day = parsed.Time
		}

		result, err := svc.ApplyOpening(r.Context(), ledger.ApplyOpeningInput{
			Date:          day,
			Barcode:       body.Barcode,
			BoxesOpened:   body.BoxesOpened,
			ManualSingles: body.ManualSingles,
			ManualSixpk:   body.ManualSixpk,
			Note:          validators.SanitizeString(body.Note, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// UndoOpening reverses the most recent log entry across all products.
func UndoOpening(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		result, err := svc.UndoLastEntry(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PreviewOpening computes the split an entry would produce without writing.
func PreviewOpening(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var body previewOpeningRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PreviewSplit(r.Context(), ledger.PreviewInput{
			Barcode:       body.Barcode,
			BoxesOpened:   body.BoxesOpened,
			ManualSingles: body.ManualSingles,
			ManualSixpk:   body.ManualSixpk,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListOpenings returns the log entries for one day, newest first.
func ListOpenings(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		day, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.EntriesForDate(r.Context(), day)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}
