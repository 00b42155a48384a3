package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rg-retail/packsplit-backend/api/responses"
	"github.com/rg-retail/packsplit-backend/api/validators"
	"github.com/rg-retail/packsplit-backend/internal/catalog"
	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
	"github.com/rg-retail/packsplit-backend/pkg/logger"
)

type upsertProductRequest struct {
	Barcode           string `json:"barcode" validate:"required"`
	Description       string `json:"description" validate:"required"`
	PackSize          *int   `json:"pack_size,omitempty" validate:"omitempty,min=1"`
	SplitMode         string `json:"split_mode" validate:"required"`
	AutoSinglesPerBox int    `json:"auto_singles_per_box" validate:"min=0"`
	AutoSixpkPerBox   int    `json:"auto_sixpk_per_box" validate:"min=0"`
}

type productResponse struct {
	Barcode           string `json:"barcode"`
	Description       string `json:"description"`
	PackSize          *int   `json:"pack_size,omitempty"`
	SplitMode         string `json:"split_mode"`
	AutoSinglesPerBox int    `json:"auto_singles_per_box"`
	AutoSixpkPerBox   int    `json:"auto_sixpk_per_box"`
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		Barcode:           p.Barcode,
		Description:       p.Description,
		PackSize:          p.PackSize,
		SplitMode:         string(p.SplitMode),
		AutoSinglesPerBox: p.AutoSinglesPerBox,
		AutoSixpkPerBox:   p.AutoSixpkPerBox,
	}
}

// UpsertProduct handles create-or-replace of a catalog entry.
func UpsertProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body upsertProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Upsert(r.Context(), catalog.UpsertInput{
			Barcode:           body.Barcode,
			Description:       body.Description,
			PackSize:          body.PackSize,
			SplitMode:         body.SplitMode,
			AutoSinglesPerBox: body.AutoSinglesPerBox,
			AutoSixpkPerBox:   body.AutoSixpkPerBox,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toProductResponse(product))
	}
}

// GetProduct returns one catalog entry by barcode.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		barcode := chi.URLParam(r, "barcode")
		product, err := svc.Get(r.Context(), barcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toProductResponse(product))
	}
}

// ListProducts returns the whole catalog ordered by description.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for i := range products {
			out = append(out, toProductResponse(&products[i]))
		}

		responses.WriteSuccess(w, out)
	}
}
