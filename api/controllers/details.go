package controllers

import (
	"net/http"

	"github.com/dquinterov/mesacompras-backend/api/middleware"
	"github.com/dquinterov/mesacompras-backend/api/responses"
	"github.com/dquinterov/mesacompras-backend/api/validators"
	"github.com/dquinterov/mesacompras-backend/internal/invoices"
	"github.com/dquinterov/mesacompras-backend/internal/mixbox"
	"github.com/dquinterov/mesacompras-backend/internal/weights"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
)

// DetailConfirmPurchase books a purchase: one new detail row plus the order
// balance decrement.
func DetailConfirmPurchase(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body invoices.ConfirmPurchaseInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.UserID == nil {
			if userID := middleware.UserIDFromContext(r.Context()); userID > 0 {
				body.UserID = &userID
			}
		}

		detail, err := svc.ConfirmPurchase(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// DetailUpdateField patches one whitelisted detail column.
func DetailUpdateField(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "detailId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body fieldUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateDetailField(r.Context(), id, body.Field, body.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated": id, "campo": body.Field})
	}
}

type decomposeRequest struct {
	Items []mixbox.ItemInput `json:"items" validate:"required,min=1,dive"`
}

// DetailDecompose replaces a mixed box row with its component rows.
func DetailDecompose(svc mixbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "detailId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body decomposeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Decompose(r.Context(), id, body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// InvoiceRecomputeWeights reruns the weight rules over an invoice's details.
func InvoiceRecomputeWeights(svc weights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Recompute(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
