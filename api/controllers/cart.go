package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loftmebel/loft-backend/api/responses"
	"github.com/loftmebel/loft-backend/internal/cart"
	"github.com/loftmebel/loft-backend/pkg/enums"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"github.com/loftmebel/loft-backend/pkg/logger"
)

// CartFetch returns the customer's basket with line totals.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetCart(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartAction applies add/delete/clear against a single basket line.
func CartAction(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseCartAction(chi.URLParam(r, "action"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown cart action"))
			return
		}

		result, err := svc.Apply(r.Context(), customerID, chi.URLParam(r, "slug"), action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
