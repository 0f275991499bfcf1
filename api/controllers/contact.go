package controllers

import (
	"net/http"

	"github.com/loftmebel/loft-backend/api/responses"
	"github.com/loftmebel/loft-backend/api/validators"
	"github.com/loftmebel/loft-backend/internal/contact"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"github.com/loftmebel/loft-backend/pkg/logger"
)

type contactRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   string  `json:"phone" validate:"required"`
	Message *string `json:"message,omitempty"`
}

// ContactSubmit stores a callback request from the storefront.
func ContactSubmit(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var body contactRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), contact.SubmitInput{
			Name:    body.Name,
			Phone:   body.Phone,
			Message: body.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
