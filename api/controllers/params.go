package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/api/middleware"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
)

func customerIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing customer context")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid customer context")
	}
	return id, nil
}
