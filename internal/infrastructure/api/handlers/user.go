package handlers

import (
	"net/http"

	"github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/internal/infrastructure/api/middlewares"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile handles GET /user, returning the authenticated caller's profile as
// attached by the auth middleware.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		errors.HandleHTTPError(w, errors.NewAuthError(errors.ErrMissingCredentials))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
