package errors

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// HandleHTTPError translates an application error into an HTTP response.
// Validation and not-found errors carry their message to the caller; store
// and unexpected errors collapse into a generic 500 body.
func HandleHTTPError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *ValidationError:
		status = http.StatusBadRequest
		message = e.Message
	case *NotFoundError:
		status = http.StatusNotFound
		message = e.Message
	case *ConflictError:
		status = http.StatusUnprocessableEntity
		message = e.Error()
	case *AuthError:
		status = http.StatusUnauthorized
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal Server Error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message})
}
