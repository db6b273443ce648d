package apierror

import (
	"errors"
	"net/http"

	"github.com/sellerdesk/crm-svc/internal/service/models/errs"
)

// Write maps a service error to an HTTP status and writes it to the response.
func Write(w http.ResponseWriter, err error) {
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		http.Error(w, validationErr.Message, http.StatusBadRequest)
		return
	}

	var notFoundErr *errs.NotFoundError
	if errors.As(err, &notFoundErr) {
		http.Error(w, notFoundErr.Message, http.StatusNotFound)
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
