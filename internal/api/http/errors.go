package httpapi

import (
	"errors"
	"net/http"

	"github.com/edgeup/marketplace/internal/domain/apperror"
)

var errorStatuses = []struct {
	target error
	status int
	code   string
}{
	{apperror.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{apperror.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{apperror.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{apperror.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
	{apperror.ErrOutOfStock, http.StatusConflict, "OUT_OF_STOCK"},
	{apperror.ErrInvalidQuantity, http.StatusUnprocessableEntity, "INVALID_QUANTITY"},
	{apperror.ErrSelfDeal, http.StatusUnprocessableEntity, "SELF_DEAL"},
	{apperror.ErrInvalidInput, http.StatusBadRequest, "INVALID_PARAM"},
	{apperror.ErrConflict, http.StatusConflict, "CONFLICT"},
}

// statusForError maps a service error to an HTTP status and error code.
// Anything unrecognised, persistence failures included, is a 500.
func statusForError(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, status, code, "internal error")
		return
	}
	respondError(w, status, code, err.Error())
}
