package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgeup/marketplace/internal/domain/apperror"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("product x: %w", apperror.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{apperror.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{apperror.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("negotiation is REJECTED: %w", apperror.ErrInvalidState), http.StatusConflict, "INVALID_STATE"},
		{apperror.ErrOutOfStock, http.StatusConflict, "OUT_OF_STOCK"},
		{apperror.ErrInvalidQuantity, http.StatusUnprocessableEntity, "INVALID_QUANTITY"},
		{apperror.ErrSelfDeal, http.StatusUnprocessableEntity, "SELF_DEAL"},
		{apperror.Invalid("title is required"), http.StatusBadRequest, "INVALID_PARAM"},
		{apperror.ErrConflict, http.StatusConflict, "CONFLICT"},
		{apperror.Persistence("insert order", errors.New("connection reset")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		status, code := statusForError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}
