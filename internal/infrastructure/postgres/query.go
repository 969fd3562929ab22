package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edgeup/marketplace/internal/domain/apperror"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

func addWhere(query string) string {
	if strings.Contains(query, " WHERE ") {
		return " AND"
	}
	return " WHERE"
}

// mapError turns constraint violations into domain errors and wraps anything
// else as a persistence failure.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperror.ErrConflict)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperror.ErrNotFound)
		case codeCheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperror.ErrInvalidInput)
		}
	}
	return apperror.Persistence(op, err)
}
