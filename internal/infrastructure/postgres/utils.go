package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mgarzon/almacen-api/internal/domain"
)

// constraintError convierte violaciones de constraint de Postgres
// (23505 unique, 23503 fk, 23514 check) en *domain.ConstraintError,
// conservando el código opaco. Devuelve nil si no es una violación.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503", "23514":
			return &domain.ConstraintError{Code: pgErr.Code, Constraint: pgErr.ConstraintName, Err: err}
		}
	}
	return nil
}

// storeError clasifica un error de escritura: constraint conocida o fatal.
func storeError(op string, err error) error {
	if ce := constraintError(err); ce != nil {
		return ce
	}
	return &domain.FatalError{Op: op, Err: err}
}
