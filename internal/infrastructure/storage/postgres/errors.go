package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"posledger/internal/core/apperror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapWriteError converts constraint violations into AppErrors.
// Unique constraints are named <table>_<column>_key, so the column is
// recovered from the constraint name.
func MapWriteError(entityName string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		field := constraintColumn(pgErr.TableName, pgErr.ConstraintName)
		return apperror.NewDuplicate(entityName, field, "").WithCause(err)
	case pgForeignKeyViolation:
		return apperror.NewValidation("referenced record does not exist").
			WithDetail("entity", entityName).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}
	return err
}

func constraintColumn(table, constraint string) string {
	name := strings.TrimSuffix(constraint, "_key")
	if table != "" {
		name = strings.TrimPrefix(name, table+"_")
	}
	if name == "" {
		return constraint
	}
	return name
}
