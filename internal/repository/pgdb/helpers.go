package pgdb

import (
	"errors"
	"fmt"

	"github.com/DRSN-tech/product-catalog/pkg/pagination"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// postgresDuplicate сообщает, что вставка нарушила уникальный индекс.
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// limitOffset добавляет к запросу LIMIT/OFFSET с позиционными параметрами.
func limitOffset(query string, args []any, offset, limit int) (string, []any) {
	if limit != pagination.NoLimit {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args
}
