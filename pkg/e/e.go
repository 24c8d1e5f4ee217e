package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")
	ErrTransactionActive   = fmt.Errorf("transaction already started")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 422 Unprocessable Entity
	ErrProductCategoryNotFound = fmt.Errorf("product category not found")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrInvalidID            = fmt.Errorf("invalid product id")
	ErrInvalidBody          = fmt.Errorf("invalid request body")
	ErrInvalidPage          = fmt.Errorf("invalid page parameters")
	ErrMonetaryUnitTooLong  = fmt.Errorf("monetary unit exceeds 256 characters")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
