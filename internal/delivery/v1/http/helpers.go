package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodySize = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// requestError - ошибка разбора запроса с текстом, который можно показать клиенту.
type requestError struct {
	kind   error
	detail string
}

func (r *requestError) Error() string { return r.detail }
func (r *requestError) Unwrap() error { return r.kind }

func newRequestError(kind error, detail string) error {
	return &requestError{kind: kind, detail: detail}
}

func ToHTTPResponse(err error) (int, string) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, reqErr.detail
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrProductCategoryNotFound):
		return http.StatusUnprocessableEntity, e.ErrProductCategoryNotFound.Error()
	case errors.Is(err, e.ErrInvalidID):
		return http.StatusBadRequest, e.ErrInvalidID.Error()
	case errors.Is(err, e.ErrInvalidBody):
		return http.StatusBadRequest, e.ErrInvalidBody.Error()
	case errors.Is(err, e.ErrInvalidPage):
		return http.StatusBadRequest, e.ErrInvalidPage.Error()
	case errors.Is(err, e.ErrMonetaryUnitTooLong):
		return http.StatusBadRequest, e.ErrMonetaryUnitTooLong.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeBody читает JSON-тело не больше maxBodySize и проверяет его тегами validate.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return newRequestError(e.ErrInvalidBody, fmt.Sprintf("%s: %v", e.ErrInvalidBody, err))
	}

	return validateStruct(dst)
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				messages = append(messages, formatValidationError(fe))
			}
			return newRequestError(e.ErrInvalidBody, strings.Join(messages, "; "))
		}
		return newRequestError(e.ErrInvalidBody, err.Error())
	}

	return nil
}

func formatValidationError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, e.ErrInvalidID
	}

	return id, nil
}

// pageQuery - параметры страницы из query string.
type pageQuery struct {
	PageSize  int `validate:"min=1,max=1000"`
	PageIndex int `validate:"min=0,max=1000000"`
}

// parsePageQuery возвращает ok = false, если ни pageSize, ни pageIndex не переданы.
func parsePageQuery(r *http.Request) (pageQuery, bool, error) {
	const defaultPageSize = 10

	q := r.URL.Query()
	if !q.Has("pageSize") && !q.Has("pageIndex") {
		return pageQuery{}, false, nil
	}

	page := pageQuery{PageSize: defaultPageSize}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pageQuery{}, true, newRequestError(e.ErrInvalidPage, "pagesize must be an integer")
		}
		page.PageSize = n
	}
	if v := q.Get("pageIndex"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pageQuery{}, true, newRequestError(e.ErrInvalidPage, "pageindex must be an integer")
		}
		page.PageIndex = n
	}

	if err := validate.Struct(page); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return pageQuery{}, true, newRequestError(e.ErrInvalidPage, formatValidationError(validationErrors[0]))
		}
		return pageQuery{}, true, newRequestError(e.ErrInvalidPage, err.Error())
	}

	return page, true, nil
}
