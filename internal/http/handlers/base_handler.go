// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"tourquote/internal/modules/assistant"
	"tourquote/internal/modules/currency"
	"tourquote/internal/modules/pricing"
	"tourquote/internal/modules/quote"
)

type errorResponse struct {
	Error  string               `json:"error"`
	Code   string               `json:"code,omitempty"`
	Fields []pricing.FieldError `json:"fields,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeCodedError(c *gin.Context, status int, code, msg string) {
	writeJSON(c, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps domain errors to HTTP responses; unknown errors become 500.
func writeServiceError(c *gin.Context, err error) {
	var (
		verr *pricing.ValidationError
		nerr *pricing.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: "invalid request", Code: "validation_error", Fields: verr.Fields})
	case errors.As(err, &nerr):
		writeCodedError(c, http.StatusNotFound, "not_found", nerr.Error())
	case errors.Is(err, quote.ErrNotFound), errors.Is(err, assistant.ErrTourNotFound):
		writeCodedError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, quote.ErrInvalidID), errors.Is(err, assistant.ErrBadRequest), errors.Is(err, currency.ErrUnsupportedCurrency):
		writeCodedError(c, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, assistant.ErrInsufficientTokens):
		writeCodedError(c, http.StatusTooManyRequests, "quota_exhausted", err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		writeJSON(c, http.StatusBadRequest, errorResponse{
			Error:  "invalid request",
			Code:   "validation_error",
			Fields: []pricing.FieldError{{Field: ute.Field, Message: "must be " + jsonKind(ute.Type)}},
		})
		return false
	}
	writeCodedError(c, http.StatusBadRequest, "validation_error", "invalid json")
	return false
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "an array"
	}
	return "a " + t.String()
}
