package studio

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
)

// ErrTableNotFound is returned for tables the connected store does not have.
var ErrTableNotFound = errors.New("table not found")

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	var validation *analytics.ValidationError
	var execution *analytics.QueryExecutionError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, analytics.ErrStaleResult):
		return http.StatusConflict
	case errors.As(err, &execution):
		return http.StatusInternalServerError
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return http.StatusInternalServerError
	}
}
