package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/service"
	"github.com/DaviHS/badaoburguer/internal/status"
	"github.com/DaviHS/badaoburguer/internal/transport"
)

const defaultPageSize = 20

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func pagination(c echo.Context) (page, size, offset int) {
	page = parseIntDefault(c.QueryParam("page"), 1)
	size = parseIntDefault(c.QueryParam("size"), defaultPageSize)
	return page, size, (page - 1) * size
}

func meta(page, size int, total int64) transport.Meta {
	return transport.Meta{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: (total + int64(size) - 1) / int64(size),
		HasPrev:    page > 1,
		HasNext:    int64(page*size) < total,
	}
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}
	return uint(id), nil
}

// domainError maps service/repo errors to HTTP responses; transition errors
// carry the allowed successor set so the client can render valid choices.
func domainError(err error) error {
	var ite *status.InvalidTransitionError
	switch {
	case errors.As(err, &ite):
		allowed := make([]int, len(ite.Allowed))
		for i, s := range ite.Allowed {
			allowed[i] = int(s)
		}
		return echo.NewHTTPError(http.StatusConflict, map[string]any{
			"error":   "invalid status transition",
			"from":    int(ite.From),
			"to":      int(ite.To),
			"allowed": allowed,
		})
	case errors.Is(err, service.ErrTotalMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, "insufficient stock")
	case errors.Is(err, repo.ErrStatusConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrProductNotFound),
		errors.Is(err, repo.ErrCategoryNotFound),
		errors.Is(err, repo.ErrOrderNotFound),
		errors.Is(err, repo.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrUserAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrPaymentStart):
		return echo.NewHTTPError(http.StatusBadGateway, "payment could not be started")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
