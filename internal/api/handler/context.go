package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dompet/finance-gateway/internal/api/middleware"
)

// ctxUserID returns the user id injected by the Auth middleware. An empty id
// means the route was mounted without it; reject with 401 before touching the
// ledger.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Sesi tidak valid")
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Format permintaan tidak valid")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
