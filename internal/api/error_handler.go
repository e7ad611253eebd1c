package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/api/ledger"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known ledger errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, ledger.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Username atau password salah"
	case errors.Is(err, ledger.ErrUserExists):
		return http.StatusConflict, "Username sudah digunakan"
	case errors.Is(err, ledger.ErrUserNotFound):
		return http.StatusNotFound, "Pengguna tidak ditemukan"
	case errors.Is(err, ledger.ErrWrongPassword):
		return http.StatusBadRequest, "Kata sandi saat ini salah"
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return http.StatusNotFound, "Transaksi tidak ditemukan"
	case errors.Is(err, ledger.ErrCategoryNotFound):
		return http.StatusNotFound, "Kategori tidak ditemukan"
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidType):
		return http.StatusUnprocessableEntity, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Terjadi kesalahan pada server"
}
