package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/billing/internal/clients"
	"github.com/Skotchmaster/billing/internal/domain"
	"github.com/Skotchmaster/billing/internal/service"
	"github.com/Skotchmaster/billing/internal/transport"
	"github.com/labstack/echo/v4"
)

const (
	CategoryValidation    = "Validation Failed"
	CategoryCustomer      = "Customer Not Found"
	CategoryProduct       = "Product Not Found"
	CategoryBill          = "Bill Not Found"
	CategoryCommunication = "Service Communication Error"
	CategoryInternal      = "Internal Error"
)

type BillNotFoundError struct {
	ID int64
}

func (e *BillNotFoundError) Error() string {
	return fmt.Sprintf("Bill not found with ID: %d", e.ID)
}

// classify maps an error to its outward status, category and message.
func classify(err error) (int, string, string) {
	var (
		ve *transport.ValidationError
		ce *domain.CustomerUnresolvedError
		pe *domain.ProductUnresolvedError
		be *BillNotFoundError
		re *clients.RemoteError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, CategoryValidation, ve.Error()
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, CategoryValidation, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	case errors.As(err, &ce):
		return http.StatusNotFound, CategoryCustomer, ce.Error()
	case errors.As(err, &pe):
		return http.StatusNotFound, CategoryProduct, pe.Error()
	case errors.As(err, &be):
		return http.StatusNotFound, CategoryBill, be.Error()
	case errors.As(err, &re):
		status := re.Status
		if status < 400 {
			status = http.StatusServiceUnavailable
		}
		return status, CategoryCommunication, "Failed to communicate with downstream service: " + re.Error()
	case errors.As(err, &he):
		return he.Code, http.StatusText(he.Code), fmt.Sprint(he.Message)
	default:
		return http.StatusInternalServerError, CategoryInternal, "internal error"
	}
}

// ErrorHandler renders every error returned by a handler or middleware as an ErrorResponse.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, category, message := classify(err)
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, transport.ErrorResponse{
		Status:    status,
		Error:     category,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Request().URL.Path,
	})
}

// fail logs a handler failure at a level matching its status and passes it on to ErrorHandler.
func fail(l *slog.Logger, event string, err error) error {
	status, category, _ := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", category, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", category, "error", err)
	}
	return err
}
