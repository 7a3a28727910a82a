package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/billing/pkg/logging"
	"github.com/Skotchmaster/billing/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

var errSearchDisabled = errors.New("bill search is not configured")

type Deps struct {
	BillHandler *BillHTTP
	JWTSecret   []byte
	Ready       func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	bills := e.Group("/bills", auth.RequireAuth(d.JWTSecret))
	bills.POST("", d.BillHandler.CreateBill)
	bills.GET("/search", d.BillHandler.SearchBills)
	bills.GET("/fullBill/:id", d.BillHandler.GetBill)
	bills.GET("/byCustomer/:customerId", d.BillHandler.GetBillsByCustomer)
	bills.GET("/:id", d.BillHandler.GetBill)
}
