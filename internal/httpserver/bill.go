package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/billing/internal/clients"
	"github.com/Skotchmaster/billing/internal/search"
	"github.com/Skotchmaster/billing/internal/service"
	"github.com/Skotchmaster/billing/internal/transport"
	"github.com/Skotchmaster/billing/internal/util"
	"github.com/Skotchmaster/billing/pkg/logging"
	"github.com/labstack/echo/v4"
)

const searchService = "elasticsearch"

type BillSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []search.BillDocument, error)
}

type BillHTTP struct {
	Svc    *service.BillService
	Search BillSearcher
}

func (h *BillHTTP) CreateBill(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bill.create_bill")

	var req transport.BillRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "create_bill_error", transport.NewValidationError("body: invalid JSON"))
	}
	if err := req.Validate(); err != nil {
		return fail(l, "create_bill_error", err)
	}

	bill, err := h.Svc.CreateBill(ctx, *req.CustomerID, req.Lines())
	if err != nil {
		return fail(l, "create_bill_error", err)
	}

	l.Info("create_bill_success", "bill_id", bill.ID(), "customer_id", bill.CustomerID(), "total", bill.Total())
	return c.JSON(http.StatusCreated, transport.NewBillResponse(bill))
}

func (h *BillHTTP) GetBill(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bill.get_bill")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(l, "get_bill_error", transport.NewValidationError("id: must be an integer"))
	}

	bill, found, err := h.Svc.GetBill(ctx, id)
	if err != nil {
		return fail(l, "get_bill_error", err)
	}
	if !found {
		return fail(l, "get_bill_error", &BillNotFoundError{ID: id})
	}

	return c.JSON(http.StatusOK, transport.NewBillResponse(bill))
}

func (h *BillHTTP) GetBillsByCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bill.get_bills_by_customer")

	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		return fail(l, "get_bills_by_customer_error", transport.NewValidationError("customerId: must be an integer"))
	}

	bills, err := h.Svc.GetBillsByCustomer(ctx, customerID)
	if err != nil {
		return fail(l, "get_bills_by_customer_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewBillResponses(bills))
}

func (h *BillHTTP) SearchBills(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bill.search_bills")

	q := c.QueryParam("q")
	if q == "" {
		return fail(l, "search_bills_error", transport.NewValidationError("q: query is required"))
	}
	if h.Search == nil {
		return fail(l, "search_bills_error", &clients.RemoteError{
			Service: searchService,
			Status:  http.StatusServiceUnavailable,
			Err:     errSearchDisabled,
		})
	}

	page := max(util.ParseIntDefault(c.QueryParam("page"), 1), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, docs, err := h.Search.Search(ctx, q, from, limit)
	if err != nil {
		return fail(l, "search_bills_error", &clients.RemoteError{Service: searchService, Err: err})
	}

	l.Info("search_bills_success", "total", total)
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"bills": docs,
		"meta": echo.Map{
			"page":     page,
			"size":     limit,
			"has_prev": page > 1,
			"has_next": int64(from+limit) < total,
		},
	})
}
