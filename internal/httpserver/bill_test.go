package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Skotchmaster/billing/internal/domain"
	"github.com/Skotchmaster/billing/internal/repo"
	"github.com/Skotchmaster/billing/internal/search"
	"github.com/Skotchmaster/billing/internal/service"
	"github.com/Skotchmaster/billing/internal/transport"
	"github.com/Skotchmaster/billing/pkg/middleware/auth"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCustomers struct{}

func (stubCustomers) Lookup(_ context.Context, id int64) domain.Result[domain.Customer] {
	switch id {
	case 1:
		return domain.FoundResult(domain.Customer{ID: 1, Name: "Test Customer", Email: "test@example.com"})
	case 2:
		return domain.UnavailableResult[domain.Customer]()
	default:
		return domain.NotFoundResult[domain.Customer]()
	}
}

type stubCatalog struct{}

func (stubCatalog) Lookup(_ context.Context, id string) domain.Result[domain.Product] {
	switch id {
	case "prod-1":
		return domain.FoundResult(domain.Product{ID: "prod-1", Name: "Computer", Price: 100, Quantity: 10})
	case "prod-2":
		return domain.FoundResult(domain.Product{ID: "prod-2", Name: "Printer", Price: 50, Quantity: 5})
	default:
		return domain.NotFoundResult[domain.Product]()
	}
}

type brokenStore struct{}

func (brokenStore) Save(context.Context, domain.Bill) (domain.Bill, error) {
	return domain.Bill{}, errors.New("connection refused")
}

func (brokenStore) FindByID(context.Context, int64) (domain.Bill, bool, error) {
	return domain.Bill{}, false, errors.New("connection refused")
}

func (brokenStore) FindByCustomerID(context.Context, int64) ([]domain.Bill, error) {
	return nil, errors.New("connection refused")
}

type stubSearch struct {
	total int64
	docs  []search.BillDocument
	err   error
	from  int
	size  int
}

func (s *stubSearch) Search(_ context.Context, _ string, from, size int) (int64, []search.BillDocument, error) {
	s.from, s.size = from, size
	return s.total, s.docs, s.err
}

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newServer(t *testing.T, store service.BillStore, searcher BillSearcher, secret []byte) *echo.Echo {
	t.Helper()

	if store == nil {
		store = &repo.GormRepo{DB: InitTestDB(t)}
	}
	svc := service.NewBillService(stubCustomers{}, stubCatalog{}, store, service.Options{
		Now: func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) },
	})

	h := &BillHTTP{Svc: svc}
	if searcher != nil {
		h.Search = searcher
	}

	e := echo.New()
	Register(e, &Deps{BillHandler: h, JWTSecret: secret})
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) transport.ErrorResponse {
	t.Helper()
	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateBill_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantCategory string
		wantMessage  string
	}{
		{
			name:         "null customer",
			body:         `{"customerId":null,"productItems":[{"productId":"prod-1","quantity":1}]}`,
			wantStatus:   http.StatusBadRequest,
			wantCategory: CategoryValidation,
			wantMessage:  "customerId: Customer ID is required",
		},
		{
			name:         "empty items",
			body:         `{"customerId":1,"productItems":[]}`,
			wantStatus:   http.StatusBadRequest,
			wantCategory: CategoryValidation,
			wantMessage:  "productItems: At least one product item is required",
		},
		{
			name:         "zero quantity",
			body:         `{"customerId":1,"productItems":[{"productId":"prod-1","quantity":0}]}`,
			wantStatus:   http.StatusBadRequest,
			wantCategory: CategoryValidation,
			wantMessage:  "productItems[0].quantity: Quantity must be at least 1",
		},
		{
			name:         "malformed json",
			body:         `{"customerId":`,
			wantStatus:   http.StatusBadRequest,
			wantCategory: CategoryValidation,
		},
		{
			name:         "unknown customer",
			body:         `{"customerId":999,"productItems":[{"productId":"prod-1","quantity":1}]}`,
			wantStatus:   http.StatusNotFound,
			wantCategory: CategoryCustomer,
			wantMessage:  "Customer not found with ID: 999",
		},
		{
			name:         "customer service down",
			body:         `{"customerId":2,"productItems":[{"productId":"prod-1","quantity":1}]}`,
			wantStatus:   http.StatusNotFound,
			wantCategory: CategoryCustomer,
			wantMessage:  "Customer not found with ID: 2",
		},
		{
			name:         "unknown product",
			body:         `{"customerId":1,"productItems":[{"productId":"prod-1","quantity":1},{"productId":"nope","quantity":1}]}`,
			wantStatus:   http.StatusNotFound,
			wantCategory: CategoryProduct,
			wantMessage:  "Product not found with ID: nope",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newServer(t, nil, nil, nil)

			rec := do(e, http.MethodPost, "/bills", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantCategory, resp.Error)
			assert.Equal(t, "/bills", resp.Path)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestCreateBill_ThenRead(t *testing.T) {
	t.Parallel()
	e := newServer(t, nil, nil, nil)

	rec := do(e, http.MethodPost, "/bills",
		`{"customerId":1,"productItems":[{"productId":"prod-1","quantity":2},{"productId":"prod-2","quantity":3}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created transport.BillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.CustomerID)
	assert.Equal(t, 350.0, created.Total)
	assert.Equal(t, "2026-10-17", created.Date)
	require.Len(t, created.ProductItems, 2)
	assert.Equal(t, "prod-1", created.ProductItems[0].ProductID)
	assert.Equal(t, 200.0, created.ProductItems[0].Total)
	assert.Equal(t, 150.0, created.ProductItems[1].Total)

	for _, path := range []string{"/bills/1", "/bills/fullBill/1"} {
		rec = do(e, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)

		var full transport.BillResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &full))
		assert.Equal(t, created.ID, full.ID)
		assert.Equal(t, 350.0, full.Total)
		require.NotNil(t, full.Customer)
		assert.Equal(t, "Test Customer", full.Customer.Name)
		assert.Equal(t, "Computer", full.ProductItems[0].ProductName)
		assert.Equal(t, "Printer", full.ProductItems[1].ProductName)
	}

	rec = do(e, http.MethodGet, "/bills/byCustomer/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []transport.BillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestGetBill_Missing(t *testing.T) {
	t.Parallel()
	e := newServer(t, nil, nil, nil)

	rec := do(e, http.MethodGet, "/bills/fullBill/42", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, CategoryBill, resp.Error)
	assert.Equal(t, "Bill not found with ID: 42", resp.Message)
}

func TestGetBill_InvalidID(t *testing.T) {
	t.Parallel()
	e := newServer(t, nil, nil, nil)

	for _, path := range []string{"/bills/abc", "/bills/fullBill/abc", "/bills/byCustomer/abc"} {
		rec := do(e, http.MethodGet, path, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, CategoryValidation, decodeError(t, rec).Error)
	}
}

func TestGetBillsByCustomer_Empty(t *testing.T) {
	t.Parallel()
	e := newServer(t, nil, nil, nil)

	rec := do(e, http.MethodGet, "/bills/byCustomer/7", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStoreFailure_IsInternalError(t *testing.T) {
	t.Parallel()
	e := newServer(t, brokenStore{}, nil, nil)

	rec := do(e, http.MethodPost, "/bills", `{"customerId":1,"productItems":[{"productId":"prod-1","quantity":1}]}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, CategoryInternal, resp.Error)
	assert.NotContains(t, resp.Message, "connection refused")
}

func TestSearchBills(t *testing.T) {
	t.Parallel()

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		e := newServer(t, nil, nil, nil)

		rec := do(e, http.MethodGet, "/bills/search?q=printer", "")

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, CategoryCommunication, decodeError(t, rec).Error)
	})

	t.Run("missing query", func(t *testing.T) {
		t.Parallel()
		e := newServer(t, nil, &stubSearch{}, nil)

		rec := do(e, http.MethodGet, "/bills/search", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("paged", func(t *testing.T) {
		t.Parallel()
		s := &stubSearch{total: 25, docs: []search.BillDocument{{ID: 3}}}
		e := newServer(t, nil, s, nil)

		rec := do(e, http.MethodGet, "/bills/search?q=printer&page=2&size=10", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 10, s.from)
		assert.Equal(t, 10, s.size)

		var body struct {
			Total int64                 `json:"total"`
			Bills []search.BillDocument `json:"bills"`
			Meta  struct {
				HasPrev bool `json:"has_prev"`
				HasNext bool `json:"has_next"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(25), body.Total)
		assert.Len(t, body.Bills, 1)
		assert.True(t, body.Meta.HasPrev)
		assert.True(t, body.Meta.HasNext)
	})

	t.Run("page below one", func(t *testing.T) {
		t.Parallel()
		s := &stubSearch{total: 5}
		e := newServer(t, nil, s, nil)

		rec := do(e, http.MethodGet, "/bills/search?q=printer&page=0", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, s.from)

		var body struct {
			Meta struct {
				Page    int  `json:"page"`
				HasPrev bool `json:"has_prev"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Meta.Page)
		assert.False(t, body.Meta.HasPrev)
	})

	t.Run("backend error", func(t *testing.T) {
		t.Parallel()
		e := newServer(t, nil, &stubSearch{err: errors.New("cluster red")}, nil)

		rec := do(e, http.MethodGet, "/bills/search?q=printer", "")

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAuth_RequiredWhenSecretSet(t *testing.T) {
	t.Parallel()
	secret := []byte("test-secret")
	e := newServer(t, nil, nil, secret)

	rec := do(e, http.MethodGet, "/bills/byCustomer/1", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeError(t, rec).Error)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.AccessClaims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/bills/byCustomer/1", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	e := echo.New()
	Register(e, &Deps{BillHandler: &BillHTTP{}, Ready: func(context.Context) error { return errors.New("db down") }})

	rec := do(e, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
