package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/billing/internal/domain"
)

type CustomerClient struct {
	baseURL string
	hc      *http.Client
}

func NewCustomerClient(baseURL string, timeout time.Duration) *CustomerClient {
	return &CustomerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      newHTTPClient(timeout),
	}
}

// GetCustomer returns ErrNotFound when the directory has no such customer, including
// a 2xx reply without a record, and a *RemoteError when the directory could not answer.
func (c *CustomerClient) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	var out *domain.Customer
	url := fmt.Sprintf("%s/api/customers/%d", c.baseURL, id)
	if err := getJSON(ctx, c.hc, CustomerService, url, &out); err != nil {
		return domain.Customer{}, err
	}
	if out == nil || out.ID == 0 {
		return domain.Customer{}, ErrNotFound
	}
	return *out, nil
}
