package clients

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Skotchmaster/billing/internal/domain"
)

type CatalogClient struct {
	baseURL string
	hc      *http.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      newHTTPClient(timeout),
	}
}

func (c *CatalogClient) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var out *domain.Product
	u := c.baseURL + "/api/products/" + url.PathEscape(id)
	if err := getJSON(ctx, c.hc, InventoryService, u, &out); err != nil {
		return domain.Product{}, err
	}
	if out == nil || out.ID == "" {
		return domain.Product{}, ErrNotFound
	}
	return *out, nil
}
