package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/Skotchmaster/billing/internal/domain"
	"github.com/elastic/go-elasticsearch/v9"
)

type ItemDocument struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

type BillDocument struct {
	ID           int64          `json:"id"`
	CustomerID   int64          `json:"customerId"`
	Total        float64        `json:"total"`
	Date         string         `json:"date"`
	ProductItems []ItemDocument `json:"productItems"`
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	slog.Default().Info("elasticsearch_connecting", "url", url)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func ToDocument(b domain.Bill) BillDocument {
	items := b.Items()
	doc := BillDocument{
		ID:           b.ID(),
		CustomerID:   b.CustomerID(),
		Total:        b.Total(),
		Date:         b.CreatedAt().Format("2006-01-02"),
		ProductItems: make([]ItemDocument, len(items)),
	}
	for i, it := range items {
		doc.ProductItems[i] = ItemDocument{
			ProductID:   it.ProductID(),
			ProductName: it.ProductName(),
			Quantity:    it.Quantity(),
			Price:       it.UnitPrice(),
			Total:       it.Total(),
		}
	}
	return doc
}

// BillCreated indexes a freshly persisted bill under its id.
func (ix *Indexer) BillCreated(ctx context.Context, bill domain.Bill) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ToDocument(bill)); err != nil {
		return fmt.Errorf("encode bill document: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(strconv.FormatInt(bill.ID(), 10)),
	)
	if err != nil {
		return fmt.Errorf("index bill %d: %w", bill.ID(), err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index bill %d: %s", bill.ID(), res.Status())
	}
	return nil
}

func (ix *Indexer) Search(ctx context.Context, query string, from, size int) (int64, []BillDocument, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"productItems.productName^2", "productItems.productId"},
				"fuzziness": "AUTO",
			},
		},
		"sort": []any{map[string]any{"id": "desc"}},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
		ix.ES.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search bills: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search bills: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source BillDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search: %w", err)
	}

	docs := make([]BillDocument, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
