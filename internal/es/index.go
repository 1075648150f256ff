package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

// ProductIndex keeps published products searchable.
type ProductIndex struct {
	Client *elasticsearch.Client
	Name   string
}

type productDoc struct {
	ID        uint     `json:"id"`
	SKURoot   string   `json:"sku_root"`
	Title     string   `json:"title"`
	ShortDesc string   `json:"short_desc"`
	LongDesc  string   `json:"long_desc"`
	Brand     string   `json:"brand"`
	Category  string   `json:"category"`
	Condition string   `json:"condition"`
	Grade     string   `json:"grade"`
	SKUs      []string `json:"skus"`
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "long"},
      "sku_root":   {"type": "keyword"},
      "skus":       {"type": "keyword"},
      "title":      {"type": "text"},
      "short_desc": {"type": "text"},
      "long_desc":  {"type": "text"},
      "brand":      {"type": "text"},
      "category":   {"type": "text"},
      "condition":  {"type": "keyword"},
      "grade":      {"type": "keyword"}
    }
  }
}`

func toDoc(p *models.Product) productDoc {
	d := productDoc{
		ID:        p.ID,
		SKURoot:   p.SKURoot,
		Title:     p.Title,
		ShortDesc: p.ShortDesc,
		LongDesc:  p.LongDesc,
		Condition: string(p.Condition),
		Grade:     string(p.Grade),
		SKUs:      make([]string, 0, len(p.Variants)),
	}
	if p.Brand != nil {
		d.Brand = p.Brand.Name
	}
	if p.Category != nil {
		d.Category = p.Category.Name
	}
	for _, v := range p.Variants {
		d.SKUs = append(d.SKUs, v.SKU)
	}
	return d
}

func responseErr(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch: %s: %s: %s", op, res.Status(), body)
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (x *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.Client.Indices.Exists([]string{x.Name}, x.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.Client.Indices.Create(x.Name,
		x.Client.Indices.Create.WithContext(ctx),
		x.Client.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseErr("create index", res)
	}
	return nil
}

func (x *ProductIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(toDoc(p))
	if err != nil {
		return err
	}
	res, err := x.Client.Index(x.Name, bytes.NewReader(body),
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseErr("index", res)
	}
	return nil
}

func (x *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := x.Client.Delete(x.Name, strconv.FormatUint(uint64(id), 10), x.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseErr("delete", res)
	}
	return nil
}

// Search returns the total hit count and the matching product ids by relevance.
func (x *ProductIndex) Search(ctx context.Context, q string, from, size int) (int64, []uint, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^3", "sku_root^2", "skus^2", "brand", "category", "short_desc", "long_desc"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return 0, nil, err
	}

	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Name),
		x.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseErr("search", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID uint `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: decode: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		if h.Source.ID != 0 {
			ids = append(ids, h.Source.ID)
		}
	}
	return r.Hits.Total.Value, ids, nil
}
