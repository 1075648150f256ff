package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

type recorded struct {
	method, path string
	body         []byte
}

type fakeCluster struct {
	mu    sync.Mutex
	calls []recorded
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, recorded{r.Method, r.URL.Path, body})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodHead:
		w.WriteHeader(http.StatusNotFound)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_source":{"id":7}},{"_source":{"id":3}}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	case strings.Contains(r.URL.Path, "/_doc/"):
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	default:
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	}
}

func (f *fakeCluster) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newIndex(t *testing.T) (*ProductIndex, *fakeCluster) {
	t.Helper()
	fc := &fakeCluster{}
	srv := httptest.NewServer(fc)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ProductIndex{Client: client, Name: "products"}, fc
}

func TestProductIndex_IndexAndDelete(t *testing.T) {
	x, fc := newIndex(t)
	ctx := context.Background()

	require.NoError(t, x.EnsureIndex(ctx))
	assert.Equal(t, http.MethodPut, fc.last().method)
	assert.Equal(t, "/products", fc.last().path)

	p := &models.Product{
		ID:       7,
		Title:    "ThinkPad T480",
		SKURoot:  "TP-T480",
		Brand:    &models.Brand{Name: "Lenovo"},
		Variants: []models.Variant{{SKU: "TP-T480-16"}},
	}
	require.NoError(t, x.IndexProduct(ctx, p))
	call := fc.last()
	assert.Equal(t, "/products/_doc/7", call.path)

	var doc productDoc
	require.NoError(t, json.Unmarshal(call.body, &doc))
	assert.Equal(t, "Lenovo", doc.Brand)
	assert.Equal(t, []string{"TP-T480-16"}, doc.SKUs)

	require.NoError(t, x.DeleteProduct(ctx, 7))
}

func TestProductIndex_Search(t *testing.T) {
	x, fc := newIndex(t)

	total, ids, err := x.Search(context.Background(), "thinkpad", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uint{7, 3}, ids)

	var q map[string]any
	require.NoError(t, json.Unmarshal(fc.last().body, &q))
	assert.EqualValues(t, 10, q["size"])
	assert.Contains(t, fc.last().path, "/products/_search")
}
