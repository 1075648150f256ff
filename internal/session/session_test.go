package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		header string
		want   string
	}{
		{name: "header wins", url: "/cart?session_key=q", header: "h", want: "h"},
		{name: "header trimmed", url: "/cart", header: "  abc  ", want: "abc"},
		{name: "blank header falls to query", url: "/cart?session_key=q1", header: "   ", want: "q1"},
		{name: "query trimmed", url: "/cart?session_key=%20q2%20", want: "q2"},
		{name: "fallback", url: "/cart", want: Fallback},
		{name: "blank query falls back", url: "/cart?session_key=%20", want: Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set(Header, tt.header)
			}
			assert.Equal(t, tt.want, Resolve(req))
		})
	}
}
