// Package session derives the shopper's session key from request metadata.
package session

import (
	"net/http"
	"strings"
)

const (
	Header     = "X-Session"
	QueryParam = "session_key"
	Fallback   = "anon"
)

// Resolve takes the X-Session header, then the session_key query parameter,
// then the literal fallback. Values are trimmed and otherwise accepted as is.
func Resolve(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(Header)); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.URL.Query().Get(QueryParam)); v != "" {
		return v
	}
	return Fallback
}
