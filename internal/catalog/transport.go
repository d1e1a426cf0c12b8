package catalog

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type tokenSource struct {
	mu    sync.RWMutex
	token string
}

func (t *tokenSource) get() string {
	if t == nil {
		return ""
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *tokenSource) set(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = strings.TrimSpace(token)
}

// bearerTransport stamps every request with a request id and, when a token
// source is present and holds a token, an Authorization header.
type bearerTransport struct {
	base   http.RoundTripper
	tokens *tokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	if r.Header.Get("X-Request-ID") == "" {
		r.Header.Set("X-Request-ID", uuid.NewString())
	}
	if token := t.tokens.get(); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return base.RoundTrip(r)
}
