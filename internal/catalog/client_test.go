package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIURL {
		t.Fatalf("default url = %q, want %q", u.String(), defaultAPIURL)
	}

	u, err = parseBaseURL("api.example.com:9000/api?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "api.example.com:9000" {
		t.Fatalf("url = %q, want http://api.example.com:9000", u.String())
	}
	if u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("https://host/tcc/")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != "https://host/tcc" {
		t.Fatalf("url = %q, want https://host/tcc", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatal("parseBaseURL accepted a url without host")
	}
}

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	reqID  string
	body   string
}

type recorder struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (r *recorder) add(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, recordedRequest{
		method: req.Method,
		path:   req.URL.Path,
		query:  req.URL.RawQuery,
		auth:   req.Header.Get("Authorization"),
		reqID:  req.Header.Get("X-Request-ID"),
		body:   string(body),
	})
}

func (r *recorder) last() recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reqs) == 0 {
		return recordedRequest{}
	}
	return r.reqs[len(r.reqs)-1]
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c, rec
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_AttachesBearerOnlyWhenTokenSet(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	ctx := testContext(t)

	if _, err := c.Categories().List(ctx); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got := rec.last().auth; got != "" {
		t.Fatalf("Authorization without token = %q, want empty", got)
	}

	c.SetToken("  abc.def.ghi  ")
	if _, err := c.Categories().List(ctx); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got := rec.last().auth; got != "Bearer abc.def.ghi" {
		t.Fatalf("Authorization = %q, want bearer token", got)
	}
	if rec.last().reqID == "" {
		t.Fatal("X-Request-ID header missing")
	}

	c.SetToken("")
	if _, err := c.Categories().List(ctx); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got := rec.last().auth; got != "" {
		t.Fatalf("Authorization after clearing token = %q, want empty", got)
	}
}

func TestClient_LoginUsesPublicClient(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/login" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"token":"t-1","user":{"id":9,"name":"Ana","email":"ana@example.com"}}`)
	})
	c.SetToken("stale")

	resp, err := c.Login(testContext(t), Credentials{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Token != "t-1" || resp.User == nil || resp.User.ID != "9" {
		t.Fatalf("Login response = %+v", resp)
	}

	got := rec.last()
	if got.auth != "" {
		t.Fatalf("login sent Authorization %q, want none", got.auth)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(got.body), &body); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if body["email"] != "ana@example.com" || body["senha"] != "pw" {
		t.Fatalf("login body = %v, want email and senha", body)
	}
}

func TestClient_LoginRejectsEmptyToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":""}`)
	})
	if _, err := c.Login(testContext(t), Credentials{Email: "a@b.c", Password: "x"}); err == nil {
		t.Fatal("Login accepted an empty token")
	}
}

func TestClient_StatusErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/categories/404":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"category not found"}`)
		case "/api/v1/categories/401":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"token expired"}`)
		case "/api/v1/categories/403":
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":"not allowed"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, "boom")
		}
	})
	ctx := testContext(t)
	cats := c.Categories()

	_, err := cats.Get(ctx, 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(404) error = %v, want ErrNotFound", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Message != "category not found" {
		t.Fatalf("status error = %#v, want message from body", se)
	}

	if err := cats.Delete(ctx, 401); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Delete(401) error = %v, want ErrUnauthorized", err)
	}
	if err := cats.Delete(ctx, 403); err == nil || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Delete(403) error = %v, want plain status error", err)
	}

	_, err = cats.Get(ctx, 1)
	if err == nil || errors.Is(err, ErrNotFound) || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Get(500) error = %v, want plain status error carrying body", err)
	}
}

func TestClient_KeepsBasePathPrefix(t *testing.T) {
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/pageable") {
			_, _ = io.WriteString(w, `{"content":[],"totalElements":0}`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/tcc/")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := testContext(t)

	if _, err := c.Categories().List(ctx); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got := rec.last().path; got != "/tcc/api/v1/categories" {
		t.Fatalf("path = %q, want /tcc/api/v1/categories", got)
	}
	if _, err := c.Series().Page(ctx, 2, 5); err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	last := rec.last()
	if last.path != "/tcc/api/v1/series/pageable" || last.query != "page=1&size=5" {
		t.Fatalf("page request = %s?%s, want prefixed path with query", last.path, last.query)
	}
}

func TestClient_UpdateVerbs(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":5,"name":"x"}`)
	})
	ctx := testContext(t)

	if _, err := c.Series().Update(ctx, 5, SeriesInput{Name: "x"}); err != nil {
		t.Fatalf("series Update returned error: %v", err)
	}
	if got := rec.last(); got.method != http.MethodPatch || got.path != "/api/v1/series/5" {
		t.Fatalf("series update = %s %s, want PATCH /api/v1/series/5", got.method, got.path)
	}

	if _, err := c.Categories().Update(ctx, 5, CategoryInput{Name: "x"}); err != nil {
		t.Fatalf("category Update returned error: %v", err)
	}
	if got := rec.last(); got.method != http.MethodPut || got.path != "/api/v1/categories/5" {
		t.Fatalf("category update = %s %s, want PUT /api/v1/categories/5", got.method, got.path)
	}
}

func TestClient_CreateToleratesEmptyBody(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	cat, err := c.Categories().Create(testContext(t), CategoryInput{Name: "Tokusatsu"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if cat.ID != 0 {
		t.Fatalf("Create with empty body = %+v, want zero value", cat)
	}
	if got := rec.last(); got.method != http.MethodPost || !strings.Contains(got.body, `"name":"Tokusatsu"`) {
		t.Fatalf("create request = %+v", got)
	}
}

func TestSeriesResource_PageAndOrdering(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/series/pageable":
			_, _ = io.WriteString(w, `{"content":[{"id":1,"name":"A","year":1990}],"totalElements":9}`)
		default:
			_, _ = io.WriteString(w, `[{"id":2,"name":"B","year":2001},{"id":1,"name":"A","year":1990}]`)
		}
	})
	ctx := testContext(t)

	page, err := c.Series().Page(ctx, 3, 4)
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if page.TotalElements != 9 || len(page.Content) != 1 {
		t.Fatalf("Page payload = %+v", page)
	}
	if got := rec.last().query; got != "page=2&size=4" {
		t.Fatalf("Page query = %q, want page=2&size=4", got)
	}

	if _, err := c.Series().Page(ctx, 1, 0); err == nil {
		t.Fatal("Page accepted size 0")
	}

	items, err := c.Series().ListByYear(ctx)
	if err != nil {
		t.Fatalf("ListByYear returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListByYear items = %+v", items)
	}
	if got := rec.last().query; got != "sort=year%2Cdesc" {
		t.Fatalf("ListByYear query = %q, want sort=year%%2Cdesc", got)
	}
}

func TestClient_MeAndEpisodes(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/users/me":
			_, _ = io.WriteString(w, `{"id":"u-7","email":"op@example.com"}`)
		case "/api/v1/episodes":
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":11,"name":"Pilot","duration":"24min","link":"https://v/1","serieId":3}`)
		default:
			http.NotFound(w, r)
		}
	})
	c.SetToken("tok")
	ctx := testContext(t)

	user, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if user.ID != "u-7" || user.Label() != "op@example.com" {
		t.Fatalf("Me user = %+v label=%q", user, user.Label())
	}

	ep, err := c.Episodes().Create(ctx, EpisodeInput{Name: "Pilot", Duration: "24min", Link: "https://v/1", SerieID: 3})
	if err != nil {
		t.Fatalf("Episodes().Create returned error: %v", err)
	}
	if ep.ID != 11 || ep.SerieID != 3 {
		t.Fatalf("episode = %+v", ep)
	}
	if got := rec.last(); got.auth != "Bearer tok" {
		t.Fatalf("episode create auth = %q", got.auth)
	}
}
