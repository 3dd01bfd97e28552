package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/readycatholic/readycatholic/internal/classify"
	"github.com/readycatholic/readycatholic/internal/config"
	"github.com/readycatholic/readycatholic/internal/digest"
)

func staticRefresh(d *digest.Digest, page string, err error) RefreshFunc {
	return func(ctx context.Context) (*digest.Digest, string, error) {
		return d, page, err
	}
}

func sampleDigest() *digest.Digest {
	d := digest.New()
	d.Categories[classify.Vatican] = []digest.Headline{
		{Title: "Pope at the Angelus", Link: "https://example.com/1", Source: "Vatican News"},
	}
	return d
}

func newTestRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s.RegisterRoutes(r)
	return r
}

func TestGetPageBeforeFirstRefresh(t *testing.T) {
	s := NewServer(staticRefresh(sampleDigest(), "<html></html>", nil), nil)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusServiceUnavailable)
}

func TestGetPageServesHTML(t *testing.T) {
	page := "<html><body>READY CATHOLIC</body></html>"
	s := NewServer(staticRefresh(sampleDigest(), page, nil), nil)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Header().Get("Content-Type"), "text/html; charset=utf-8")
	assert.Equal(t, w.Body.String(), page)
}

func TestGetHeadlines(t *testing.T) {
	s := NewServer(staticRefresh(sampleDigest(), "<html></html>", nil), nil)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/headlines", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)

	var resp struct {
		GeneratedAt string                       `json:"generated_at"`
		Total       int                          `json:"total"`
		Categories  map[string][]digest.Headline `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	assert.Equal(t, resp.Total, 1)
	assert.Equal(t, len(resp.Categories), 7)
	assert.Equal(t, resp.Categories["vatican"][0].Source, "Vatican News")
	if resp.GeneratedAt == "" {
		t.Error("expected generated_at to be set")
	}
}

func TestGetHeadlinesBeforeFirstRefresh(t *testing.T) {
	s := NewServer(staticRefresh(sampleDigest(), "<html></html>", nil), nil)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/headlines", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusServiceUnavailable)
}

func TestPostRefresh(t *testing.T) {
	calls := 0
	refresh := func(ctx context.Context) (*digest.Digest, string, error) {
		calls++
		return sampleDigest(), "<html></html>", nil
	}
	s := NewServer(refresh, nil)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/refresh", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, calls, 1)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)
}

func TestPostRefreshFailure(t *testing.T) {
	s := NewServer(staticRefresh(nil, "", errors.New("render failed")), nil)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/refresh", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusInternalServerError)
}

func TestGetSources(t *testing.T) {
	sources := []config.Source{
		{Name: "Vatican News", URL: "https://www.vaticannews.va/en.rss.xml", Enabled: true},
		{Name: "Crux", URL: "https://cruxnow.com/feed/", Enabled: true},
	}
	s := NewServer(staticRefresh(sampleDigest(), "", nil), sources)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/sources", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)

	var resp struct {
		Count   int `json:"count"`
		Sources []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	assert.Equal(t, resp.Count, 2)
	assert.Equal(t, resp.Sources[0].Name, "Vatican News")
}

func TestHealth(t *testing.T) {
	s := NewServer(staticRefresh(sampleDigest(), "<html></html>", nil), nil)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	assert.Equal(t, resp["status"], "ok")
}
