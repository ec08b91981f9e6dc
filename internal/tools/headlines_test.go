package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/weatherbot/weatherbot/internal/errorsx"
)

// newsServer returns a server that records the last query and replies with body.
func newsServer(t *testing.T, status int, body string, got *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "news-key" {
			t.Errorf("missing api key header")
		}
		if got != nil {
			*got = r.URL.Query()
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHeadlinesTool_Defaults(t *testing.T) {
	var q url.Values
	srv := newsServer(t, http.StatusOK, `{"status":"ok","totalResults":0,"articles":[]}`, &q)

	if _, err := NewHeadlinesTool("news-key", srv.URL, 0).Execute(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Get("category") != "general" {
		t.Errorf("expected category=general, got %q", q.Get("category"))
	}
	if q.Get("pageSize") != "1" {
		t.Errorf("expected pageSize=1, got %q", q.Get("pageSize"))
	}
	if q.Has("q") || q.Has("country") {
		t.Errorf("unexpected filters: %v", q)
	}
}

func TestHeadlinesTool_NoArticlesSentinel(t *testing.T) {
	var q url.Values
	srv := newsServer(t, http.StatusOK, `{"status":"ok","totalResults":0,"articles":[]}`, &q)

	out, err := NewHeadlinesTool("news-key", srv.URL, 0).Execute(context.Background(), map[string]any{"category": "technology"})
	if err != nil {
		t.Fatalf("expected sentinel result, got error %v", err)
	}
	if out != NoArticlesFound {
		t.Errorf("expected %q, got %q", NoArticlesFound, out)
	}
	if q.Get("category") != "technology" {
		t.Errorf("expected category=technology, got %q", q.Get("category"))
	}
}

func TestHeadlinesTool_FirstArticle(t *testing.T) {
	var q url.Values
	body := `{"status":"ok","totalResults":2,"articles":[
		{"source":{"name":"BBC"},"title":"First","description":"d1","publishedAt":"2024-05-01T10:00:00Z","url":"https://a.example/1"},
		{"title":"Second","url":"https://a.example/2"}]}`
	srv := newsServer(t, http.StatusOK, body, &q)

	out, err := NewHeadlinesTool("news-key", srv.URL, 0).Execute(context.Background(),
		map[string]any{"query": "elections", "country": "gb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var a Article
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatalf("result is not an article: %v (%s)", err, out)
	}
	want := Article{Title: "First", Description: "d1", PublishedAt: "2024-05-01T10:00:00Z", URL: "https://a.example/1"}
	if a != want {
		t.Errorf("got %+v, want %+v", a, want)
	}
	if q.Get("q") != "elections" || q.Get("country") != "gb" {
		t.Errorf("filters not forwarded: %v", q)
	}
}

func TestHeadlinesTool_UpstreamError(t *testing.T) {
	srv := newsServer(t, http.StatusUnauthorized,
		`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`, nil)

	_, err := NewHeadlinesTool("news-key", srv.URL, 0).Execute(context.Background(), map[string]any{})
	if !errorsx.HasReason(err, errorsx.ReasonExternalService) {
		t.Fatalf("expected external_service, got %v", err)
	}
	if err.Error() != "headlines: Your API key is invalid." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestHeadlinesTool_UnparseableFailure(t *testing.T) {
	srv := newsServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)

	_, err := NewHeadlinesTool("news-key", srv.URL, 0).Execute(context.Background(), map[string]any{})
	if !errorsx.HasReason(err, errorsx.ReasonExternalService) {
		t.Fatalf("expected external_service, got %v", err)
	}
}

func TestHeadlinesTool_MissingKey(t *testing.T) {
	_, err := NewHeadlinesTool("", "http://127.0.0.1:0", 0).Execute(context.Background(), map[string]any{})
	if !errorsx.HasReason(err, errorsx.ReasonConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}
