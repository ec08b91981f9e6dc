package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/weatherbot/weatherbot/internal/errorsx"
)

const parisPayload = `{"location":{"name":"Paris","country":"France"},"current":{"temp_c":18.0,"condition":{"text":"Partly cloudy"}}}`

func TestWeatherTool_ReturnsPayloadUnmodified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Paris" {
			t.Errorf("expected q=Paris, got %q", got)
		}
		if r.Header.Get("X-RapidAPI-Key") != "secret" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("X-RapidAPI-Host") != DefaultWeatherAPIHost {
			t.Errorf("unexpected host header %q", r.Header.Get("X-RapidAPI-Host"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(parisPayload))
	}))
	defer srv.Close()

	tool := NewWeatherTool("secret", srv.URL, "", 0)
	out, err := tool.Execute(context.Background(), map[string]any{"location": "Paris"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != parisPayload {
		t.Errorf("payload changed:\n got %s\nwant %s", out, parisPayload)
	}
}

func TestWeatherTool_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
	}))
	defer srv.Close()

	_, err := NewWeatherTool("secret", srv.URL, "", 0).Execute(context.Background(), map[string]any{"location": "Nowhere"})
	if !errorsx.HasReason(err, errorsx.ReasonExternalService) {
		t.Fatalf("expected external_service, got %v", err)
	}
	if err.Error() != "weather: No matching location found." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWeatherTool_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"You are not subscribed to this API."}`))
	}))
	defer srv.Close()

	_, err := NewWeatherTool("secret", srv.URL, "", 0).Execute(context.Background(), map[string]any{"location": "Paris"})
	if !errorsx.HasReason(err, errorsx.ReasonExternalService) {
		t.Fatalf("expected external_service, got %v", err)
	}
}

func TestWeatherTool_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewWeatherTool("secret", base, "", 0).Execute(context.Background(), map[string]any{"location": "Paris"})
	if !errorsx.HasReason(err, errorsx.ReasonExternalService) {
		t.Fatalf("expected external_service, got %v", err)
	}
}

func TestWeatherTool_MissingKey(t *testing.T) {
	_, err := NewWeatherTool("", "http://127.0.0.1:0", "", 0).Execute(context.Background(), map[string]any{"location": "Paris"})
	if !errorsx.HasReason(err, errorsx.ReasonConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestSnippet_CutsOnRuneBoundary(t *testing.T) {
	body := []byte(strings.Repeat("é", 200)) // 400 bytes
	got := snippet(body)
	if !utf8.ValidString(got) {
		t.Fatalf("snippet produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") || len(got) > 303 {
		t.Errorf("snippet = %d bytes", len(got))
	}
}
