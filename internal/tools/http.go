package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/weatherbot/weatherbot/internal/errorsx"
	"github.com/weatherbot/weatherbot/internal/shared/llmutils"
)

const maxBodyBytes = 1 << 20

// httpGet performs a GET against base+path with the given query and headers.
// Transport failures are returned as external_service errors; the status code
// is left for the caller to interpret because both upstreams put error
// details in the body.
func httpGet(ctx context.Context, client *http.Client, base, path string, query url.Values, headers map[string]string) ([]byte, int, error) {
	endpoint := strings.TrimRight(base, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, errorsx.Wrap(fmt.Errorf("build request: %w", err), errorsx.ReasonExternalService)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, errorsx.Wrap(fmt.Errorf("HTTP request: %w", err), errorsx.ReasonExternalService)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, errorsx.Wrap(fmt.Errorf("read response: %w", err), errorsx.ReasonExternalService)
	}
	return body, resp.StatusCode, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// snippet trims an upstream body for inclusion in an error message.
func snippet(body []byte) string {
	return llmutils.Truncate(strings.TrimSpace(string(body)), 300)
}
