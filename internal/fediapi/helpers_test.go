package fediapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// handlerRoundTripper serves requests for any host from h, so clients can
// keep building https://{instance} URLs in tests.
type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := &responseRecorder{header: make(http.Header), code: http.StatusOK}
	rt.h.ServeHTTP(rec, req)
	return &http.Response{
		StatusCode: rec.code,
		Header:     rec.header.Clone(),
		Body:       io.NopCloser(strings.NewReader(rec.body.String())),
		Request:    req,
	}, nil
}

type responseRecorder struct {
	header http.Header
	body   strings.Builder
	code   int
}

func (r *responseRecorder) Header() http.Header         { return r.header }
func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *responseRecorder) WriteHeader(statusCode int)  { r.code = statusCode }

func newTestClient(h http.Handler, opts ...ClientOption) *Client {
	opts = append([]ClientOption{
		WithHTTPClient(&http.Client{Transport: handlerRoundTripper{h: h}}),
		WithRetryDelay(0),
	}, opts...)
	return NewClient(opts...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}
