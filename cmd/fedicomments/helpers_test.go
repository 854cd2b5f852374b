package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// handlerTransport serves every request from h, whatever the host.
type handlerTransport struct {
	h http.Handler
}

func (rt handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := &recorder{header: make(http.Header), code: http.StatusOK}
	rt.h.ServeHTTP(rec, req)
	return &http.Response{
		StatusCode: rec.code,
		Header:     rec.header,
		Body:       io.NopCloser(bytes.NewReader(rec.body.Bytes())),
		Request:    req,
	}, nil
}

type recorder struct {
	header http.Header
	body   bytes.Buffer
	code   int
}

func (r *recorder) Header() http.Header         { return r.header }
func (r *recorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *recorder) WriteHeader(code int)        { r.code = code }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testEnv returns an environment capturing output and routing HTTP to h.
func testEnv(h http.Handler) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: stdout,
		Stderr: stderr,
	}
	if h != nil {
		env.HTTPClient = &http.Client{Transport: handlerTransport{h: h}}
	}
	return env, stdout, stderr
}

func respond(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

// fakeMastodon serves nodeinfo and one status "100" with a single reply.
func fakeMastodon(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/nodeinfo", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, map[string]any{"links": []map[string]string{{
			"rel":  "http://nodeinfo.diaspora.software/ns/schema/2.0",
			"href": "https://" + r.URL.Host + "/nodeinfo/2.0",
		}}})
	})
	mux.HandleFunc("GET /nodeinfo/2.0", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, map[string]any{"software": map[string]string{"name": "mastodon", "version": "4.2.0"}})
	})
	mux.HandleFunc("GET /api/v1/statuses/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "100" {
			http.Error(w, `{"error":"Record not found"}`, http.StatusNotFound)
			return
		}
		respond(t, w, status("100", ""))
	})
	mux.HandleFunc("GET /api/v1/statuses/{id}/context", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, map[string]any{
			"ancestors":   []any{},
			"descendants": []any{status("101", "100")},
		})
	})
	mux.HandleFunc("GET /api/v1/accounts/lookup", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Query().Get("acct"), "alice") {
			http.Error(w, `{"error":"Record not found"}`, http.StatusNotFound)
			return
		}
		respond(t, w, map[string]any{"username": "alice", "url": "https://social.example/@alice"})
	})
	return mux
}

func status(id, replyTo string) map[string]any {
	return map[string]any{
		"id":               id,
		"in_reply_to_id":   replyTo,
		"url":              "https://social.example/@alice/" + id,
		"created_at":       fixedNow.Format(time.RFC3339),
		"content":          "<p>Hello from " + id + "</p>",
		"favourites_count": 5,
		"reblogs_count":    2,
		"account": map[string]any{
			"username":     "alice",
			"url":          "https://social.example/@alice",
			"display_name": "Alice",
		},
	}
}
