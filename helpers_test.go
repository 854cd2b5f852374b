package fedicomments

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

// handlerRoundTripper serves requests for any host from h, so services can
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

func newTestService(h http.Handler, opts ...Option) *Service {
	opts = append([]Option{
		WithHTTPClient(&http.Client{Transport: handlerRoundTripper{h: h}}),
		WithRetryDelay(0),
	}, opts...)
	return New(opts...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func readNoteID(t *testing.T, r *http.Request) string {
	t.Helper()
	var body struct {
		NoteID string `json:"noteId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decoding request: %v", err)
	}
	return body.NoteID
}

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mastodonStatus(id, replyTo string, minute int) map[string]any {
	return map[string]any{
		"id":               id,
		"in_reply_to_id":   replyTo,
		"url":              "https://social.example/@alice/" + id,
		"created_at":       testTime.Add(time.Duration(minute) * time.Minute).Format(time.RFC3339),
		"content":          "<p>reply " + id + "</p>",
		"favourites_count": 2,
		"reblogs_count":    1,
		"account": map[string]any{
			"username":     "alice",
			"url":          "https://social.example/@alice",
			"display_name": "Alice",
			"avatar":       "https://social.example/a.png",
		},
	}
}

func misskeyNote(id, replyTo string, minute int) map[string]any {
	return map[string]any{
		"id":            id,
		"replyId":       replyTo,
		"createdAt":     testTime.Add(time.Duration(minute) * time.Minute).Format(time.RFC3339),
		"text":          "note " + id,
		"reactionCount": 3,
		"renoteCount":   0,
		"reactions":     map[string]int{"👍": 3},
		"emojis":        map[string]string{},
		"user": map[string]any{
			"username": "bob",
			"name":     "Bob",
			"emojis":   map[string]string{},
		},
	}
}

// misskeyTree serves notes/show, notes/children and notes/renotes from a
// parent -> children table and records which notes had children requested.
type misskeyTree struct {
	t        *testing.T
	notes    map[string]map[string]any
	children map[string][]string
	renotes  int
	failing  map[string]bool

	mu        sync.Mutex
	requested []string
}

func (m *misskeyTree) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/notes/show", func(w http.ResponseWriter, r *http.Request) {
		note, ok := m.notes[readNoteID(m.t, r)]
		if !ok {
			http.Error(w, `{"error":"NO_SUCH_NOTE"}`, http.StatusBadRequest)
			return
		}
		writeJSON(m.t, w, note)
	})
	mux.HandleFunc("POST /api/notes/children", func(w http.ResponseWriter, r *http.Request) {
		id := readNoteID(m.t, r)
		m.mu.Lock()
		m.requested = append(m.requested, id)
		m.mu.Unlock()
		if m.failing[id] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		out := []map[string]any{}
		for _, c := range m.children[id] {
			out = append(out, m.notes[c])
		}
		writeJSON(m.t, w, out)
	})
	mux.HandleFunc("POST /api/notes/renotes", func(w http.ResponseWriter, r *http.Request) {
		out := make([]map[string]any, m.renotes)
		for i := range out {
			out[i] = map[string]any{"id": "rn" + string(rune('a'+i))}
		}
		writeJSON(m.t, w, out)
	})
	return mux
}

func (m *misskeyTree) requestedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requested...)
}

func nodeInfoHandler(t *testing.T, software string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/nodeinfo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"links": []map[string]string{{
			"rel":  "http://nodeinfo.diaspora.software/ns/schema/2.0",
			"href": "https://" + r.URL.Host + "/nodeinfo/2.0",
		}}})
	})
	mux.HandleFunc("GET /nodeinfo/2.0", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"software": map[string]string{"name": software, "version": "1.0"}})
	})
	return mux
}
