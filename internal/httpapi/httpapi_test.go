package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/raggedblocks/pkg/pipeline"
	"github.com/matzehuels/raggedblocks/pkg/store"
)

const sampleTree = `{
  "kind": "node", "padding": 2,
  "children": [
    {"kind": "atom", "text": "hello"},
    {"kind": "newline"},
    {"kind": "atom", "text": "world"}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(pipeline.NewRunner(nil, nil, nil), store.NewMemoryStore(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func createDocument(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"name": "sample",
		"tree": json.RawMessage(sampleTree),
	})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/documents", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAlgorithms(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/algorithms")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Algorithms []string `json:"algorithms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Algorithms, 5)
	assert.Contains(t, out.Algorithms, "l1s+")
}

func TestDocumentLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := createDocument(t, ts)

	// Fetch it back.
	resp, err := http.Get(ts.URL + "/api/documents/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Name string          `json:"name"`
		Tree json.RawMessage `json:"tree"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "sample", doc.Name)
	assert.NotEmpty(t, doc.Tree)

	// It shows up in the listing.
	resp, err = http.Get(ts.URL + "/api/documents")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list struct {
		Documents []store.Info `json:"documents"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Documents, 1)
	assert.Equal(t, id, list.Documents[0].ID)

	// Delete and confirm.
	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/documents/"+id, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/documents/" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenderDocument(t *testing.T) {
	ts := newTestServer(t)
	id := createDocument(t, ts)

	resp, err := http.Get(ts.URL + "/api/documents/" + id + "/render?algorithm=l1s%2B&format=svg")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "hello")
}

func TestRenderOnce(t *testing.T) {
	ts := newTestServer(t)
	body, err := json.Marshal(map[string]any{"tree": json.RawMessage(sampleTree)})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/render?format=json&leading=6", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out struct {
		Algorithm string `json:"algorithm"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, pipeline.DefaultAlgorithm, out.Algorithm)
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t)
	id := createDocument(t, ts)

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		status int
	}{
		{"invalid tree", http.MethodPost, "/api/documents", `{"tree": {"kind": "oval"}}`, http.StatusBadRequest},
		{"missing tree", http.MethodPost, "/api/documents", `{"name": "x"}`, http.StatusBadRequest},
		{"unknown document", http.MethodGet, "/api/documents/nope/render", "", http.StatusNotFound},
		{"bad algorithm", http.MethodGet, "/api/documents/" + id + "/render?algorithm=l9", "", http.StatusBadRequest},
		{"bad format", http.MethodGet, "/api/documents/" + id + "/render?format=png", "", http.StatusBadRequest},
		{"bad leading", http.MethodGet, "/api/documents/" + id + "/render?leading=abc", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			var err error
			if tt.method == http.MethodPost {
				resp, err = http.Post(ts.URL+tt.url, "application/json", bytes.NewReader([]byte(tt.body)))
			} else {
				resp, err = http.Get(ts.URL + tt.url)
			}
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var out struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.NotEmpty(t, out.Code)
		})
	}
}
