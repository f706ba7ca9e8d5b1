package collection

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/bookmarks/internal/middleware"
	"github.com/rpattn/bookmarks/internal/repository"
)

type recordingObserver struct {
	kind  string
	count int
}

func (o *recordingObserver) ObserveQuery(_ string, kind string, count int) {
	o.kind = kind
	o.count = count
}

func newTestServer(t *testing.T) (http.Handler, *recordingObserver) {
	t.Helper()
	repo := repository.NewMemoryItemRepository()
	svc := NewService(repo, nil, nil, []string{"bookmarks"}, nil)
	seedBookmarks(t, svc)

	observer := &recordingObserver{}
	mux := http.NewServeMux()
	for pattern, handler := range NewHTTPHandler(svc, observer, nil).Routes() {
		mux.Handle(pattern, handler)
	}
	return middleware.DataLoaderMiddleware(repo)(mux), observer
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandlerQuery(t *testing.T) {
	server, observer := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/api/bookmarks?sort=Rank&field=Title,Rank&limit=2&offset=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"Title":"Backblaze","Rank":1},{"Title":"AWS Notes","Rank":3}]`, rec.Body.String())
	assert.Equal(t, "projected", observer.kind)
	assert.Equal(t, 2, observer.count)

	rec = do(t, server, http.MethodGet, "/api/bookmarks?field=Category", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"nom":"Cloud"},{"nom":"Storage"},{"nom":"Programming"}]`, rec.Body.String())

	rec = do(t, server, http.MethodGet, "/api/bookmarks?Title=nothing*", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandlerQueryErrors(t *testing.T) {
	server, _ := newTestServer(t)

	cases := map[string]int{
		"/api/bookmarks?Missing=x":          http.StatusBadRequest,
		"/api/bookmarks?limit=-1&offset=0":  http.StatusBadRequest,
		"/api/bookmarks?sort=,desc":         http.StatusBadRequest,
		"/api/unknown":                      http.StatusNotFound,
		"/api/bookmarks/not-a-uuid":         http.StatusNotFound,
		"/api/bookmarks/" + uuid.NewString(): http.StatusNotFound,
	}
	for target, status := range cases {
		rec := do(t, server, http.MethodGet, target, "")
		assert.Equal(t, status, rec.Code, target)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestHandlerCRUD(t *testing.T) {
	server, _ := newTestServer(t)

	rec := do(t, server, http.MethodPost, "/api/bookmarks", `{"Title":"Rust Book","Category":"Programming","Rank":7}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id, _ := created["Id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Rust Book", created["Title"])
	assert.Equal(t, float64(7), created["Rank"])

	rec = do(t, server, http.MethodGet, "/api/bookmarks/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rust Book")

	rec = do(t, server, http.MethodPut, "/api/bookmarks/"+id, `{"Title":"The Rust Book"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Rust Book")
	assert.NotContains(t, rec.Body.String(), "Programming")

	rec = do(t, server, http.MethodGet, "/api/bookmarks?Title=the*", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id)

	rec = do(t, server, http.MethodDelete, "/api/bookmarks/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, server, http.MethodDelete, "/api/bookmarks/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, server, http.MethodPost, "/api/bookmarks", `["not","an","object"]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
