package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mdpad/mdpad/internal/document/repository"
	"github.com/mdpad/mdpad/internal/document/service"
	"github.com/mdpad/mdpad/internal/ratelimit"
	"github.com/mdpad/mdpad/internal/validation"
)

func newRouter(t *testing.T, limits Limits) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := service.New(repository.NewMemoryRepo())
	New(svc, ratelimit.NewMemory(), limits).Register(r)
	return r
}

func do(r *gin.Engine, method, path, body, client string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if client != "" {
		req.Header.Set("X-Forwarded-For", client)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func create(t *testing.T, r *gin.Engine, body string) map[string]any {
	t.Helper()
	w := do(r, http.MethodPost, "/api/documents", body, "1.2.3.4")
	require.Equal(t, http.StatusCreated, w.Code)
	return decode(t, w)
}

func TestCreateThenRead_EditKeyNeverLeaks(t *testing.T) {
	r := newRouter(t, DefaultLimits())

	cr := create(t, r, `{"title":"Notes","content":"hi"}`)
	editKey, _ := cr["edit_key"].(string)
	require.GreaterOrEqual(t, len(editKey), 32)
	require.NotEmpty(t, cr["id"])
	require.NotEmpty(t, cr["slug"])

	w := do(r, http.MethodGet, "/api/documents/"+cr["slug"].(string), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "edit_key")
	require.NotContains(t, w.Body.String(), editKey)

	got := decode(t, w)
	require.Equal(t, "Notes", got["title"])
	require.Equal(t, "hi", got["content"])
	require.EqualValues(t, 1, got["view_count"])
}

func TestCreate_Defaults(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	cr := create(t, r, `{}`)

	w := do(r, http.MethodGet, "/api/documents/"+cr["id"].(string), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	require.Equal(t, "Untitled Document", got["title"])
	require.Equal(t, "", got["content"])
}

func TestCreate_InvalidTitle(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	body := fmt.Sprintf(`{"title":%q}`, strings.Repeat("t", 201))
	w := do(r, http.MethodPost, "/api/documents", body, "1.2.3.4")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRead_NotFound(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	require.Equal(t, http.StatusNotFound,
		do(r, http.MethodGet, "/api/documents/missing-ab12", "", "").Code)
	require.Equal(t, http.StatusNotFound,
		do(r, http.MethodGet, "/api/documents/11111111-2222-3333-4444-555555555555", "", "").Code)
}

func TestUpdate_WithCorrectKey(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	cr := create(t, r, `{"title":"Notes","content":"v1"}`)

	body := fmt.Sprintf(`{"content":"v2","edit_key":%q}`, cr["edit_key"])
	w := do(r, http.MethodPut, "/api/documents/"+cr["slug"].(string), body, "1.2.3.4")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode(t, w)
	require.Equal(t, "v2", got["content"])
	require.Equal(t, "Notes", got["title"], "omitted title stays unchanged")
	require.NotContains(t, w.Body.String(), "edit_key")
}

func TestUpdate_WrongKeyLeavesDocumentUnchanged(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	cr := create(t, r, `{"title":"Notes","content":"v1"}`)
	slug := cr["slug"].(string)

	w := do(r, http.MethodPut, "/api/documents/"+slug,
		`{"content":"hacked","edit_key":"wrong-but-long-enough"}`, "1.2.3.4")
	require.Equal(t, http.StatusForbidden, w.Code)

	got := decode(t, do(r, http.MethodGet, "/api/documents/"+slug, "", ""))
	require.Equal(t, "v1", got["content"])
}

func TestUpdate_MalformedKeyIs400(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	cr := create(t, r, `{"title":"Notes"}`)

	w := do(r, http.MethodPut, "/api/documents/"+cr["slug"].(string),
		`{"content":"x","edit_key":"short"}`, "1.2.3.4")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdate_OversizedContentRejectedWithoutPartialWrite(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	cr := create(t, r, `{"title":"Notes","content":"v1"}`)
	slug := cr["slug"].(string)

	big := strings.Repeat("x", validation.MaxContentBytes+1)
	body := fmt.Sprintf(`{"title":"New","content":%q,"edit_key":%q}`, big, cr["edit_key"])
	w := do(r, http.MethodPut, "/api/documents/"+slug, body, "1.2.3.4")
	require.Equal(t, http.StatusBadRequest, w.Code)

	got := decode(t, do(r, http.MethodGet, "/api/documents/"+slug, "", ""))
	require.Equal(t, "Notes", got["title"])
	require.Equal(t, "v1", got["content"])
}

func TestUpdate_NotFound(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	w := do(r, http.MethodPut, "/api/documents/missing-ab12",
		`{"content":"x","edit_key":"long-enough-key"}`, "1.2.3.4")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidate_OnlyEverReturnsValid(t *testing.T) {
	r := newRouter(t, DefaultLimits())
	cr := create(t, r, `{"title":"Notes"}`)
	id := cr["id"].(string)

	cases := []struct {
		path  string
		body  string
		valid bool
	}{
		{"/api/documents/" + id + "/validate", fmt.Sprintf(`{"edit_key":%q}`, cr["edit_key"]), true},
		{"/api/documents/" + id + "/validate", `{"edit_key":"wrong-but-long-enough"}`, false},
		{"/api/documents/" + id + "/validate", `{"edit_key":"short"}`, false},
		{"/api/documents/" + id + "/validate", `{}`, false},
		{"/api/documents/missing-ab12/validate", fmt.Sprintf(`{"edit_key":%q}`, cr["edit_key"]), false},
		{"/api/documents/" + id + "/validate", `not json`, false},
	}
	for _, tc := range cases {
		w := do(r, http.MethodPost, tc.path, tc.body, "1.2.3.4")
		require.Equal(t, http.StatusOK, w.Code, "validate must always answer 200")
		got := decode(t, w)
		require.Len(t, got, 1, "validate must expose nothing but the valid flag")
		require.Equal(t, tc.valid, got["valid"])
	}
}

func TestCreate_RateLimited(t *testing.T) {
	limits := DefaultLimits()
	limits.CreatePerWindow = 2
	r := newRouter(t, limits)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/documents", `{}`, "1.2.3.4").Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/documents", `{}`, "1.2.3.4").Code)
	require.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/documents", `{}`, "1.2.3.4").Code)

	// reads stay public and unthrottled
	require.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/documents/missing-ab12", "", "1.2.3.4").Code)
	// other clients keep their own creation budget
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/documents", `{}`, "5.6.7.8").Code)
}

func TestUpdate_RateLimitedPerDocument(t *testing.T) {
	limits := DefaultLimits()
	limits.UpdatePerWindow = 2
	limits.UpdateWindow = time.Minute
	r := newRouter(t, limits)

	a := create(t, r, `{"title":"A"}`)
	b := create(t, r, `{"title":"B"}`)

	put := func(m map[string]any) int {
		body := fmt.Sprintf(`{"content":"x","edit_key":%q}`, m["edit_key"])
		return do(r, http.MethodPut, "/api/documents/"+m["slug"].(string), body, "1.2.3.4").Code
	}

	require.Equal(t, http.StatusOK, put(a))
	require.Equal(t, http.StatusOK, put(a))
	require.Equal(t, http.StatusTooManyRequests, put(a))
	// same client, different document: separate budget
	require.Equal(t, http.StatusOK, put(b))
}
