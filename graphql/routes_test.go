package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milaboratories/clonotype-browser/app"
	"github.com/milaboratories/clonotype-browser/config"
	"github.com/milaboratories/clonotype-browser/internal/testutil"
)

type response struct {
	Data   map[string]interface{}   `json:"data"`
	Errors []map[string]interface{} `json:"errors"`
}

func newTestRouter(t *testing.T) *httprouter.Router {
	cfg := config.NewConfigMock().Default()
	routes, err := NewRouteGenerator(app.New(testutil.NewFixture().Store, cfg), cfg).Routes("/graphql")
	require.NoError(t, err)
	require.Len(t, routes, 2)

	router := httprouter.New()
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
	return router
}

func TestRoutesGet(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape("{ runAllowed }"), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Empty(t, body.Errors)
	assert.Equal(t, false, body.Data["runAllowed"])
}

func TestRoutesPostWithVariables(t *testing.T) {
	router := newTestRouter(t)

	request, err := json.Marshal(RequestBody{
		Query:     `query ($filter: String!) { hasTwoAxisColumn(filter: $filter) }`,
		Variables: map[string]interface{}{"filter": `{"type": "isNA", "column": ` + quoteJSON(t, testutil.Abundance.Ref()) + `}`},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBuffer(request)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Empty(t, body.Errors)
	assert.Equal(t, true, body.Data["hasTwoAxisColumn"])
}

func TestRoutesInvalidRequests(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?query=x&variables=%7B", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape("{ unknownField }"), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var body response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotEmpty(t, body.Errors)
}

func TestPlaygroundHandle(t *testing.T) {
	router := httprouter.New()
	router.GET("/graphql-playground", GetPlaygroundHandle("http://localhost:8080/graphql"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql-playground", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "endpoint: 'http://localhost:8080/graphql'")
}

func quoteJSON(t *testing.T, s string) string {
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return string(data)
}
