package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willckim/Purelytics/pkg/alternative"
	"github.com/willckim/Purelytics/pkg/data"
)

func setupTestRouter(t *testing.T) (*appConfig, http.Handler) {
	t.Helper()
	cfg, err := newAppConfig(appOptions{home: t.TempDir(), format: formatJSON})
	require.NoError(t, err)
	t.Cleanup(cfg.Close)
	return cfg, makeRouter(cfg)
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestScoreAPI(t *testing.T) {
	_, h := setupTestRouter(t)

	w := serve(t, h, http.MethodPost, "/api/score?save=true",
		`{"productName": "Hot Dogs", "category": "Meat", "ingredients": ["Sodium Nitrite", "High Fructose Corn Syrup", "Citric Acid"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var rep Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, 40, rep.Result.OverallScore)
	assert.NotEmpty(t, rep.ScanID)
	require.NotNil(t, rep.Alternatives)
	assert.Equal(t, alternative.CategoryMeat, rep.Alternatives.Category)

	w = serve(t, h, http.MethodGet, "/api/history/"+rep.ScanID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var s data.Scan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "Hot Dogs", s.ProductName)
	assert.NotEmpty(t, s.Report)

	w = serve(t, h, http.MethodGet, "/api/history?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []*data.Scan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestScoreAPI_Invalid(t *testing.T) {
	_, h := setupTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"ingredients": [`},
		{name: "number element", body: `{"ingredients": ["Salt", 1]}`},
		{name: "not an object", body: `["Salt"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, h, http.MethodPost, "/api/score", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var res map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.NotEmpty(t, res["error"])
		})
	}

	w := serve(t, h, http.MethodGet, "/api/score", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMatchAPI(t *testing.T) {
	_, h := setupTestRouter(t)

	w := serve(t, h, http.MethodGet, "/api/match?name=E250&name=Sea+Salt+Flakes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []*matchOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "sodium-nitrite", list[0].ID)
	assert.Equal(t, "salt", list[1].ID)

	w = serve(t, h, http.MethodGet, "/api/match", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlternativesAPI(t *testing.T) {
	_, h := setupTestRouter(t)

	w := serve(t, h, http.MethodGet, "/api/alternatives?category=supplement&score=88", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res alternative.Ranking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, alternative.CategorySupplement, res.Category)
	require.Len(t, res.Alternatives, 2)
	for _, a := range res.Alternatives {
		assert.Greater(t, a.Score, 88)
	}

	for _, q := range []string{"score=-1", "score=101", "score=abc"} {
		w = serve(t, h, http.MethodGet, "/api/alternatives?category=Snack&"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestHistoryAPI_NotFound(t *testing.T) {
	_, h := setupTestRouter(t)

	w := serve(t, h, http.MethodGet, "/api/history/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, h, http.MethodGet, "/api/history?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStateAPI(t *testing.T) {
	cfg, h := setupTestRouter(t)

	_, err := data.SaveAlias(cfg.DB, "Cure No 1", "sodium-nitrite")
	require.NoError(t, err)

	w := serve(t, h, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, w.Code)

	var state map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, int64(0), state["scan"])
	assert.Equal(t, int64(1), state["alias"])
}

func TestNewHTTPServer(t *testing.T) {
	cfg, _ := setupTestRouter(t)

	s := newHTTPServer(t.Context(), cfg, "127.0.0.1:0")
	assert.Equal(t, "127.0.0.1:0", s.Addr)
	assert.Equal(t, 1<<20, s.MaxHeaderBytes)
	assert.Equal(t, serverTimeoutSeconds*time.Second, s.ReadTimeout)
	require.NotNil(t, s.BaseContext)
	assert.Equal(t, t.Context(), s.BaseContext(nil))

	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
