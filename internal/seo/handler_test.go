package seo

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *chi.Mux {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Route("/ai", func(r chi.Router) {
		h.MountRoutes(r)
	})
	return r
}

func TestHandleAnalyzePage(t *testing.T) {
	router := newTestRouter()

	body, err := json.Marshal(map[string]string{
		"pageUrl":     "https://royalcarriage.test/ohare",
		"pageName":    "O'Hare",
		"pageContent": goodPage,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ai/analyze-page", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Success  bool     `json:"success"`
		Analysis Analysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Greater(t, resp.Analysis.SEOScore, 0)
}

func TestHandleAnalyzePageMissingFields(t *testing.T) {
	router := newTestRouter()

	cases := []string{
		`{"pageUrl":"https://x.test","pageName":"x"}`,
		`{"pageContent":"<h1>x</h1>","pageName":"x"}`,
		`{"pageUrl":"https://x.test","pageContent":"<h1>x</h1>"}`,
		`{broken`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/ai/analyze-page", strings.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusBadRequest, rr.Code, "body=%s", body)
	}
}

func TestHandleBatchAnalyze(t *testing.T) {
	router := newTestRouter()

	body, err := json.Marshal(map[string]any{
		"pages": []map[string]string{
			{"url": "https://x.test/a", "name": "A", "content": goodPage},
			{"url": "https://x.test/b", "name": "B", "content": ""},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ai/batch-analyze", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Success      bool          `json:"success"`
		TotalPages   int           `json:"totalPages"`
		SuccessCount int           `json:"successCount"`
		Results      []batchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.TotalPages)
	require.Equal(t, 1, resp.SuccessCount)
	// Results keep request order.
	require.Equal(t, "https://x.test/a", resp.Results[0].URL)
	require.True(t, resp.Results[0].Success)
	require.False(t, resp.Results[1].Success)
}

func TestHandleBatchAnalyzeMissingPages(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/ai/batch-analyze", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleLocationContent(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/ai/location-content", strings.NewReader(`{"location":"Evanston","pageType":"suburb"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Serving Evanston")

	req = httptest.NewRequest(http.MethodPost, "/ai/location-content", strings.NewReader(`{"location":"Evanston"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleVehicleContent(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/ai/vehicle-content", strings.NewReader(`{"vehicle":"suv"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "up to 6 passengers")

	req = httptest.NewRequest(http.MethodPost, "/ai/vehicle-content", strings.NewReader(`{}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
