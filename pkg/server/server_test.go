package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/graphrecall/recall/pkg/config"
	"github.com/graphrecall/recall/pkg/search"
	"github.com/graphrecall/recall/pkg/types"
)

type stubService struct{}

func (stubService) Search(ctx context.Context, query string, referenceTime time.Time, cfg *search.Config) (*types.SearchResults, error) {
	return &types.SearchResults{Edges: []*types.EntityEdge{}}, nil
}

func (stubService) RetrieveEpisodes(ctx context.Context, referenceTime time.Time, limit int) ([]*types.Node, error) {
	return nil, nil
}

func testServer() *Server {
	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8080
	cfg.Server.Mode = "test"

	srv := New(cfg, stubService{}, nil)
	srv.Setup()
	return srv
}

func TestServerRoutes(t *testing.T) {
	srv := testServer()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/live", "", http.StatusOK},
		{http.MethodPost, "/api/v1/search", `{"query":"q"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/memory", `{"query":"q"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/episodes", "", http.StatusOK},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		var req *http.Request
		if tt.body != "" {
			req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(tt.method, tt.path, nil)
		}

		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		if w.Code != tt.status {
			t.Errorf("%s %s: expected status %d, got %d: %s", tt.method, tt.path, tt.status, w.Code, w.Body.String())
		}
	}
}

func TestServerCORS(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d for preflight, got %d", http.StatusNoContent, w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", origin)
	}
}
