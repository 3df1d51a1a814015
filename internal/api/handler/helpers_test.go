package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/arsw/blueprints/internal/blueprint"
)

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

// --- Mock service ---

type mockService struct {
	createFn      func(ctx context.Context, author, name string, points []blueprint.Point) (*blueprint.Blueprint, error)
	fetchFn       func(ctx context.Context, author, name string) (*blueprint.Blueprint, error)
	fetchAuthorFn func(ctx context.Context, author string) ([]blueprint.Blueprint, error)
	fetchAllFn    func(ctx context.Context) ([]blueprint.Blueprint, error)
	appendFn      func(ctx context.Context, author, name string, p blueprint.Point) error
}

func (m *mockService) CreateBlueprint(ctx context.Context, author, name string, points []blueprint.Point) (*blueprint.Blueprint, error) {
	if m.createFn != nil {
		return m.createFn(ctx, author, name, points)
	}
	return blueprint.New(author, name, points)
}

func (m *mockService) FetchBlueprint(ctx context.Context, author, name string) (*blueprint.Blueprint, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, author, name)
	}
	return nil, blueprint.ErrNotFound
}

func (m *mockService) FetchByAuthor(ctx context.Context, author string) ([]blueprint.Blueprint, error) {
	if m.fetchAuthorFn != nil {
		return m.fetchAuthorFn(ctx, author)
	}
	return nil, blueprint.ErrNotFound
}

func (m *mockService) FetchAll(ctx context.Context) ([]blueprint.Blueprint, error) {
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx)
	}
	return []blueprint.Blueprint{}, nil
}

func (m *mockService) AppendPoint(ctx context.Context, author, name string, p blueprint.Point) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, author, name, p)
	}
	return nil
}
