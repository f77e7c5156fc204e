package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopease/api/internal/repositories"
)

type stubHealthRepo struct {
	report repositories.HealthReport
	err    error
}

func (s *stubHealthRepo) Collect(context.Context) (repositories.HealthReport, error) {
	return s.report, s.err
}

func TestRouterUnknownRoute(t *testing.T) {
	router := NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "route_not_found" {
		t.Errorf("unexpected error code %v", body["error"])
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := NewRouter(WithOrderRoutes(func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/orders", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "method_not_allowed" {
		t.Errorf("unexpected error code %v", body["error"])
	}
}

func TestRouterUnconfiguredGroupsReturnNotImplemented(t *testing.T) {
	router := NewRouter()

	for _, target := range []string{"/api/v1/orders", "/api/v1/coupons", "/api/v1/admin/orders", "/api/v1/admin/coupons"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusNotImplemented {
			t.Errorf("%s: expected 501, got %d", target, rec.Code)
		}
	}
}

func TestRouterAppliesAdminMiddleware(t *testing.T) {
	guard := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Test-Admin") != "yes" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	registrar := func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	}

	router := NewRouter(
		WithOrderRoutes(registrar),
		WithAdminMiddlewares(guard),
		WithAdminOrderRoutes(registrar),
	)

	// The guard protects admin routes only.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("storefront route: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("unguarded admin request: expected 403, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	req.Header.Set("X-Test-Admin", "yes")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("guarded admin request: expected 200, got %d", rec.Code)
	}
}

func TestRouterCustomBasePath(t *testing.T) {
	router := NewRouter(
		WithBasePath("/api/v2"),
		WithOrderRoutes(func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		}),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/orders", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on custom base path, got %d", rec.Code)
	}
}

func TestHealthzEndpoint(t *testing.T) {
	router := NewRouter(WithHealthHandlers(NewHealthHandlers(WithHealthVersion("1.4.2"))))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("unexpected status %v", body["status"])
	}
	if body["version"] != "1.4.2" {
		t.Errorf("unexpected version %v", body["version"])
	}
}

func TestReadyzEndpointReportsChecks(t *testing.T) {
	repo := &stubHealthRepo{
		report: repositories.HealthReport{
			Status: repositories.HealthStatusOK,
			Checks: map[string]repositories.HealthCheck{
				"firestore": {Status: repositories.HealthStatusOK, Latency: 12 * time.Millisecond},
			},
			GeneratedAt: time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC),
		},
	}
	router := NewRouter(WithHealthHandlers(NewHealthHandlers(WithHealthRepository(repo))))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	checks, ok := body["checks"].(map[string]any)
	if !ok {
		t.Fatalf("expected checks map, got %v", body)
	}
	firestore, ok := checks["firestore"].(map[string]any)
	if !ok || firestore["status"] != repositories.HealthStatusOK {
		t.Errorf("unexpected firestore check %v", checks["firestore"])
	}
}

func TestReadyzEndpointFailsOnErrorStatus(t *testing.T) {
	repo := &stubHealthRepo{
		report: repositories.HealthReport{
			Status: repositories.HealthStatusError,
			Checks: map[string]repositories.HealthCheck{
				"firestore": {Status: repositories.HealthStatusError, Error: "deadline exceeded"},
			},
		},
	}
	router := NewRouter(WithHealthHandlers(NewHealthHandlers(WithHealthRepository(repo))))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestReadyzEndpointFailsWhenCollectErrors(t *testing.T) {
	repo := &stubHealthRepo{err: errors.New("firestore unreachable")}
	router := NewRouter(WithHealthHandlers(NewHealthHandlers(WithHealthRepository(repo))))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
