package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/soundguard/component"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	r := gin.New()
	r.GET("/", h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", rr.Body.String(), err)
	}
	return rr.Code, body
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		components []component.Health
		wantCode   int
		wantStatus string
	}{
		{"no checker data", nil, http.StatusOK, "healthy"},
		{"all healthy", []component.Health{{Name: "scratch", Status: component.StatusHealthy}}, http.StatusOK, "healthy"},
		{"degraded model", []component.Health{
			{Name: "scratch", Status: component.StatusHealthy},
			{Name: "runtime", Status: component.StatusDegraded, Message: "transcriber unavailable"},
		}, http.StatusOK, "degraded"},
		{"runtime down", []component.Health{{Name: "runtime", Status: component.StatusUnhealthy}}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			checker := func(context.Context) []component.Health { return tc.components }
			code, body := serve(t, Health("soundguard", checker))
			if code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, code)
			}
			if body["status"] != tc.wantStatus || body["service"] != "soundguard" {
				t.Errorf("unexpected body %v", body)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	code, body := serve(t, Info("soundguard"))
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["service"] != "soundguard" || body["version"] == "" {
		t.Errorf("unexpected body %v", body)
	}
}
