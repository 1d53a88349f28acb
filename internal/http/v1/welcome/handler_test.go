package welcome

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ibm-devops/code-engine-welcome/internal/message"
	applog "github.com/ibm-devops/code-engine-welcome/internal/platform/logging"
	appmiddleware "github.com/ibm-devops/code-engine-welcome/internal/platform/middleware"
	"github.com/ibm-devops/code-engine-welcome/internal/platform/respond"
)

func newTestRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("WelcomeTest", "test"))
	Register(api)
	return router
}

func TestGetJSON(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/", "/welcome"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set(chimiddleware.RequestIDHeader, "welcome-get-json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.Code)
			}
			if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %s", ct)
			}

			var data Data
			if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
				t.Fatalf("json unmarshal: %v", err)
			}
			if data.Message != message.Welcome {
				t.Errorf("expected %q, got %q", message.Welcome, data.Message)
			}
		})
	}
}

func TestGetCBOR(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Errorf("expected application/cbor, got %s", ct)
	}

	var data Data
	if err := cbor.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if data.Message != message.Welcome {
		t.Errorf("expected %q, got %q", message.Welcome, data.Message)
	}
}

func TestGetIsIdempotent(t *testing.T) {
	router := newTestRouter()

	var first string
	for i := range 3 {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/welcome", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i, resp.Code)
		}
		if i == 0 {
			first = resp.Body.String()
			continue
		}
		if resp.Body.String() != first {
			t.Fatalf("call %d: body changed from %q to %q", i, first, resp.Body.String())
		}
	}
}

func TestGetLogsAtDebugWithPathField(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(applog.WithLogger(r.Context(), logger)))
		})
	})
	Register(humachi.New(router, huma.DefaultConfig("WelcomeTest", "test")))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/welcome", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	if n := recorded.FilterLevelExact(zapcore.InfoLevel).Len(); n != 0 {
		t.Fatalf("expected no INFO entries from the handler, got %d", n)
	}
	entries := recorded.FilterMessage("welcome get").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 welcome get entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Fatalf("expected DEBUG level, got %s", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/welcome" {
		t.Fatalf("expected path field /welcome, got %v", fields["path"])
	}
	if fields["operation"] != "welcome" {
		t.Fatalf("expected operation field welcome, got %v", fields["operation"])
	}
}
