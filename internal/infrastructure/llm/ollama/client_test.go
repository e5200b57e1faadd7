package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Policy{
		MaxAttempts: 3,
		BaseDelay:   1,
		MaxDelay:    1,
		DelayFactor: 1,
	})
}

func TestCompleteSendsPromptAndReturnsResponse(t *testing.T) {
	var capturedModel, capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedModel, _ = payload["model"].(string)
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"  {\"ok\": true}  "}`))
	}))
	defer server.Close()

	client := New(server.URL, "llama3.1:8b", testExecutor())
	got, err := client.Complete(context.Background(), "map this rfp")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"ok": true}` {
		t.Fatalf("response = %q", got)
	}
	if capturedModel != "llama3.1:8b" || capturedPrompt != "map this rfp" {
		t.Fatalf("request = model %q prompt %q", capturedModel, capturedPrompt)
	}
}

func TestCompleteRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"response":"{}"}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", testExecutor())
	if _, err := client.Complete(context.Background(), "p"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestCompleteDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "gen", testExecutor())
	_, err := client.Complete(context.Background(), "p")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestCompleteWrapsTransientAsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad upstream", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "gen", testExecutor())
	_, err := client.Complete(context.Background(), "p")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("err = %v, want temporary kind", err)
	}
}
