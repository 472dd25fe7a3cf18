package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pitchside/crease/internal/config"
)

// fakeService stands in for the chat-completions endpoint.
func fakeService(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"content": content}},
				},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testProvider(baseURL string) *chatProvider {
	return &chatProvider{
		name:    "groq",
		Model:   "llama-3.1-8b-instant",
		BaseURL: baseURL,
		APIKey:  "test-key",
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerate(t *testing.T) {
	srv := fakeService(t, http.StatusOK, "  Kohli leads the IPL run charts.  ")

	got, err := testProvider(srv.URL).Generate(context.Background(), "prompt", 180)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Kohli leads the IPL run charts." {
		t.Errorf("expected trimmed content, got %q", got)
	}
}

func TestGenerateAuthFailure(t *testing.T) {
	srv := fakeService(t, http.StatusUnauthorized, "")

	_, err := testProvider(srv.URL).Generate(context.Background(), "prompt", 180)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	_, err := testProvider(srv.URL).Generate(context.Background(), "prompt", 180)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	t.Cleanup(srv.Close)

	_, err := testProvider(srv.URL).Generate(context.Background(), "prompt", 180)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
}

func TestGenerateNetworkFailure(t *testing.T) {
	srv := fakeService(t, http.StatusOK, "unused")
	srv.Close()

	_, err := testProvider(srv.URL).Generate(context.Background(), "prompt", 180)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
}

func TestGenerateMissingKey(t *testing.T) {
	p := testProvider("http://unused")
	p.APIKey = ""

	_, err := p.Generate(context.Background(), "prompt", 180)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if p.IsConfigured() {
		t.Error("expected IsConfigured to be false without a key")
	}
}

func TestCreateProviderMissingCredential(t *testing.T) {
	t.Setenv("CREASE_TEST_KEY", "")

	_, err := CreateProvider(config.Narrative{Provider: "groq", APIKeyEnv: "CREASE_TEST_KEY"})
	if err == nil {
		t.Fatal("expected error for missing credential")
	}
	if !strings.Contains(err.Error(), "CREASE_TEST_KEY") {
		t.Errorf("expected env var name in error, got %v", err)
	}
}

func TestCreateProviderConfigured(t *testing.T) {
	t.Setenv("CREASE_TEST_KEY", "abc")

	p, err := CreateProvider(config.Narrative{
		Provider: "groq", Model: "llama-3.1-8b-instant",
		APIKeyEnv: "CREASE_TEST_KEY", TimeoutSeconds: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsConfigured() {
		t.Error("expected configured provider")
	}
}

func TestCreateProviderUnknown(t *testing.T) {
	t.Setenv("CREASE_TEST_KEY", "abc")

	if _, err := CreateProvider(config.Narrative{Provider: "cohere", APIKeyEnv: "CREASE_TEST_KEY"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("top_run_scorer_name: Kohli\n", "Who is the top run scorer?")

	for _, want := range []string{
		"IPL (Indian Premier League) cricket analyst",
		"top_run_scorer_name: Kohli",
		"Who is the top run scorer?",
		"Use ONLY the facts provided",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected %q in prompt", want)
		}
	}
}
