package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizroom-service/internal/domain"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerateParsesFencedJSON(t *testing.T) {
	content := "Here are your questions:\n```json\n" + `[
		{"type":"short","question":"Define speed.","answer":"Distance per unit time.","keywords":["distance","time"]},
		{"type":"mcq","question":"Unit of force?","answer":"The newton.","keywords":["newton"],"options":["Joule","Newton","Watt","Pascal"],"correctOption":2}
	]` + "\n```"
	server := chatServer(t, content)
	defer server.Close()

	provider := NewProvider(server.URL, "test-key", "test-model", 5*time.Second)
	questions, err := provider.Generate(context.Background(), domain.Filters{Grade: 9, Subject: "Science", Chapter: "Motion"}, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Type != domain.TypeShort || questions[0].Grade != 9 || questions[0].Source != "ai" {
		t.Fatalf("unexpected first question %+v", questions[0])
	}
	if questions[1].Type != domain.TypeMCQ || questions[1].CorrectOption != 2 {
		t.Fatalf("unexpected mcq %+v", questions[1])
	}
	if questions[0].ID == questions[1].ID || questions[0].ID == "" {
		t.Fatalf("expected distinct generated ids")
	}
}

func TestGenerateDropsInvalidElements(t *testing.T) {
	content := `[
		{"type":"mcq","question":"Broken","answer":"x","keywords":[],"options":["a","b"],"correctOption":1},
		{"type":"short","question":"Good one?","answer":"Yes.","keywords":["yes"]}
	]`
	server := chatServer(t, content)
	defer server.Close()

	provider := NewProvider(server.URL, "test-key", "", 5*time.Second)
	questions, err := provider.Generate(context.Background(), domain.Filters{}, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(questions) != 1 || questions[0].Question != "Good one?" {
		t.Fatalf("expected only the valid question, got %+v", questions)
	}
}

func TestGenerateRejectsProseOnlyResponse(t *testing.T) {
	server := chatServer(t, "I cannot generate questions right now.")
	defer server.Close()

	provider := NewProvider(server.URL, "test-key", "", 5*time.Second)
	if _, err := provider.Generate(context.Background(), domain.Filters{}, 3); err == nil {
		t.Fatalf("expected error for prose-only response")
	}
}

func TestGenerateMissingCredential(t *testing.T) {
	provider := NewProvider("http://localhost:0", "", "", time.Second)
	if _, err := provider.Generate(context.Background(), domain.Filters{}, 3); err != ErrMissingCredential {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestGenerateNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewProvider(server.URL, "test-key", "", 5*time.Second)
	if _, err := provider.Generate(context.Background(), domain.Filters{}, 3); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestGenerateHonorsContextTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	provider := NewProvider(server.URL, "test-key", "", 30*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := provider.Generate(ctx, domain.Filters{}, 3)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("context timeout not honored")
	}
}
