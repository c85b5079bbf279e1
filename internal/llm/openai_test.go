package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIClient_GenerateSendsImageAndTranscript(t *testing.T) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	var referer string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		referer = r.Header.Get("HTTP-Referer")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"vision-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Coccidiosis. Amprolium."},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer srv.Close()

	c := NewOpenAI("sk-test", srv.URL+"/v1", "vision-test", "https://example.org", "vet")
	resp, err := c.Generate(context.Background(), Request{
		Instruction: "be a vet",
		Image:       Image{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"},
		Messages: []Message{
			{Role: RoleUser, Content: "bloody droppings"},
			{Role: RoleAssistant, Content: "How old are the birds?"},
			{Role: RoleUser, Content: "three weeks"},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Content != "Coccidiosis. Amprolium." || resp.TotalTokens != 15 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if referer != "https://example.org" {
		t.Fatalf("referer header not injected: %q", referer)
	}
	if body.Model != "vision-test" || len(body.Messages) != 5 {
		t.Fatalf("unexpected request: model=%s messages=%d", body.Model, len(body.Messages))
	}
	if body.Messages[0].Role != "system" {
		t.Fatalf("first message should be system, got %s", body.Messages[0].Role)
	}
	if !strings.Contains(string(body.Messages[1].Content), "data:image/png;base64,") {
		t.Fatalf("image part missing: %s", body.Messages[1].Content)
	}
	if body.Messages[3].Role != "assistant" {
		t.Fatalf("assistant role lost: %s", body.Messages[3].Role)
	}
}

func TestOpenAIClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	c := NewOpenAI("sk-test", srv.URL+"/v1", "vision-test", "", "")
	if _, err := c.Generate(context.Background(), Request{Instruction: "x"}); err == nil {
		t.Fatalf("expected error on 429")
	}
}
