package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API. Each call picks one of the
// configured API keys at random.
type GeminiClient struct {
	clients []*genai.Client
	model   string
}

func NewGemini(ctx context.Context, apiKeys []string, model string) (*GeminiClient, error) {
	var clients []*genai.Client
	for _, key := range apiKeys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cl, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init gemini client: %w", err)
		}
		clients = append(clients, cl)
	}
	if len(clients) == 0 {
		return nil, errors.New("gemini: no api keys configured")
	}
	return &GeminiClient{clients: clients, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (Response, error) {
	cl := c.clients[rand.IntN(len(c.clients))]

	var cfg *genai.GenerateContentConfig
	if req.Instruction != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.Instruction, genai.RoleUser),
		}
	}

	resp, err := cl.Models.GenerateContent(ctx, c.model, geminiContents(req), cfg)
	if err != nil {
		return Response{}, fmt.Errorf("gemini generate content failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return Response{}, errors.New("gemini returned empty response")
	}

	out := Response{Content: resp.Text(), Model: c.model}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = int(u.PromptTokenCount)
		out.CompletionTokens = int(u.CandidatesTokenCount)
		out.TotalTokens = int(u.TotalTokenCount)
	}
	return out, nil
}

// geminiContents merges consecutive messages of the same role into one
// content block and always ends on a user turn. The image opens the first
// user turn, unless the transcript ends with a model reply; then it becomes
// the trailing user turn.
func geminiContents(req Request) []*genai.Content {
	var out []*genai.Content
	var cur *genai.Content

	push := func(role genai.Role, part *genai.Part) {
		if cur != nil && cur.Role == string(role) {
			cur.Parts = append(cur.Parts, part)
			return
		}
		cur = genai.NewContentFromParts([]*genai.Part{part}, role)
		out = append(out, cur)
	}

	hasImage := len(req.Image.Data) > 0
	trailing := len(req.Messages) > 0 && req.Messages[len(req.Messages)-1].Role == RoleAssistant

	if hasImage && !trailing {
		push(genai.RoleUser, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		push(role, genai.NewPartFromText(m.Content))
	}
	if hasImage && trailing {
		push(genai.RoleUser, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	return out
}
