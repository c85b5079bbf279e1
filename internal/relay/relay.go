// Package relay forwards an image and the conversation so far to a
// multimodal model and keeps the per-session transcript.
package relay

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"vet-chatter/internal/history"
	"vet-chatter/internal/imaging"
	"vet-chatter/internal/llm"
	"vet-chatter/internal/locale"
	"vet-chatter/internal/storage"
)

var errEmptyReply = errors.New("model returned an empty reply")

type ChatRequest struct {
	SessionID   string
	Image       []byte
	UserMessage string
	UserReply   string
	Lang        string
}

type ChatResult struct {
	Response string
	Lang     locale.Lang
	Model    string
}

type Options struct {
	// Provider is recorded with every event.
	Provider string
	// Timeout bounds a single model call. Zero means no extra bound.
	Timeout  time.Duration
	Recorder storage.Recorder
}

type Service struct {
	llmClient llm.Client
	history   *history.Manager
	recorder  storage.Recorder
	provider  string
	timeout   time.Duration
	now       func() time.Time
}

func New(llmClient llm.Client, h *history.Manager, opts Options) *Service {
	if h == nil {
		h = history.NewManager()
	}
	return &Service{
		llmClient: llmClient,
		history:   h,
		recorder:  opts.Recorder,
		provider:  opts.Provider,
		timeout:   opts.Timeout,
		now:       time.Now,
	}
}

// History exposes the transcript store, mainly for sweeping and tests.
func (s *Service) History() *history.Manager { return s.history }

// Chat validates the request, calls the model once and, only if the call
// succeeds, commits the user turns and the assistant reply together.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	lang, err := locale.Parse(req.Lang)
	if err != nil {
		return ChatResult{}, &ValidationError{Lang: locale.Default, Key: locale.MsgInvalidLang, Err: err}
	}

	img, err := imaging.Validate(req.Image)
	if err != nil {
		key := locale.MsgInvalidImage
		switch {
		case errors.Is(err, imaging.ErrEmpty):
			key = locale.MsgMissingImage
		case errors.Is(err, imaging.ErrUnsupported):
			key = locale.MsgUnsupportedFormat
		case errors.Is(err, imaging.ErrTooLarge):
			key = locale.MsgImageTooLarge
		}
		return ChatResult{}, &ValidationError{Lang: lang, Key: key, Err: err}
	}

	sessionID := sessionOrDefault(req.SessionID)

	var pending []llm.Message
	if msg := strings.TrimSpace(req.UserMessage); msg != "" {
		pending = append(pending, llm.Message{Role: llm.RoleUser, Content: msg})
	}
	if reply := strings.TrimSpace(req.UserReply); reply != "" {
		pending = append(pending, llm.Message{Role: llm.RoleUser, Content: reply})
	}

	msgs := append(s.history.Get(sessionID), pending...)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.llmClient.Generate(callCtx, llm.Request{
		Instruction: Instruction(lang),
		Image:       llm.Image{Data: img.Data, MIMEType: img.MIMEType},
		Messages:    msgs,
	})
	if err == nil && strings.TrimSpace(resp.Content) == "" {
		err = errEmptyReply
	}

	ev := storage.Event{
		ID:          uuid.NewString(),
		Timestamp:   s.now().UTC(),
		SessionID:   sessionID,
		Lang:        string(lang),
		UserMessage: req.UserMessage,
		UserReply:   req.UserReply,
		Provider:    s.provider,
	}

	if err != nil {
		log.Printf("❌ LLM call failed [session=%s, provider=%s]: %v", sessionID, s.provider, err)
		ev.Error = err.Error()
		s.record(ev)
		return ChatResult{}, &UpstreamError{Lang: lang, Err: err}
	}

	s.history.Commit(sessionID, append(pending, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})...)

	log.Printf("LLM response [session=%s, model=%s, tokens: prompt=%d, completion=%d, total=%d]",
		sessionID, resp.Model, resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)

	ev.AssistantResponse = resp.Content
	ev.Model = resp.Model
	ev.PromptTokens = resp.PromptTokens
	ev.CompletionTokens = resp.CompletionTokens
	ev.TotalTokens = resp.TotalTokens
	s.record(ev)

	return ChatResult{Response: resp.Content, Lang: lang, Model: resp.Model}, nil
}

// Reset clears the session transcript and returns the localized
// confirmation.
func (s *Service) Reset(sessionID, rawLang string) (string, error) {
	lang, err := locale.Parse(rawLang)
	if err != nil {
		return "", &ValidationError{Lang: locale.Default, Key: locale.MsgInvalidLang, Err: err}
	}
	sessionID = sessionOrDefault(sessionID)
	s.history.Reset(sessionID)
	log.Printf("🧹 Conversation cleared [session=%s]", sessionID)
	return locale.Text(lang, locale.MsgCleared), nil
}

func (s *Service) record(ev storage.Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.AppendInteraction(ev); err != nil {
		log.Printf("⚠️ failed to record interaction: %v", err)
	}
}

func sessionOrDefault(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return history.DefaultSession
}
