package storage

import "time"

// Event is one relay outcome. Exactly one of AssistantResponse and Error is
// set.
type Event struct {
	ID                string    `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	SessionID         string    `json:"session_id"`
	Lang              string    `json:"lang"`
	UserMessage       string    `json:"user_message,omitempty"`
	UserReply         string    `json:"user_reply,omitempty"`
	AssistantResponse string    `json:"assistant_response,omitempty"`
	Error             string    `json:"error,omitempty"`
	Provider          string    `json:"provider"`
	Model             string    `json:"model,omitempty"`
	PromptTokens      int       `json:"prompt_tokens,omitempty"`
	CompletionTokens  int       `json:"completion_tokens,omitempty"`
	TotalTokens       int       `json:"total_tokens,omitempty"`
}

// Failed reports whether the upstream call behind the event failed.
func (e Event) Failed() bool { return e.Error != "" }

// Recorder abstracts persistence of interaction events.
// LoadInteractions should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
