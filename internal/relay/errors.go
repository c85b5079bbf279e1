package relay

import (
	"vet-chatter/internal/locale"
)

// ValidationError means the request was rejected before the model was
// called. Message is safe to show to the caller.
type ValidationError struct {
	Lang locale.Lang
	Key  locale.Key
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return "validation: " + e.Err.Error()
	}
	return "validation: " + locale.Text(locale.English, e.Key)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Message is the localized text for the caller.
func (e *ValidationError) Message() string { return locale.Text(e.Lang, e.Key) }

// UpstreamError wraps any failure of the model vendor. Err keeps the raw
// cause for logs only.
type UpstreamError struct {
	Lang locale.Lang
	Err  error
}

func (e *UpstreamError) Error() string { return "upstream: " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Message() string { return locale.Text(e.Lang, locale.MsgUpstreamFailed) }
