package auth

// Allowlist restricts which Telegram chats may use the bot. An empty
// allowlist admits every chat.
type Allowlist struct {
	allowed map[int64]bool
}

func NewAllowlist(ids []int64) *Allowlist {
	a := &Allowlist{allowed: make(map[int64]bool, len(ids))}
	for _, id := range ids {
		a.allowed[id] = true
	}
	return a
}

func (a *Allowlist) IsAllowed(chatID int64) bool {
	if a == nil || len(a.allowed) == 0 {
		return true
	}
	return a.allowed[chatID]
}
