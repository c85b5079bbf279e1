package auth

import "testing"

func TestAllowlist(t *testing.T) {
	open := NewAllowlist(nil)
	if !open.IsAllowed(42) {
		t.Fatalf("empty allowlist should admit everyone")
	}

	var nilList *Allowlist
	if !nilList.IsAllowed(42) {
		t.Fatalf("nil allowlist should admit everyone")
	}

	restricted := NewAllowlist([]int64{10, 20})
	if !restricted.IsAllowed(10) || !restricted.IsAllowed(20) {
		t.Fatalf("listed chats must be admitted")
	}
	if restricted.IsAllowed(30) {
		t.Fatalf("unlisted chat admitted")
	}
}
