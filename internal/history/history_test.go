package history

import (
	"sync"
	"testing"
	"time"

	"vet-chatter/internal/llm"
)

func user(s string) llm.Message { return llm.Message{Role: llm.RoleUser, Content: s} }
func assistant(s string) llm.Message { return llm.Message{Role: llm.RoleAssistant, Content: s} }

func TestHistoryCommitGetReset(t *testing.T) {
	h := NewManager()
	sessA := "a"
	sessB := "b"

	h.Commit(sessA, user("hello"), assistant("hi"))
	h.Commit(sessB, user("foo"), assistant("bar"))

	msgsA := h.Get(sessA)
	msgsB := h.Get(sessB)

	if len(msgsA) != 2 || len(msgsB) != 2 {
		t.Fatalf("unexpected lengths: A=%d B=%d", len(msgsA), len(msgsB))
	}
	if msgsA[0].Role != llm.RoleUser || msgsA[0].Content != "hello" {
		t.Fatalf("unexpected A[0]: %+v", msgsA[0])
	}
	if msgsA[1].Role != llm.RoleAssistant || msgsA[1].Content != "hi" {
		t.Fatalf("unexpected A[1]: %+v", msgsA[1])
	}
	if msgsB[0].Content != "foo" || msgsB[1].Content != "bar" {
		t.Fatalf("unexpected B: %+v", msgsB)
	}

	// Ensure copy semantics (modifying returned slice does not affect internal state)
	msgsA[0] = llm.Message{Role: llm.RoleUser, Content: "mutated"}
	if h.Get(sessA)[0].Content != "hello" {
		t.Fatalf("internal state mutated via returned slice")
	}

	h.Reset(sessA)
	if h.Len(sessA) != 0 {
		t.Fatalf("reset did not clear session A")
	}
	if h.Len(sessB) != 2 {
		t.Fatalf("reset should not affect other sessions")
	}
	h.Reset(sessA)
	if h.Len(sessA) != 0 {
		t.Fatalf("second reset changed state")
	}
}

func TestCommitIsAtomic(t *testing.T) {
	h := NewManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Commit(DefaultSession,
				llm.Message{Role: llm.RoleUser, Content: "q"},
				llm.Message{Role: llm.RoleAssistant, Content: "a"},
			)
		}()
	}
	wg.Wait()

	msgs := h.Get(DefaultSession)
	if len(msgs) != 100 {
		t.Fatalf("want 100 turns, got %d", len(msgs))
	}
	for i := 0; i < len(msgs); i += 2 {
		if msgs[i].Role != llm.RoleUser || msgs[i+1].Role != llm.RoleAssistant {
			t.Fatalf("commits interleaved at %d", i)
		}
	}
}

func TestExpireIdle(t *testing.T) {
	h := NewManager()
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return base }
	h.Commit("old", user("x"))
	h.now = func() time.Time { return base.Add(2 * time.Hour) }
	h.Commit("fresh", user("y"))

	removed := h.ExpireIdle(base.Add(time.Hour))
	if removed != 1 {
		t.Fatalf("want 1 removed, got %d", removed)
	}
	ids := h.Sessions()
	if len(ids) != 1 || ids[0] != "fresh" {
		t.Fatalf("unexpected sessions: %v", ids)
	}
}
