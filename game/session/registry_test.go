package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Bolkyyy/YDChess/game/rules"
)

func newTestRegistry(retention time.Duration) *Registry {
	return NewRegistryWithRetention(rules.NewChessEngine, retention)
}

func TestRegistry_Create(t *testing.T) {
	reg := newTestRegistry(DefaultRetention)

	sess := reg.Create()
	if sess.ID == "" {
		t.Fatal("Expected a non-empty session ID")
	}
	if len(sess.ID) != idBytes*2 {
		t.Errorf("Expected %d-character hex ID, got %q", idBytes*2, sess.ID)
	}
	if sess.Status != StatusWaiting {
		t.Errorf("Expected new session to be waiting, got %s", sess.Status)
	}
	if sess.Turn != rules.White {
		t.Errorf("Expected white to move in a new session, got %s", sess.Turn)
	}
	if sess.Engine == nil {
		t.Error("Expected new session to carry an engine")
	}
	if sess.PlayerCount() != 0 {
		t.Errorf("Expected empty session, got %d players", sess.PlayerCount())
	}

	got, err := reg.Get(sess.ID)
	if err != nil {
		t.Fatalf("Failed to get created session: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}
}

func TestRegistry_UniqueIDs(t *testing.T) {
	reg := newTestRegistry(DefaultRetention)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sess := reg.Create()
		if seen[sess.ID] {
			t.Fatalf("Duplicate session ID %s", sess.ID)
		}
		seen[sess.ID] = true
	}
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := newTestRegistry(DefaultRetention)

	_, err := reg.Get("nonexistent")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistry_Delete(t *testing.T) {
	reg := newTestRegistry(DefaultRetention)
	sess := reg.Create()

	reg.Delete(sess.ID)
	if _, err := reg.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}

	// Deleting again must not panic or error.
	reg.Delete(sess.ID)
}

func TestRegistry_Expiry(t *testing.T) {
	reg := newTestRegistry(20 * time.Millisecond)
	sess := reg.Create()

	if _, err := reg.Get(sess.ID); err != nil {
		t.Fatalf("Session should exist before expiry: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := reg.Get(sess.ID); errors.Is(err, ErrSessionNotFound) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Session did not expire within the retention window")
}

func TestRegistry_DeleteCancelsExpiry(t *testing.T) {
	reg := newTestRegistry(20 * time.Millisecond)
	sess := reg.Create()
	reg.Delete(sess.ID)

	// Let the timer deadline pass, then confirm the registry is still
	// consistent and a newly created session is unaffected.
	time.Sleep(50 * time.Millisecond)

	fresh := reg.Create()
	if _, err := reg.Get(fresh.ID); err != nil {
		t.Fatalf("Fresh session should survive an old session's timer: %v", err)
	}
	if reg.Count() != 1 {
		t.Errorf("Expected exactly 1 live session, got %d", reg.Count())
	}
}

func TestRegistry_ConcurrentCreate(t *testing.T) {
	reg := newTestRegistry(DefaultRetention)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Create()
		}()
	}
	wg.Wait()

	if reg.Count() != 50 {
		t.Errorf("Expected 50 sessions after concurrent creates, got %d", reg.Count())
	}
	if len(reg.List()) != 50 {
		t.Errorf("Expected List to return 50 sessions, got %d", len(reg.List()))
	}
}

func TestSession_NextOpenColor(t *testing.T) {
	reg := newTestRegistry(DefaultRetention)
	sess := reg.Create()

	color, ok := sess.NextOpenColor()
	if !ok || color != rules.White {
		t.Fatalf("Expected white slot first, got %s ok=%v", color, ok)
	}

	sess.Players[rules.White] = &Player{ConnID: "c1", Username: "alice"}
	color, ok = sess.NextOpenColor()
	if !ok || color != rules.Black {
		t.Fatalf("Expected black slot second, got %s ok=%v", color, ok)
	}

	sess.Players[rules.Black] = &Player{ConnID: "c2", Username: "bob"}
	if _, ok := sess.NextOpenColor(); ok {
		t.Error("Expected no open slot in a full session")
	}

	// A vacated white slot is refilled before black.
	delete(sess.Players, rules.White)
	color, ok = sess.NextOpenColor()
	if !ok || color != rules.White {
		t.Fatalf("Expected vacated white slot to be refilled first, got %s ok=%v", color, ok)
	}
}

func TestSession_Finish(t *testing.T) {
	reg := newTestRegistry(DefaultRetention)
	sess := reg.Create()
	sess.Status = StatusPlaying

	sess.Finish(ResultWhiteWins)
	if sess.Status != StatusFinished {
		t.Fatalf("Expected finished status, got %s", sess.Status)
	}
	if sess.Result != ResultWhiteWins {
		t.Fatalf("Expected white_wins, got %s", sess.Result)
	}

	// The first result sticks.
	sess.Finish(ResultAbandoned)
	if sess.Result != ResultWhiteWins {
		t.Errorf("Result must be set exactly once, got %s", sess.Result)
	}
}
