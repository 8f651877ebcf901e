package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/service"
)

func createTestConfig() *engine.GameConfig {
	config := &engine.GameConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Difficulty:  engine.DifficultyEasy,
		BoardSize:   5,
		PathSize:    4,
	}
	config.Messages.Victory = "Solved in %d moves!"
	return config
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Fatal("Expected engine to be initialized")
		}
		if len(session.Engine.GetPuzzle()) != 4 {
			t.Errorf("Expected a 4-cell puzzle, got %d", len(session.Engine.GetPuzzle()))
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %d characters", len(session.ID))
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", config)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", config)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		for _, id := range []string{"../etc", "has space", string(make([]byte, maxIDLength+1))} {
			_, err := manager.Create(id, config)
			if !errors.Is(err, ErrInvalidSessionID) {
				t.Errorf("Expected ErrInvalidSessionID for %q, got %v", id, err)
			}
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		invalidConfig := createTestConfig()
		invalidConfig.PathSize = 26 // More cells than a 5x5 board has
		_, err := manager.Create("invalid-test", invalidConfig)
		if !errors.Is(err, engine.ErrGenerationUnsatisfiable) {
			t.Errorf("Expected ErrGenerationUnsatisfiable, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	created, _ := manager.Create("get-test", config)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected session ID '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if !errors.Is(err, service.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	first, err := manager.GetOrCreate("new-session", config)
	if err != nil {
		t.Fatalf("Failed to get or create session: %v", err)
	}
	if first.ID != "new-session" {
		t.Errorf("Expected session ID 'new-session', got '%s'", first.ID)
	}

	second, err := manager.GetOrCreate("new-session", config)
	if err != nil {
		t.Fatalf("Failed to get existing session: %v", err)
	}
	if second != first {
		t.Error("Expected the existing session to be returned")
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	manager.Create("delete-test", config)

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", config)
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if _, err := manager.Get("case-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("list-1", config)
	session2, _ := manager.Create("list-2", config)
	session3, _ := manager.Create("list-3", config)

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}

	found := make(map[string]bool)
	for _, s := range sessions {
		found[s.ID] = true
	}
	for _, s := range []*service.Session{session1, session2, session3} {
		if !found[s.ID] {
			t.Errorf("Session %s not found in list", s.ID)
		}
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	manager.Create("active", config)
	manager.Create("expired", config)

	// Simulate expired session
	manager.sessions["expired"].LastAccessedAt = time.Now().Add(-2 * time.Hour)
	manager.sessions["active"].LastAccessedAt = time.Now()

	deleted := manager.CleanupExpiredSessions(1 * time.Hour)
	if deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}

	if _, err := manager.Get("expired"); err != ErrSessionNotFound {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session, _ := manager.Create("access-test", config)
	originalTime := session.LastAccessedAt

	// Wait a bit to ensure time difference
	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("ACCESS-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}

	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("c-%d", id%20)
			if _, err := manager.GetOrCreate(sessionID, config); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", config)
	session2, _ := manager.Create("iso-2", config)

	start := session1.Engine.GetPuzzle().Start()
	if feedback := session1.Engine.Select(start.Coord()); feedback != engine.FeedbackAccept {
		t.Fatalf("Expected accept, got %s", feedback)
	}

	if len(session2.Engine.GetPath()) != 0 {
		t.Error("Session 2 should not be affected by session 1 selections")
	}
	if len(session1.Engine.GetPath()) != 1 {
		t.Errorf("Expected session 1 path length 1, got %d", len(session1.Engine.GetPath()))
	}
}

func TestManager_SourceFunc(t *testing.T) {
	manager := NewManagerWithSource(func(id string) engine.Source {
		return engine.NewSource(7)
	})
	config := createTestConfig()

	a, err := manager.Create("seed-a", config)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	b, err := manager.Create("seed-b", config)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	pa, pb := a.Engine.GetPuzzle(), b.Engine.GetPuzzle()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("Expected equal puzzles from equal seeds, differ at %d", i)
		}
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %d", len(session.ID))
		}
	}
}

func TestManager_SessionIDsExhausted(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	for i := 0; i <= 0xffff; i++ {
		id := fmt.Sprintf("%04x", i)
		manager.sessions[id] = &service.Session{ID: id}
	}

	_, err := manager.Create("", config)
	if !errors.Is(err, ErrSessionIDsExhausted) {
		t.Fatalf("Expected ErrSessionIDsExhausted, got %v", err)
	}

	// Explicit IDs are still accepted
	if _, err := manager.Create("named", config); err != nil {
		t.Errorf("Failed to create named session: %v", err)
	}
}

func TestManager_ReturnsCopies(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	created, err := manager.Create("copy", config)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	stored := manager.sessions["copy"].LastAccessedAt

	created.LastAccessedAt = time.Time{}
	got, _ := manager.Get("copy")
	got.LastAccessedAt = time.Time{}
	for _, s := range manager.List() {
		s.LastAccessedAt = time.Time{}
	}

	if !manager.sessions["copy"].LastAccessedAt.Equal(stored) {
		t.Error("Expected stored session to be unaffected by changes to returned copies")
	}
	if got.Engine != manager.sessions["copy"].Engine {
		t.Error("Expected copies to share the session engine")
	}
}
