package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAppendAndRecent(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	s.Append("a", Turn{Role: "user", Content: "hi"}, Turn{Role: "assistant", Content: "hello"})
	s.Append("a", Turn{Role: "user", Content: "show jackets"})

	turns := s.Recent("a", 10)
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Content != "hi" || turns[2].Content != "show jackets" {
		t.Errorf("turns out of order: %+v", turns)
	}
}

func TestRecent_Window(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.Append("a", Turn{Role: "user", Content: fmt.Sprintf("m%d", i)})
	}

	turns := s.Recent("a", 5)
	if len(turns) != 5 {
		t.Fatalf("expected window of 5, got %d", len(turns))
	}
	if turns[0].Content != "m5" || turns[4].Content != "m9" {
		t.Errorf("expected the most recent turns oldest-first, got %+v", turns)
	}
}

func TestRecent_UnknownSession(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	if turns := s.Recent("nope", 5); turns != nil {
		t.Errorf("expected nil for unknown session, got %+v", turns)
	}
}

func TestEvict(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	s.Append("a", Turn{Role: "user", Content: "hi"})
	if !s.Evict("a") {
		t.Error("expected eviction of existing session")
	}
	if s.Evict("a") {
		t.Error("second eviction should report absence")
	}
	if got := s.Recent("a", 5); got != nil {
		t.Errorf("evicted session should be empty, got %+v", got)
	}
}

func TestTTLEviction(t *testing.T) {
	s := NewStore(50 * time.Millisecond)
	defer s.Close()

	s.Append("a", Turn{Role: "user", Content: "hi"})
	s.evictExpired(time.Now().Add(100 * time.Millisecond))

	if s.Len() != 0 {
		t.Errorf("expected expired session to be evicted, %d live", s.Len())
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("s%d", i%5)
			s.Append(key, Turn{Role: "user", Content: "m"}, Turn{Role: "assistant", Content: "r"})
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 5; i++ {
		total += len(s.Recent(fmt.Sprintf("s%d", i), 1000))
	}
	if total != 100 {
		t.Errorf("expected 100 turns across sessions, got %d", total)
	}
}
