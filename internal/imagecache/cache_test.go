package imagecache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/config"
	"github.com/jislas1039-svg/higher-self/internal/logger"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

type MockStore struct {
	mu     sync.Mutex
	images map[string]string
}

func newMockStore() *MockStore { return &MockStore{images: map[string]string{}} }

func (m *MockStore) Image(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.images[key]
	return v, ok
}

func (m *MockStore) PutImage(_ context.Context, key, uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[key] = uri
}

type BlockingGenerator struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	ok      bool
}

func (g *BlockingGenerator) GenerateExerciseGraphic(ctx context.Context, name, description string) (string, bool) {
	g.calls.Add(1)
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	if !g.ok {
		return "", false
	}
	return "data:image/png;base64," + name, true
}

var squat = wellness.Exercise{Name: "Squat", Description: "Sit back"}

func TestExpand_SingleInFlight(t *testing.T) {
	gen := &BlockingGenerator{started: make(chan struct{}, 1), release: make(chan struct{}), ok: true}
	c := New(gen, newMockStore(), logger.NewNop(), config.KeyingByName)

	var wg sync.WaitGroup
	results := make([]string, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.Expand(context.Background(), squat)
	}()

	<-gen.started
	if !c.Generating(squat) {
		t.Fatal("expected generating marker while in flight")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = c.Expand(context.Background(), squat)
	}()

	time.Sleep(20 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	if got := gen.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one generation call, got %d", got)
	}
	if results[0] != "data:image/png;base64,Squat" || results[1] != results[0] {
		t.Errorf("both callers should see the image, got %v", results)
	}
	if c.Generating(squat) {
		t.Error("marker should clear after completion")
	}

	// Cached afterwards.
	if _, ok := c.Expand(context.Background(), squat); !ok || gen.calls.Load() != 1 {
		t.Error("second expand should hit the cache")
	}
}

func TestExpand_FailureIsRetryable(t *testing.T) {
	gen := &BlockingGenerator{ok: false}
	store := newMockStore()
	c := New(gen, store, logger.NewNop(), config.KeyingByName)

	if _, ok := c.Expand(context.Background(), squat); ok {
		t.Fatal("expected failure")
	}
	if _, ok := store.Image("Squat"); ok {
		t.Error("failure must not be cached")
	}

	gen.ok = true
	if _, ok := c.Expand(context.Background(), squat); !ok {
		t.Error("user retry should succeed")
	}
	if gen.calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", gen.calls.Load())
	}
}

func TestKeying(t *testing.T) {
	byName := New(&BlockingGenerator{}, newMockStore(), logger.NewNop(), "")
	if byName.Key(squat) != "Squat" {
		t.Errorf("default keying should be by name")
	}

	byContent := New(&BlockingGenerator{}, newMockStore(), logger.NewNop(), config.KeyingByContent)
	other := wellness.Exercise{Name: "Squat", Description: "Pistol variation"}
	if byContent.Key(squat) == byContent.Key(other) {
		t.Error("content keying must separate exercises sharing a name")
	}
	if byContent.Key(squat) != byContent.Key(wellness.Exercise{Name: "Squat", Description: "Sit back"}) {
		t.Error("content keying must be stable")
	}
}

func TestPrefetch(t *testing.T) {
	gen := &BlockingGenerator{ok: true}
	c := New(gen, newMockStore(), logger.NewNop(), config.KeyingByName)

	exercises := []wellness.Exercise{{Name: "Squat"}, {Name: "Lunge"}, {Name: "Plank"}, {Name: "Squat"}}
	n, err := c.Prefetch(context.Background(), exercises, 2)
	if err != nil {
		t.Fatalf("Prefetch failed: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 available, got %d", n)
	}
	if got := gen.calls.Load(); got != 3 {
		t.Errorf("expected 3 distinct generations, got %d", got)
	}
}
