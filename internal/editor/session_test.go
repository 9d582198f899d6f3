package editor

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"aerogrid/internal/content"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "editor:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestSessionStartApplyDocument(t *testing.T) {
	store := NewSessionStore(testValkeyClient(t))
	ctx := context.Background()

	id, state, err := store.Start(ctx, content.Default())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if id == "" {
		t.Fatal("expected a session id")
	}
	if len(state.Hero.Slides) == 0 {
		t.Fatal("expected hydrated hero slides")
	}

	// Mutate a section field through the stored session.
	updated, err := store.Apply(ctx, id, Action{
		Op:    OpSet,
		Field: "vision.title",
		Value: "Persisted title",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if updated.Vision.Title != "Persisted title" {
		t.Errorf("vision title = %q, want %q", updated.Vision.Title, "Persisted title")
	}

	// The mutation survives a fresh Get.
	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Vision.Title != "Persisted title" {
		t.Errorf("reloaded vision title = %q", got.Vision.Title)
	}

	// Reconstruct the document from the stored state.
	doc, err := store.Document(ctx, id)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Vision.Title != "Persisted title" {
		t.Errorf("document vision title = %q", doc.Vision.Title)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("reconstructed document invalid: %v", err)
	}
}

func TestSessionRejectedActionLeavesStateUntouched(t *testing.T) {
	store := NewSessionStore(testValkeyClient(t))
	ctx := context.Background()

	doc := content.Default()
	id, before, err := store.Start(ctx, doc)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Removing below the slide minimum must fail.
	for i := len(before.Hero.Slides); i > 1; i-- {
		state, err := store.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := store.Apply(ctx, id, Action{
			Op: OpRemove, List: ListSlides, Fragment: state.Hero.Slides[0].ID,
		}); err != nil {
			t.Fatalf("Apply remove: %v", err)
		}
	}

	state, _ := store.Get(ctx, id)
	_, err = store.Apply(ctx, id, Action{
		Op: OpRemove, List: ListSlides, Fragment: state.Hero.Slides[0].ID,
	})
	if !errors.Is(err, ErrListMin) {
		t.Fatalf("err = %v, want ErrListMin", err)
	}

	after, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Hero.Slides) != 1 {
		t.Errorf("slides = %d after rejected remove, want 1", len(after.Hero.Slides))
	}
}

func TestSessionUnknownID(t *testing.T) {
	store := NewSessionStore(testValkeyClient(t))
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionDestroy(t *testing.T) {
	store := NewSessionStore(testValkeyClient(t))
	ctx := context.Background()

	id, _, err := store.Start(ctx, content.Default())
	if err != nil {
		t.Fatal(err)
	}
	store.Destroy(ctx, id)
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err after destroy = %v, want ErrSessionNotFound", err)
	}
}
