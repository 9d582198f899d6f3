package preview

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

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
		keys, _ := client.Keys(ctx, "preview:*").Result()
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

func TestPublishAndGet(t *testing.T) {
	store := NewStore(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	doc := content.Default()
	doc.Vision.Title = "Draft vision"

	token, err := store.Publish(ctx, doc)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Vision.Title != "Draft vision" {
		t.Errorf("vision title = %q, want %q", got.Vision.Title, "Draft vision")
	}
}

func TestPublishRejectsInvalidDraft(t *testing.T) {
	store := NewStore(testValkeyClient(t), time.Minute)

	doc := content.Default()
	doc.Hero.Slides = nil
	if _, err := store.Publish(context.Background(), doc); err == nil {
		t.Error("expected validation error for invalid draft")
	}
}

func TestGetUnknownToken(t *testing.T) {
	store := NewStore(testValkeyClient(t), time.Minute)
	_, err := store.Get(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	if !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("err = %v, want ErrDraftNotFound", err)
	}
}

func TestGetRejectsWrongEnvelopeType(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, time.Minute)
	ctx := context.Background()

	// Plant a payload with a mismatched type tag.
	client.Set(ctx, "preview:forged", `{"type":"SOMETHING_ELSE","content":{}}`, time.Minute)

	_, err := store.Get(ctx, "forged")
	if !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("err = %v, want ErrDraftNotFound", err)
	}
}

func TestDiscard(t *testing.T) {
	store := NewStore(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	token, err := store.Publish(ctx, content.Default())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := store.Discard(ctx, token); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := store.Get(ctx, token); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("err after discard = %v, want ErrDraftNotFound", err)
	}
}
