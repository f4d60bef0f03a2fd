package memory

import (
	"context"
	"testing"
)

func TestNewMemoryHub_BasicFlow(t *testing.T) {
	hub, fwd, cleanup, err := New([]string{"loginSuc"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer cleanup()

	ctx := context.Background()

	calls := 0
	if _, err := hub.Subscribe("loginSuc", func(ctx context.Context, args ...any) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ok, err := hub.Publish(ctx, "loginSuc", "avatar.jpg")
	if err != nil || !ok {
		t.Fatalf("publish: ok=%v err=%v", ok, err)
	}

	if calls != 1 {
		t.Fatalf("expected calls=1 got %d", calls)
	}

	envs := fwd.Envelopes()
	if len(envs) != 1 || envs[0].Topic != "loginSuc" {
		t.Fatalf("unexpected envelopes: %+v", envs)
	}

	// after cleanup only the local subscriber remains
	cleanup()

	if _, err := hub.Publish(ctx, "loginSuc", "again"); err != nil {
		t.Fatalf("publish after cleanup: %v", err)
	}

	if n := len(fwd.Envelopes()); n != 1 {
		t.Fatalf("expected no new envelopes, got %d", n)
	}
}

func TestNewMemoryHub_InvalidTopic(t *testing.T) {
	if _, _, _, err := New([]string{""}); err == nil {
		t.Fatalf("expected error for empty topic")
	}
}
