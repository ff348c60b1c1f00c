// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNewRedis_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"wrong scheme", "http://localhost:6379"},
		{"bad database", "redis://localhost:6379/notanumber"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRedis(context.Background(), tt.url)
			if err == nil {
				r.Close()
				t.Fatal("Expected error for invalid URL")
			}
			if !strings.Contains(err.Error(), "invalid redis URL") {
				t.Errorf("Expected invalid URL error, got %v", err)
			}
		})
	}
}

func TestNewRedis_Unreachable(t *testing.T) {
	// Nothing listens on port 1
	r, err := NewRedis(context.Background(), "redis://127.0.0.1:1/0")
	if err == nil {
		r.Close()
		t.Fatal("Expected ping failure")
	}
	if !strings.Contains(err.Error(), "redis ping failed") {
		t.Errorf("Expected ping error, got %v", err)
	}
}

func TestRedis_SetGetDelete(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	r, err := NewRedis(ctx, redisURL)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer r.Close()

	key := "planora:test:" + t.Name()
	t.Cleanup(func() { r.Delete(context.Background(), key) })

	if _, ok, err := r.Get(ctx, key); ok || err != nil {
		t.Fatalf("Expected miss, got ok=%v err=%v", ok, err)
	}

	if err := r.Set(ctx, key, []byte(`{"id":"e1"}`), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := r.Get(ctx, key)
	if err != nil || !ok || string(got) != `{"id":"e1"}` {
		t.Fatalf("Expected hit, got %q ok=%v err=%v", got, ok, err)
	}

	if err := r.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := r.Get(ctx, key); ok {
		t.Error("Expected miss after delete")
	}

	// Expired keys read as misses
	if err := r.Set(ctx, key, []byte("v"), 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if _, ok, _ := r.Get(ctx, key); ok {
		t.Error("Expected miss after TTL")
	}
}
