package corectx

import (
	"testing"
)

func TestNew_BuildsAndCloses(t *testing.T) {
	dir := t.TempDir()

	ctx, err := New(Options{
		UserAgent: "test-agent contact@example.com",
		CacheDir:  dir,
		RateLimit: 10,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if ctx.Cache == nil || ctx.Limiter == nil || ctx.EDGAR == nil {
		t.Fatal("New should populate Cache, Limiter, and EDGAR")
	}
	if ctx.Resolver != nil {
		t.Error("New should not populate Resolver; that is LoadResolver's job")
	}

	if err := ctx.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestNew_RejectsUnwritableCacheDir(t *testing.T) {
	_, err := New(Options{
		UserAgent: "test-agent contact@example.com",
		CacheDir:  "/nonexistent-root-only-path/definitely-not-writable",
		RateLimit: 10,
	})
	if err == nil {
		t.Fatal("expected an error opening a cache dir that cannot be created")
	}
}
