package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, "jobseeker-favorites", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "jobseeker-favorites")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("Get = %s", got)
	}

	if err := s.Set(ctx, "jobseeker-favorites", []byte(`[]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err = s.Get(ctx, "jobseeker-favorites")
	if err != nil || string(got) != `[]` {
		t.Fatalf("Get after overwrite = %s, %v", got, err)
	}

	if err := s.Delete(ctx, "jobseeker-favorites"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "jobseeker-favorites"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	exerciseStore(t, s)

	// stored values must not alias caller buffers
	buf := []byte("abc")
	_ = s.Set(context.Background(), "k", buf)
	buf[0] = 'x'
	got, _ := s.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Fatalf("memory store aliased input: %s", got)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jobscout.db")
	s, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)

	// values survive reopening the file
	if err := s.Set(context.Background(), "jobseeker-resume", []byte(`{"name":"cv.pdf"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = s.Close()

	reopened, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(context.Background(), "jobseeker-resume")
	if err != nil || string(got) != `{"name":"cv.pdf"}` {
		t.Fatalf("Get after reopen = %s, %v", got, err)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedis(client, "test:")
	exerciseStore(t, s)

	if err := s.Set(context.Background(), "jobseeker-applications", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("test:jobseeker-applications") {
		t.Fatalf("expected prefixed key, have %v", mr.Keys())
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{})
	if err != nil {
		t.Fatalf("Open default: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("default driver = %T, want *Memory", s)
	}

	mr := miniredis.RunT(t)
	s, err = Open(ctx, Config{Driver: DriverRedis, RedisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("Open redis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)

	if _, err := Open(ctx, Config{Driver: "etcd"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if _, err := Open(ctx, Config{Driver: DriverSQLite}); err == nil {
		t.Fatal("expected error for sqlite without a path")
	}
}
