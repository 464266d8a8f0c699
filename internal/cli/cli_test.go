package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/digtower/pkg/cache"
	"github.com/matzehuels/digtower/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "/home/tester")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/home/tester", ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	tests := []struct {
		name    string
		backend string
		noCache bool
		want    string
	}{
		{"file backend", config.BackendFile, false, "*cache.FileCache"},
		{"none backend", config.BackendNone, false, "cache.NullCache"},
		{"no-cache flag wins", config.BackendFile, true, "cache.NullCache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newCache(ctx, config.Cache{Backend: tt.backend}, tt.noCache)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer c.Close()
			switch tt.want {
			case "*cache.FileCache":
				fc, ok := c.(*cache.FileCache)
				if !ok {
					t.Fatalf("got %T, want *cache.FileCache", c)
				}
				if !strings.HasSuffix(fc.Dir(), appName) {
					t.Errorf("Dir() = %q", fc.Dir())
				}
			default:
				if _, ok := c.(cache.NullCache); !ok {
					t.Errorf("got %T, want cache.NullCache", c)
				}
			}
		})
	}
}

func TestNewCacheRedisUnreachable(t *testing.T) {
	cfg := config.Cache{Backend: config.BackendRedis, RedisURL: "not a url"}
	if _, err := newCache(context.Background(), cfg, false); err == nil {
		t.Error("expected error for invalid redis url")
	}
}

func TestProjectArg(t *testing.T) {
	if got := projectArg(nil); got != "." {
		t.Errorf("projectArg(nil) = %q, want .", got)
	}
	if got := projectArg([]string{"proj"}); got != "proj" {
		t.Errorf("projectArg([proj]) = %q, want proj", got)
	}
}

func TestRootCommandRegistersCommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"render", "graph", "schedules", "serve", "watch", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
