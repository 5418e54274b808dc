package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styx11/styx/internal/testutil"
)

type batches struct {
	mu  sync.Mutex
	all [][]string
}

func (b *batches) add(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, paths)
}

func (b *batches) snapshot() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.all...)
}

func (b *batches) flat() []string {
	var out []string
	for _, batch := range b.snapshot() {
		out = append(out, batch...)
	}
	return out
}

// startWatcher runs a watcher until the test ends.
func startWatcher(t *testing.T, opts Options) *batches {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = testutil.NewTestLogger(t)
	}
	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	got := &batches{}
	go func() { done <- w.Run(ctx, got.add) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return got
}

func unique(paths []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestNew_RejectsZeroDebounce(t *testing.T) {
	_, err := New(Options{Root: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debounce must be positive")
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New(Options{Root: filepath.Join(t.TempDir(), "missing"), Debounce: time.Millisecond})
	require.Error(t, err)
}

func TestWatcher_ReportsMarkdownChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "blog", "Koa", "README.md"), "# Koa")

	got := startWatcher(t, Options{Root: root, Debounce: 50 * time.Millisecond})

	target := filepath.Join(root, "blog", "Koa", "README.md")
	writeFile(t, target, "# Koa\n\n## Context\n")
	writeFile(t, filepath.Join(root, "blog", "Koa", "notes.txt"), "ignored")

	require.Eventually(t, func() bool {
		return len(got.flat()) > 0
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{target}, unique(got.flat()))
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.md")
	b := filepath.Join(root, "b.md")

	got := startWatcher(t, Options{Root: root, Debounce: 300 * time.Millisecond})

	writeFile(t, a, "# A")
	writeFile(t, b, "# B")
	writeFile(t, a, "# A again")

	require.Eventually(t, func() bool {
		return len(got.snapshot()) > 0
	}, 5*time.Second, 20*time.Millisecond)

	reported := got.snapshot()
	require.Len(t, reported, 1)
	assert.Equal(t, []string{a, b}, reported[0])
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	got := startWatcher(t, Options{Root: root, Debounce: 50 * time.Millisecond})

	dir := filepath.Join(root, "blog", "Node")
	require.NoError(t, os.MkdirAll(dir, 0o750))

	target := filepath.Join(dir, "zlib.md")
	require.Eventually(t, func() bool {
		// The new directory is registered asynchronously; keep touching the
		// file until an event gets through.
		_ = os.WriteFile(target, []byte("# zlib"), 0o600)
		return len(got.flat()) > 0
	}, 5*time.Second, 100*time.Millisecond)

	assert.Contains(t, got.flat(), target)
}

func TestWatcher_ReportsMovedDirectories(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(root, "blog", "Koa", "README.md"), "# Koa")
	writeFile(t, filepath.Join(outside, "Node", "zlib.md"), "# zlib")

	got := startWatcher(t, Options{Root: root, Debounce: 50 * time.Millisecond})

	koa := filepath.Join(root, "blog", "Koa")
	require.NoError(t, os.Rename(koa, filepath.Join(outside, "Koa")))
	require.Eventually(t, func() bool {
		return len(got.snapshot()) > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, got.flat(), koa)

	node := filepath.Join(root, "blog", "Node")
	require.NoError(t, os.Rename(filepath.Join(outside, "Node"), node))
	require.Eventually(t, func() bool {
		for _, p := range got.flat() {
			if p == node {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)

	// The moved-in directory is watched from now on.
	target := filepath.Join(node, "zlib.md")
	writeFile(t, target, "# zlib\n\n## Usage\n")
	require.Eventually(t, func() bool {
		for _, p := range got.flat() {
			if p == target {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_WatchesExtraFiles(t *testing.T) {
	root := t.TempDir()
	descDir := t.TempDir()
	desc := filepath.Join(descDir, "config.yml")
	writeFile(t, desc, "title: Styx\n")

	got := startWatcher(t, Options{Root: root, Files: []string{desc}, Debounce: 50 * time.Millisecond})

	writeFile(t, filepath.Join(descDir, "other.yml"), "x: 1\n")
	writeFile(t, desc, "title: Styx 2\n")

	require.Eventually(t, func() bool {
		return len(got.flat()) > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{desc}, unique(got.flat()))
}

func TestWatcher_Ignore(t *testing.T) {
	root := t.TempDir()
	w := &Watcher{opts: Options{Root: root, Ignore: []string{"drafts", "*.swp", ".vuepress/dist/"}}}

	tests := []struct {
		rel  string
		want bool
	}{
		{"drafts", true},
		{"drafts/wip.md", true},
		{"blog/a.md.swp", true},
		{".vuepress/dist/index.md", true},
		{"blog/drafts.md", false},
		{"blog/Koa/README.md", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, w.ignored(filepath.Join(root, filepath.FromSlash(tt.rel))), tt.rel)
	}
}

func TestWatcher_Relevant(t *testing.T) {
	root := t.TempDir()
	w := &Watcher{
		opts:  Options{Root: root},
		files: map[string]bool{filepath.Join(root, ".vuepress", "config.yml"): true},
	}

	assert.True(t, w.relevant(filepath.Join(root, "blog", "a.md")))
	assert.True(t, w.relevant(filepath.Join(root, ".vuepress", "config.yml")))
	assert.False(t, w.relevant(filepath.Join(root, ".vuepress", "theme", "Layout.md")))
	assert.False(t, w.relevant(filepath.Join(root, "node_modules", "x", "README.md")))
	assert.False(t, w.relevant(filepath.Join(root, "blog", "a.txt")))
	assert.False(t, w.relevant(filepath.Join(filepath.Dir(root), "outside.md")))
}
