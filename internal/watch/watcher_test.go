package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noopHandler(context.Context, string) error { return nil }

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		handler Handler
	}{
		{name: "missing upload dir", cfg: Config{ArchiveDir: "a"}, handler: noopHandler},
		{name: "missing archive dir", cfg: Config{UploadDir: "u"}, handler: noopHandler},
		{name: "missing handler", cfg: Config{UploadDir: "u", ArchiveDir: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tt.handler, discardLogger())
			assert.Error(t, err)
		})
	}
}

func TestSupported(t *testing.T) {
	w, err := New(Config{UploadDir: "u", ArchiveDir: "a"}, noopHandler, discardLogger())
	require.NoError(t, err)

	tests := []struct {
		path     string
		expected bool
	}{
		{path: "/in/quote.pdf", expected: true},
		{path: "/in/Quote.PDF", expected: true},
		{path: "/in/prices.xlsx", expected: true},
		{path: "/in/prices.xlsm", expected: true},
		{path: "/in/prices.xls", expected: true},
		{path: "/in/~$prices.xlsx", expected: false},
		{path: "/in/notes.txt", expected: false},
		{path: "/in/noext", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.supported(tt.path))
		})
	}
}

func TestArchiveMovesFile(t *testing.T) {
	uploadDir := t.TempDir()
	archiveDir := filepath.Join(t.TempDir(), "archive")

	w, err := New(Config{UploadDir: uploadDir, ArchiveDir: archiveDir}, noopHandler, discardLogger())
	require.NoError(t, err)

	src := filepath.Join(uploadDir, "quote.pdf")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	require.NoError(t, w.archive(src))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(archiveDir, "quote.pdf"))
	assert.NoError(t, err)
}

func TestRunProcessesAndArchives(t *testing.T) {
	uploadDir := t.TempDir()
	archiveDir := t.TempDir()

	var (
		mu   sync.Mutex
		seen []string
	)
	handler := func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, path)
		return nil
	}

	w, err := New(Config{
		UploadDir:   uploadDir,
		ArchiveDir:  archiveDir,
		SettleDelay: 50 * time.Millisecond,
	}, handler, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before the write.
	time.Sleep(100 * time.Millisecond)
	uploaded := filepath.Join(uploadDir, "quote.pdf")
	require.NoError(t, os.WriteFile(uploaded, []byte("data"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 5*time.Second, 20*time.Millisecond, "handler was never invoked")

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(archiveDir, "quote.pdf"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "file was never archived")

	mu.Lock()
	assert.Equal(t, []string{uploaded}, seen)
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}

func TestRunDrainsBurstWithoutLoss(t *testing.T) {
	uploadDir := t.TempDir()
	archiveDir := t.TempDir()

	const uploads = 100

	var (
		mu   sync.Mutex
		seen = map[string]struct{}{}
	)
	handler := func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		seen[filepath.Base(path)] = struct{}{}
		return nil
	}

	w, err := New(Config{
		UploadDir:   uploadDir,
		ArchiveDir:  archiveDir,
		SettleDelay: 100 * time.Millisecond,
	}, handler, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before the writes.
	time.Sleep(100 * time.Millisecond)

	// All files land inside one settle window, so they flush as one burst.
	for i := 0; i < uploads; i++ {
		name := filepath.Join(uploadDir, fmt.Sprintf("quote-%03d.pdf", i))
		require.NoError(t, os.WriteFile(name, []byte("data"), 0o644))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == uploads
	}, 10*time.Second, 20*time.Millisecond, "not every upload was handled")

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(archiveDir)
		return err == nil && len(entries) == uploads
	}, 10*time.Second, 20*time.Millisecond, "not every upload was archived")

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "upload dir should be drained")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}

func TestRunRejectsMissingDir(t *testing.T) {
	w, err := New(Config{
		UploadDir:  filepath.Join(t.TempDir(), "absent"),
		ArchiveDir: t.TempDir(),
	}, noopHandler, discardLogger())
	require.NoError(t, err)

	assert.Error(t, w.Run(context.Background()))
}
