package cssmodules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRelevantEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write", event: fsnotify.Event{Name: "/p/src/a.js", Op: fsnotify.Write}, want: true},
		{name: "create", event: fsnotify.Event{Name: "/p/src/b.js", Op: fsnotify.Create}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: "/p/src/a.js", Op: fsnotify.Chmod}, want: false},
		{name: "output tree", event: fsnotify.Event{Name: "/p/dist/src/a.js", Op: fsnotify.Write}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevantEvent(tt.event, filepath.FromSlash("/p/dist")))
		})
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/App.js": "import s from \"./a.css\";\nf(s.one);\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *TransformResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, TransformConfig{
			Module:     readableConfig(),
			WorkingDir: dir,
			OutputDir:  "dist",
			Debounce:   20 * time.Millisecond,
		}, func(result *TransformResult, err error) {
			if err == nil {
				results <- result
			}
		})
	}()

	first := receive(t, results)
	assert.Equal(t, 1, first.Stats.NamesInjected)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "App.js"),
		[]byte("import s from \"./a.css\";\nf(s.one, s.two);\n"), 0o644))

	second := receive(t, results)
	assert.Equal(t, 2, second.Stats.NamesInjected)

	out, err := os.ReadFile(filepath.Join(dir, "dist", "src", "App.js"))
	require.NoError(t, err)
	assert.Equal(t, printJS(t, "import \"./a.css\";\nf(\"a__one\", \"a__two\");"), string(out))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func receive(t *testing.T, results <-chan *TransformResult) *TransformResult {
	t.Helper()
	select {
	case result := <-results:
		return result
	case <-time.After(10 * time.Second):
		t.Fatal("no transform result")
		return nil
	}
}
