// Package testutil holds helpers shared by the app and CLI tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/stepsolver/internal/app"
	"github.com/specialistvlad/stepsolver/internal/loader"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// MemFs returns an in-memory file system holding files, keyed by path.
func MemFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

// HarnessResult holds the outcomes of an app run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// Action is the App lifecycle a harness run drives, such as (*app.App).Run.
type Action func(a *app.App, ctx context.Context) error

// RunApp writes files to an in-memory file system under /system, builds an
// App over it with debug logging and runs action. A nil action only loads.
func RunApp(t *testing.T, files map[string]string, cfg app.Config, action Action) *HarnessResult {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, "/system/"+name, []byte(content), 0o644))
	}

	cfg.SystemPaths = []string{"/system"}
	cfg.LogLevel = "debug"
	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	ctx := context.Background()

	result := &HarnessResult{}
	result.App, result.Err = app.NewApp(ctx, out, logs, config, loader.New(fs))
	if result.Err == nil && action != nil {
		result.Err = action(result.App, ctx)
	}

	if os.Getenv("STEPSOLVER_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}
	result.Output = out.String()
	result.LogOutput = logs.String()
	return result
}
