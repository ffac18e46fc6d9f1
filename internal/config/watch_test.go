package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ballast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 10000\n"), 0600))

	var mu sync.Mutex
	var got *Config

	watcher, err := Watch(path, zap.NewNop(), func(cfg *Config) {
		mu.Lock()
		got = cfg
		mu.Unlock()
	})
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 10099\n"), 0600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil && got.Server.Port == 10099
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatch_BadFileKeepsLastConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ballast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 10000\n"), 0600))

	var mu sync.Mutex
	calls := 0

	watcher, err := Watch(path, zap.NewNop(), func(*Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	// Invalid YAML must not reach the callback.
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0600))

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 0, calls)
	mu.Unlock()
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "missing", "ballast.yaml"), zap.NewNop(), func(*Config) {})
	assert.Error(t, err)
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ballast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 10000\n"), 0600))

	var mu sync.Mutex
	calls := 0

	watcher, err := Watch(path, zap.NewNop(), func(*Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0600))

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 0, calls)
	mu.Unlock()
}
