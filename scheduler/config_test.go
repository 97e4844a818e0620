package scheduler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/hapgraph/rstcore/genbench"
	"github.com/hapgraph/rstcore/scheduler"
)

// TestDefaultConfigMatchesOriginalBuildCommand pins the defaults the
// original build command used, so a change here is a deliberate one.
func TestDefaultConfigMatchesOriginalBuildCommand(t *testing.T) {
	cfg := scheduler.DefaultConfig()
	require.Equal(t, 0, cfg.Concurrency)
	require.InDelta(t, 0.04, cfg.MinResolution, 1e-9)
}

// TestLoadConfigParsesYAMLAndAppliesDefaults verifies a partial YAML
// file overrides only the fields it sets, keeping defaults otherwise.
func TestLoadConfigParsesYAMLAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: 4\n"), 0o644))

	cfg, err := scheduler.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Concurrency)
	require.InDelta(t, 0.04, cfg.MinResolution, 1e-9)
}

// TestLoadConfigRejectsNonPositiveResolution verifies an explicit
// min_resolution of zero fails validation rather than silently
// disabling wrapping.
func TestLoadConfigRejectsNonPositiveResolution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_resolution: 0\n"), 0o644))

	_, err := scheduler.LoadConfig(path)
	require.Error(t, err)
}

// TestLoadConfigMissingFile surfaces the underlying file error.
func TestLoadConfigMissingFile(t *testing.T) {
	_, err := scheduler.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestRunWithConfigAppliesMinResolutionToUnsetTasks verifies a task
// that doesn't set its own MinRes inherits cfg.MinResolution.
func TestRunWithConfigAppliesMinResolutionToUnsetTasks(t *testing.T) {
	g, err := genbench.LinearChain(3, 10, []string{"h1"})
	require.NoError(t, err)

	cfg := scheduler.DefaultConfig()
	results, err := scheduler.RunWithConfig(context.Background(), []scheduler.Task{{Name: "a", Graph: g}}, cfg, logr.Discard())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Greater(t, results[0].Meta.MaxLevel, -1)
}
