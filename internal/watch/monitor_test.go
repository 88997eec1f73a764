package watch_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"foldr/internal/config"
	"foldr/internal/watch"
	"foldr/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T, targets ...string) (string, *config.Store) {
	t.Helper()
	root := t.TempDir()
	testutils.CreateDirs(t, root, targets...)

	store, err := config.Open(config.DefaultPath(root))
	require.NoError(t, err)
	require.NoError(t, store.Update(func(c *config.Config) error {
		for _, p := range targets {
			c.Targets = append(c.Targets, config.TargetFolder{Path: p, DisplayName: filepath.Base(p)})
		}
		return nil
	}))
	return root, store
}

func waitReport(t *testing.T, reports <-chan watch.Report) watch.Report {
	t.Helper()
	select {
	case r := <-reports:
		return r
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for report")
	}
	return watch.Report{}
}

func TestMonitorCheckFindsMissingTargets(t *testing.T) {
	root, store := newProject(t, "Assets/Targets/Props", "Assets/Targets/Audio")
	require.NoError(t, os.RemoveAll(filepath.Join(root, "Assets", "Targets", "Audio")))

	m, err := watch.NewMonitor(root, store, false)
	require.NoError(t, err)

	reports := m.Check()
	require.Len(t, reports, 1)
	assert.Equal(t, "Assets/Targets/Audio", reports[0].Target.Path)
	assert.True(t, reports[0].Missing)
	assert.False(t, reports[0].Pruned)
	assert.Len(t, store.Config().Targets, 2, "without prune the config is untouched")
}

func TestMonitorCheckPrunes(t *testing.T) {
	root, store := newProject(t, "Assets/Targets/Props", "Assets/Targets/Audio")
	require.NoError(t, os.RemoveAll(filepath.Join(root, "Assets", "Targets", "Audio")))

	m, err := watch.NewMonitor(root, store, true)
	require.NoError(t, err)

	reports := m.Check()
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Pruned)
	require.NoError(t, reports[0].Err)

	require.NoError(t, store.Reload())
	require.Len(t, store.Config().Targets, 1)
	assert.Equal(t, "Assets/Targets/Props", store.Config().Targets[0].Path)
	assert.Equal(t, 1, m.Status().Pruned)
}

func TestMonitorPrunesRemovedTarget(t *testing.T) {
	root, store := newProject(t, "Assets/Targets/Props", "Assets/Targets/Audio")

	m, err := watch.NewMonitor(root, store, true)
	require.NoError(t, err)
	reports := make(chan watch.Report, 4)
	m.SetCallback(func(r watch.Report) { reports <- r })

	require.NoError(t, m.Start())
	defer m.Stop()
	assert.True(t, m.Status().Running)
	assert.Equal(t, []string{filepath.Join(root, "Assets", "Targets")}, m.Status().Directories)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "Assets", "Targets", "Audio")))

	r := waitReport(t, reports)
	assert.Equal(t, "Assets/Targets/Audio", r.Target.Path)
	assert.True(t, r.Missing)
	assert.True(t, r.Pruned)

	require.NoError(t, store.Reload())
	require.Len(t, store.Config().Targets, 1)
	assert.Equal(t, "Assets/Targets/Props", store.Config().Targets[0].Path)
}

func TestMonitorWarnsOnRenamedTarget(t *testing.T) {
	root, store := newProject(t, "Assets/Targets/Props")

	m, err := watch.NewMonitor(root, store, false)
	require.NoError(t, err)
	reports := make(chan watch.Report, 4)
	m.SetCallback(func(r watch.Report) { reports <- r })

	require.NoError(t, m.Start())
	defer m.Stop()

	targets := filepath.Join(root, "Assets", "Targets")
	require.NoError(t, os.Rename(filepath.Join(targets, "Props"), filepath.Join(targets, "Props2")))

	r := waitReport(t, reports)
	assert.Equal(t, "Assets/Targets/Props", r.Target.Path)
	assert.True(t, r.Missing)
	assert.False(t, r.Pruned)
	assert.Len(t, store.Config().Targets, 1)

	require.NoError(t, os.Rename(filepath.Join(targets, "Props2"), filepath.Join(targets, "Props")))
	r = waitReport(t, reports)
	assert.False(t, r.Missing, "restored target is reported as back")

	m.Stop()
	status := m.Status()
	assert.False(t, status.Running)
	assert.Equal(t, 1, status.Missing)
	assert.False(t, status.LastActivity.IsZero())
}

func TestMonitorWithoutTargets(t *testing.T) {
	root, store := newProject(t)

	m, err := watch.NewMonitor(root, store, false)
	require.NoError(t, err)
	assert.Error(t, m.Start())
	assert.False(t, m.Status().Running)
	assert.Error(t, m.Start(), "a failed monitor is closed")
	m.Stop()
}

func TestMonitorConcurrentStart(t *testing.T) {
	root, store := newProject(t, "Assets/Targets/Props")

	m, err := watch.NewMonitor(root, store, false)
	require.NoError(t, err)
	defer m.Stop()

	const starters = 8
	errs := make(chan error, starters)
	var wg sync.WaitGroup
	for i := 0; i < starters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.Start()
		}()
	}
	wg.Wait()
	close(errs)

	started := 0
	for err := range errs {
		if err == nil {
			started++
		}
	}
	assert.Equal(t, 1, started)
	assert.True(t, m.Status().Running)

	m.Stop()
	assert.Error(t, m.Start(), "a stopped monitor cannot restart")
}
