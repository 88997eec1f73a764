package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"foldr/internal/config"
	"foldr/internal/errors"
	"foldr/internal/log"
)

// Store is the configuration the monitor reads targets from and prunes.
type Store interface {
	Config() *config.Config
	Update(fn func(*config.Config) error) error
}

// Report describes a target whose folder went missing or came back.
type Report struct {
	Target  config.TargetFolder
	Missing bool
	Pruned  bool
	Err     error
}

// MonitorStatus represents the current state of the monitor
type MonitorStatus struct {
	Running      bool      // Whether the monitor is currently active
	Directories  []string  // Parent directories being watched
	LastActivity time.Time // Time of the last target change
	Missing      int       // Targets reported missing so far
	Pruned       int       // Targets removed from the configuration
}

// Monitor watches the parent directories of every target folder and reports
// targets that are removed or renamed away. With pruning on, missing targets
// are also removed from the configuration.
type Monitor struct {
	root  string
	store Store
	prune bool

	watcher *Watcher

	// target path by absolute OS path, rebuilt on Start
	targets map[string]string

	callback func(Report)

	mutex        sync.RWMutex
	missing      int
	pruned       int
	lastActivity time.Time
	running      bool
	closed       bool
	done         sync.WaitGroup
}

// NewMonitor creates a monitor for the project at root.
func NewMonitor(root string, store Store, prune bool) (*Monitor, error) {
	w, err := NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Monitor{
		root:    root,
		store:   store,
		prune:   prune,
		watcher: w,
		targets: map[string]string{},
	}, nil
}

// SetCallback sets a function called for every report. It runs on the
// monitor's goroutine.
func (m *Monitor) SetCallback(cb func(Report)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.callback = cb
}

// Check reports every configured target whose folder does not exist. It is
// run once by Start before watching begins.
func (m *Monitor) Check() []Report {
	var reports []Report
	for _, t := range m.store.Config().Targets {
		if isDir(m.abs(t.Path)) {
			continue
		}
		reports = append(reports, m.handleMissing(t))
	}
	return reports
}

// Start checks the targets, then watches their parents until Stop. A
// monitor that failed to start or was stopped cannot be started again.
func (m *Monitor) Start() error {
	m.mutex.Lock()
	if m.running || m.closed {
		m.mutex.Unlock()
		return errors.New("monitor is already running or closed")
	}
	m.running = true
	m.mutex.Unlock()

	m.Check()

	targets := map[string]string{}
	for _, t := range m.store.Config().Targets {
		abs := m.abs(t.Path)
		targets[abs] = t.Path
		parent := filepath.Dir(abs)
		if err := m.watcher.AddDirectory(parent); err != nil {
			log.LogWithFields(log.F("target", t.Path), log.F("error", err)).Warn("Cannot watch target parent")
		}
	}
	m.targets = targets

	var err error
	if len(m.watcher.Directories()) == 0 {
		err = errors.New("no target folders to watch")
	} else if startErr := m.watcher.Start(); startErr != nil {
		err = errors.Wrap(startErr, "error starting watcher")
	}
	if err != nil {
		if cerr := m.watcher.Close(); cerr != nil {
			log.LogWithFields(log.F("error", cerr)).Warn("Failed to close watcher")
		}
		m.mutex.Lock()
		m.running = false
		m.closed = true
		m.mutex.Unlock()
		return err
	}

	m.mutex.Lock()
	if m.closed {
		// Stop ran while the watcher was starting.
		m.mutex.Unlock()
		m.watcher.Stop()
		return errors.New("monitor stopped during start")
	}
	m.done.Add(1)
	m.mutex.Unlock()
	go m.processChanges()

	log.LogWithFields(log.F("targets", len(m.targets)), log.F("prune", m.prune)).Info("Watching target folders")
	return nil
}

// Stop halts the monitor and waits for pending reports to finish.
func (m *Monitor) Stop() {
	m.mutex.Lock()
	if !m.running {
		m.mutex.Unlock()
		return
	}
	m.running = false
	m.closed = true
	m.mutex.Unlock()

	m.watcher.Stop()
	m.done.Wait()
}

// Status returns the current status of the monitor
func (m *Monitor) Status() MonitorStatus {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return MonitorStatus{
		Running:      m.running,
		Directories:  m.watcher.Directories(),
		LastActivity: m.lastActivity,
		Missing:      m.missing,
		Pruned:       m.pruned,
	}
}

func (m *Monitor) processChanges() {
	defer m.done.Done()

	for c := range m.watcher.Changes() {
		rel, ok := m.targets[c.Path]
		if !ok {
			continue
		}

		m.mutex.Lock()
		m.lastActivity = c.Timestamp
		m.mutex.Unlock()

		t, ok := m.store.Config().Target(rel)
		if !ok {
			continue
		}

		switch {
		case c.Gone() && !isDir(c.Path):
			m.handleMissing(t)
		case !c.Gone() && isDir(c.Path):
			log.LogWithFields(log.F("target", t.Path)).Info("Target folder is back")
			m.notify(Report{Target: t})
		}
	}
}

func (m *Monitor) handleMissing(t config.TargetFolder) Report {
	r := Report{Target: t, Missing: true}
	logger := log.LogWithFields(log.F("target", t.Path), log.F("name", t.DisplayName))
	logger.Warn("Target folder does not exist")

	if m.prune {
		r.Err = m.store.Update(func(c *config.Config) error {
			return c.RemoveTarget(t.Path)
		})
		if r.Err != nil {
			logger.With(log.F("error", r.Err)).Error("Failed to prune target")
		} else {
			r.Pruned = true
			logger.Info("Pruned missing target")
		}
	}

	m.mutex.Lock()
	m.missing++
	if r.Pruned {
		m.pruned++
	}
	m.mutex.Unlock()

	m.notify(r)
	return r
}

func (m *Monitor) notify(r Report) {
	m.mutex.RLock()
	cb := m.callback
	m.mutex.RUnlock()
	if cb != nil {
		cb(r)
	}
}

func (m *Monitor) abs(p string) string {
	return filepath.Join(m.root, filepath.FromSlash(p))
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
