package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"foldr/internal/errors"
	"foldr/internal/log"

	"github.com/gofrs/flock"
)

const lockTimeout = 5 * time.Second

// Store owns the persisted configuration of one project. Every mutation goes
// through Update, which reloads under a file lock, applies the change,
// validates and saves.
type Store struct {
	path string
	lock *flock.Flock
	cfg  *Config
}

// Open loads the configuration at path, creating it with defaults on first
// use.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	_, statErr := os.Stat(path)
	created := os.IsNotExist(statErr)

	if err := s.withLock(func() error {
		cfg, err := LoadConfigFile(path)
		if err != nil {
			return err
		}
		s.cfg = cfg
		if created {
			return SaveConfig(cfg, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if created {
		log.LogWithFields(log.F("path", path)).Info("Created new configuration")
	} else {
		log.LogWithFields(log.F("path", path)).Debug("Loaded configuration")
	}
	return s, nil
}

// Path returns the configuration file location.
func (s *Store) Path() string {
	return s.path
}

// Config returns the current in-memory configuration. Callers must not
// mutate it; use Update.
func (s *Store) Config() *Config {
	return s.cfg
}

// Update applies fn to a freshly loaded copy of the configuration and saves
// the result. If fn returns an error nothing is written and the in-memory
// configuration is left unchanged.
func (s *Store) Update(fn func(*Config) error) error {
	return s.withLock(func() error {
		cfg, err := LoadConfigFile(s.path)
		if err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := SaveConfig(cfg, s.path); err != nil {
			return err
		}
		s.cfg = cfg
		return nil
	})
}

// Reload re-reads the configuration from disk.
func (s *Store) Reload() error {
	return s.withLock(func() error {
		cfg, err := LoadConfigFile(s.path)
		if err != nil {
			return err
		}
		s.cfg = cfg
		return nil
	})
}

func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.NewFileError("failed to create config directory", filepath.Dir(s.path), errors.FileOperationFailed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	ok, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil || !ok {
		return errors.NewConfigError("configuration is locked by another process", s.path, errors.ConfigLocked, err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			log.LogWithFields(log.F("error", err)).Warn("failed to release config lock")
		}
	}()

	return fn()
}
