package fieldmeta

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// TitleStore watches a YAML label dictionary and resolves field titles from
// it, layered over the built-in defaults.
type TitleStore struct {
	path     string
	logger   *slog.Logger
	humanize bool
	val      atomic.Value // map[string]string
}

// NewTitleStore loads the dictionary at path. An empty path yields a store
// serving only the built-in defaults.
func NewTitleStore(path string, humanize bool, logger *slog.Logger) (*TitleStore, error) {
	s := &TitleStore{path: path, humanize: humanize, logger: logger}
	if path == "" {
		s.val.Store(map[string]string{})
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Resolve returns the display label for a field name: file entry, built-in
// default, humanized fallback, raw name — in that order.
func (s *TitleStore) Resolve(name string) string {
	if s != nil {
		if m, ok := s.val.Load().(map[string]string); ok {
			if t, ok := m[name]; ok {
				return t
			}
		}
	}
	if t, ok := defaultTitles[name]; ok {
		return t
	}
	if s != nil && s.humanize {
		return Humanize(name)
	}
	return name
}

func (s *TitleStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var m map[string]string
	if err := yaml.Unmarshal(b, &m); err != nil {
		return err
	}
	if m == nil {
		m = map[string]string{}
	}
	s.val.Store(m)
	return nil
}

// Start watches the dictionary file for changes until ctx is done.
func (s *TitleStore) Start(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case ev := <-watcher.Events:
				if ev.Name == s.path && (ev.Op&(fsnotify.Write|fsnotify.Create)) != 0 {
					if err := s.load(); err != nil {
						s.logger.Warn("reload title dictionary", "err", err)
					} else {
						s.logger.Info("title dictionary reloaded")
					}
				}
			case <-ctx.Done():
				return
			case err := <-watcher.Errors:
				if err != nil {
					s.logger.Warn("title dictionary watch error", "err", err)
				}
			}
		}
	}()
	return nil
}
