package keywords

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/saasfinder/backend/pkg/logger"
)

// DefaultPatterns is the ordered pain point lexicon written to a fresh
// keywords file. Patterns are matched case-insensitively, first hit wins.
var DefaultPatterns = []string{
	`I hate (that|when|how)`,
	`(really|so) frustrating`,
	`why (is|does|can't|won't)`,
	`(wish|need) there was`,
	`can't find (a|any) (way|tool|solution)`,
	`(struggling|having trouble) with`,
	`annoying`,
	`terrible`,
	`awful`,
	`sucks`,
	`problem`,
	`issue`,
	`difficulty`,
	`challenge`,
	`pain`,
	`waste time`,
	`takes forever`,
	`slow`,
	`inefficient`,
	`tedious`,
	`expensive`,
	`costly`,
	`missing feature`,
}

// ErrNotFound is returned when an operation names a pattern that is not in
// the lexicon.
var ErrNotFound = errors.New("pattern not found")

type lexiconFile struct {
	PainPointKeywords []string `yaml:"pain_point_keywords"`
}

// Manager owns the pattern lexicon in a YAML file so it can evolve without
// code changes. All methods are safe for concurrent use.
type Manager struct {
	path string

	mu       sync.RWMutex
	patterns []string
}

func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		m.patterns = append([]string(nil), DefaultPatterns...)
		if err := m.save(); err != nil {
			return nil, fmt.Errorf("failed to create default keywords file: %w", err)
		}
		logger.Info("Created default keywords file", zap.String("path", path))
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}

	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse keywords file: %w", err)
	}

	m.patterns = file.PainPointKeywords
	return m, nil
}

// List returns the patterns in lexicon order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Add appends a pattern unless it is already present. The pattern must be a
// valid regular expression; the lexicon is compiled case-insensitively at
// extraction time.
func (m *Manager) Add(pattern string) error {
	if _, err := regexp.Compile("(?i)" + pattern); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.patterns {
		if p == pattern {
			return nil
		}
	}

	m.patterns = append(m.patterns, pattern)
	if err := m.save(); err != nil {
		return err
	}

	logger.Info("Keyword added", zap.String("pattern", pattern))
	return nil
}

// Remove deletes a pattern, returning ErrNotFound when it is not in the
// lexicon.
func (m *Manager) Remove(pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.patterns {
		if p == pattern {
			m.patterns = append(m.patterns[:i], m.patterns[i+1:]...)
			if err := m.save(); err != nil {
				return err
			}
			logger.Info("Keyword removed", zap.String("pattern", pattern))
			return nil
		}
	}

	return ErrNotFound
}

// Export writes the current lexicon to a separate YAML file.
func (m *Manager) Export(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := yaml.Marshal(lexiconFile{PainPointKeywords: m.patterns})
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to export keywords: %w", err)
	}

	logger.Info("Keywords exported", zap.String("path", path))
	return nil
}

// save writes the lexicon back to disk. Callers must hold the write lock.
func (m *Manager) save() error {
	data, err := yaml.Marshal(lexiconFile{PainPointKeywords: m.patterns})
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create keywords directory: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write keywords file: %w", err)
	}

	return os.Rename(tmp, m.path)
}
