// Package storage keeps recent analysis results and comparison reports in
// memory and mirrors them to JSON files under a local data directory, so
// history survives a restart without requiring a database.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adpulse/channel-monitor/internal/analyzer"
	"github.com/adpulse/channel-monitor/internal/config"
)

// Storage provides bounded in-memory history with JSON persistence
type Storage struct {
	config config.StorageConfig
	mu     sync.RWMutex

	analyses   []analyzer.AnalysisResult
	comparison *analyzer.ComparisonReport
}

// New creates a Storage instance and loads any existing history from disk
func New(cfg config.StorageConfig) (*Storage, error) {
	s := &Storage{config: cfg}

	if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	if err := s.loadFromDisk(); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveAnalysis appends a result to the history, evicting the oldest entries
// beyond the configured cap, and persists the history file.
func (s *Storage) SaveAnalysis(result analyzer.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses = append(s.analyses, result)
	if max := s.config.MaxAnalyses; max > 0 && len(s.analyses) > max {
		s.analyses = s.analyses[len(s.analyses)-max:]
	}

	return s.saveToFile("analyses.json", s.analyses)
}

// SaveComparison stores the most recent comparison report
func (s *Storage) SaveComparison(report analyzer.ComparisonReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comparison = &report
	return s.saveToFile("comparison.json", report)
}

// GetAnalyses returns the newest-first analysis history for a username, or
// all channels when username is empty. Limit <= 0 means no limit.
func (s *Storage) GetAnalyses(username string, limit int) []analyzer.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]analyzer.AnalysisResult, 0, len(s.analyses))
	for i := len(s.analyses) - 1; i >= 0; i-- {
		r := s.analyses[i]
		if username != "" && r.Username != username {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// GetComparison returns the most recent comparison report, or nil
func (s *Storage) GetComparison() *analyzer.ComparisonReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comparison
}

func (s *Storage) saveToFile(name string, data interface{}) error {
	path := filepath.Join(s.config.LocalPath, name)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// loadFromDisk restores history written by a previous run. Missing files
// are not an error; corrupt files are.
func (s *Storage) loadFromDisk() error {
	if data, err := os.ReadFile(filepath.Join(s.config.LocalPath, "analyses.json")); err == nil {
		if err := json.Unmarshal(data, &s.analyses); err != nil {
			return fmt.Errorf("loading analysis history: %w", err)
		}
	}
	if data, err := os.ReadFile(filepath.Join(s.config.LocalPath, "comparison.json")); err == nil {
		var report analyzer.ComparisonReport
		if err := json.Unmarshal(data, &report); err != nil {
			return fmt.Errorf("loading comparison report: %w", err)
		}
		s.comparison = &report
	}
	return nil
}
