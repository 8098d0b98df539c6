package storage

import (
	"testing"

	"github.com/adpulse/channel-monitor/internal/analyzer"
	"github.com/adpulse/channel-monitor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, maxAnalyses int) *Storage {
	t.Helper()
	s, err := New(config.StorageConfig{LocalPath: t.TempDir(), MaxAnalyses: maxAnalyses})
	require.NoError(t, err)
	return s
}

func sampleResult(username string) analyzer.AnalysisResult {
	e := analyzer.New(analyzer.Config{})
	return e.AnalyzeChannel(analyzer.ChannelSnapshot{
		Username:    username,
		Subscribers: 10000,
		AvgReach:    3000,
		Category:    "news",
	}, nil)
}

func TestSaveAndGetAnalyses(t *testing.T) {
	s := newTestStorage(t, 10)

	require.NoError(t, s.SaveAnalysis(sampleResult("alpha")))
	require.NoError(t, s.SaveAnalysis(sampleResult("beta")))
	require.NoError(t, s.SaveAnalysis(sampleResult("alpha")))

	all := s.GetAnalyses("", 0)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Username, "newest first")

	alpha := s.GetAnalyses("alpha", 0)
	assert.Len(t, alpha, 2)

	limited := s.GetAnalyses("", 2)
	assert.Len(t, limited, 2)

	assert.Empty(t, s.GetAnalyses("ghost", 0))
}

func TestSaveAnalysis_Eviction(t *testing.T) {
	s := newTestStorage(t, 2)

	require.NoError(t, s.SaveAnalysis(sampleResult("one")))
	require.NoError(t, s.SaveAnalysis(sampleResult("two")))
	require.NoError(t, s.SaveAnalysis(sampleResult("three")))

	all := s.GetAnalyses("", 0)
	require.Len(t, all, 2)
	assert.Equal(t, "three", all[0].Username)
	assert.Equal(t, "two", all[1].Username, "oldest entry evicted")
}

func TestPersistenceAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	cfg := config.StorageConfig{LocalPath: dir, MaxAnalyses: 10}

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.SaveAnalysis(sampleResult("persisted")))

	e := analyzer.New(analyzer.Config{})
	report := e.CompareChannels([]analyzer.ChannelInput{
		{Snapshot: analyzer.ChannelSnapshot{Username: "persisted", Subscribers: 1000, AvgReach: 400}},
	})
	require.NoError(t, s.SaveComparison(report))

	// Reopen from the same directory
	reopened, err := New(cfg)
	require.NoError(t, err)

	history := reopened.GetAnalyses("persisted", 0)
	require.Len(t, history, 1)
	assert.Equal(t, "persisted", history[0].Username)

	loaded := reopened.GetComparison()
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Channels, 1)
}

func TestGetComparison_Empty(t *testing.T) {
	s := newTestStorage(t, 10)
	assert.Nil(t, s.GetComparison())
}
