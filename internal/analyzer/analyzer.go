package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validation errors returned by ValidateSnapshot
var (
	ErrMissingUsername     = errors.New("username is required")
	ErrNegativeSubscribers = errors.New("subscriber count cannot be negative")
)

// ValidateSnapshot pre-checks a snapshot before analysis. Callers that want
// to reject bad input outright (instead of receiving a failure-typed result)
// run this first.
func ValidateSnapshot(snap ChannelSnapshot) error {
	if snap.Username == "" {
		return ErrMissingUsername
	}
	if snap.Subscribers < 0 {
		return ErrNegativeSubscribers
	}
	return nil
}

// AnalyzeChannel runs the full pipeline for one channel. Any fault inside
// the pipeline is captured at this boundary and converted into a
// failure-typed result carrying the best-available identity; it never
// propagates to the caller.
func (e *Engine) AnalyzeChannel(snap ChannelSnapshot, stats *PeriodStats) (result AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failureResult(snap, fmt.Sprintf("analysis failed: %v", r))
		}
	}()

	if err := ValidateSnapshot(snap); err != nil {
		return failureResult(snap, err.Error())
	}

	metrics := NormalizeMetrics(snap, stats)
	score := e.ScoreQuality(metrics)
	engagement := AnalyzeEngagement(metrics)
	recommendations := GenerateRecommendations(metrics, score)
	price := e.EstimatePrice(metrics, score)

	return AnalysisResult{
		ID:              uuid.NewString(),
		Status:          StatusOK,
		Username:        snap.Username,
		Title:           snap.Title,
		Category:        metrics.Category,
		Metrics:         &metrics,
		Score:           &score,
		Engagement:      &engagement,
		Recommendations: recommendations,
		Price:           &price,
		AnalyzedAt:      time.Now().UTC(),
	}
}

func failureResult(snap ChannelSnapshot, cause string) AnalysisResult {
	return AnalysisResult{
		ID:         uuid.NewString(),
		Status:     StatusFailed,
		Username:   snap.Username,
		Title:      snap.Title,
		AnalyzedAt: time.Now().UTC(),
		Error:      cause,
	}
}
