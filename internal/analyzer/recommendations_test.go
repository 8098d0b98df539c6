package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecommendations_VerdictAlwaysFirst(t *testing.T) {
	tests := []struct {
		name     string
		overall  float64
		wantKind RecommendationKind
	}{
		{"excellent", 95, KindSuccess},
		{"excellent edge", 90, KindSuccess},
		{"good", 75, KindInfo},
		{"good edge", 70, KindInfo},
		{"needs review", 69.99, KindWarning},
		{"zero", 0, KindWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Metrics chosen so no secondary rule fires
			m := MetricsBundle{ReachPercent: 25, EngagementRate: 8, PostsPerDay: 1}
			recs := GenerateRecommendations(m, QualityScore{Overall: tt.overall})

			require.NotEmpty(t, recs, "the verdict guarantees at least one entry")
			assert.Equal(t, tt.wantKind, recs[0].Kind)
			assert.Len(t, recs, 1)
		})
	}
}

func TestGenerateRecommendations_Findings(t *testing.T) {
	m := MetricsBundle{
		ReachPercent:   12.34,
		ErrPercent:     18.5,
		EngagementRate: 2,
		PostsPerDay:    7,
	}
	recs := GenerateRecommendations(m, QualityScore{Overall: 40})

	require.Len(t, recs, 5, "every rule fires independently")

	assert.Equal(t, KindWarning, recs[0].Kind) // verdict
	assert.Equal(t, KindWarning, recs[1].Kind) // low reach
	assert.Contains(t, recs[1].Message, "12.34")
	assert.Equal(t, KindDanger, recs[2].Kind) // high ERR
	assert.Contains(t, recs[2].Message, "18.50")
	assert.Equal(t, KindInfo, recs[3].Kind)    // low engagement
	assert.Equal(t, KindWarning, recs[4].Kind) // over-posting
}

func TestGenerateRecommendations_Thresholds(t *testing.T) {
	// ERR of exactly 10 does not trigger the danger finding; the score
	// penalty threshold (5%) is a separate, independent rule.
	m := MetricsBundle{ReachPercent: 20, ErrPercent: 10, EngagementRate: 5, PostsPerDay: 5}
	recs := GenerateRecommendations(m, QualityScore{Overall: 80})

	assert.Len(t, recs, 1, "boundary values trigger nothing beyond the verdict")
}
