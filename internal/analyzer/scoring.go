package analyzer

import "math"

// Sub-score caps. Each weight is cap/100, so a factor at its cap contributes
// its full weight to the normalized sum.
const (
	subscriberCap = 25.0
	reachCap      = 30.0
	engagementCap = 25.0
	citationCap   = 20.0

	subscriberWeight = 0.25
	reachWeight      = 0.30
	engagementWeight = 0.25
	citationWeight   = 0.20
)

// ScoreQuality computes the weighted, partial-credit 0-100 quality score for
// a metrics bundle. A factor participates only when its driving metric is
// positive; absent factors drop out of the weight normalization instead of
// dragging the score to zero. If no factor is usable the result is a valid
// degenerate zero score, not an error.
func (e *Engine) ScoreQuality(m MetricsBundle) QualityScore {
	score := QualityScore{
		Modifiers: ScoreModifiers{Category: 1, Verified: 1, ErrPenalty: 1},
	}

	var weightedSum, totalWeight float64

	if m.Subscribers > 0 {
		pts := math.Min(subscriberCap, math.Log10(float64(m.Subscribers))*5)
		score.Breakdown.Subscribers = pts
		weightedSum += pts / subscriberCap * subscriberWeight
		totalWeight += subscriberWeight
	}
	if m.ReachPercent > 0 {
		pts := math.Min(reachCap, m.ReachPercent*2)
		score.Breakdown.Reach = pts
		weightedSum += pts / reachCap * reachWeight
		totalWeight += reachWeight
	}
	if m.EngagementRate > 0 {
		pts := math.Min(engagementCap, m.EngagementRate*5)
		score.Breakdown.Engagement = pts
		weightedSum += pts / engagementCap * engagementWeight
		totalWeight += engagementWeight
	}
	if m.CitationIndex > 0 {
		pts := math.Min(citationCap, m.CitationIndex*20)
		score.Breakdown.Citation = pts
		weightedSum += pts / citationCap * citationWeight
		totalWeight += citationWeight
	}

	if totalWeight == 0 {
		return score
	}

	score.Modifiers.Category = e.categoryMultiplier(m.Category)
	weightedSum *= score.Modifiers.Category

	if m.Verified {
		score.Modifiers.Verified = 1.1
		weightedSum *= 1.1
	}

	// ERR above 5% signals inorganic activity; penalty scales with the value
	if m.ErrPercent > 5 {
		score.Modifiers.ErrPenalty = 1 - math.Min(m.ErrPercent, 100)/100*0.5
		weightedSum *= score.Modifiers.ErrPenalty
	}

	score.Overall = round2(clamp(weightedSum/totalWeight*100, 0, 100))
	return score
}
