package analyzer

import "math"

// EstimatePrice converts metrics and quality score into a CPM range and an
// estimated per-post price. The base CPM is multiplied sequentially by a
// subscriber-tier factor, the category multiplier, a quality multiplier,
// an engagement-tier factor, and a verified bonus; the range is the result
// plus/minus 30%.
//
// Tier thresholds are strict inequalities evaluated highest first. Note that
// a channel with 0 subscribers falls into the "<1000" tier (0.5), since the
// tiers as stated leave it no other band.
func (e *Engine) EstimatePrice(m MetricsBundle, score QualityScore) PriceEstimate {
	factors := PriceFactors{
		Subscribers: subscriberTierFactor(m.Subscribers),
		Category:    e.categoryMultiplier(m.Category),
		Quality:     0.5 + score.Overall/100,
		Engagement:  engagementTierFactor(m.EngagementRate),
		Verified:    1.0,
	}
	if m.Verified {
		factors.Verified = 1.2
	}

	cpm := e.baseCPM
	cpm *= factors.Subscribers
	cpm *= factors.Category
	cpm *= factors.Quality
	cpm *= factors.Engagement
	cpm *= factors.Verified

	estimatedViews := m.AvgReach
	if estimatedViews == 0 {
		estimatedViews = float64(m.Subscribers) * 0.3
	}

	avg := math.Round(cpm)
	return PriceEstimate{
		CPMMin:    math.Round(cpm * 0.7),
		CPMAvg:    avg,
		CPMMax:    math.Round(cpm * 1.3),
		PostPrice: math.Round(avg / 1000 * estimatedViews / 1000 * 1000),
		Currency:  e.currency,
		Factors:   factors,
	}
}

func subscriberTierFactor(subscribers int64) float64 {
	switch {
	case subscribers > 100000:
		return 1.5
	case subscribers > 50000:
		return 1.3
	case subscribers > 10000:
		return 1.1
	case subscribers < 1000:
		return 0.5
	default:
		return 1.0
	}
}

func engagementTierFactor(engagementRate float64) float64 {
	switch {
	case engagementRate > 15:
		return 1.4
	case engagementRate > 10:
		return 1.2
	case engagementRate < 3:
		return 0.8
	default:
		return 1.0
	}
}
