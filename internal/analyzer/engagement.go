package analyzer

import "math"

// AnalyzeEngagement derives per-subscriber/per-post engagement ratios, a
// posting consistency class, and a bounded 0-100 viral-potential index from
// a normalized metrics bundle.
func AnalyzeEngagement(m MetricsBundle) EngagementMetrics {
	em := EngagementMetrics{
		ViewsPerPost:    m.ViewsPerPost,
		ForwardsPerPost: m.ForwardsPerPost,
		MentionsPerPost: m.MentionsPerPost,
		PostsPerDay:     m.PostsPerDay,
	}

	if m.Subscribers > 0 {
		em.ViewsPerSubscriber = round4(m.ViewsPerPost / float64(m.Subscribers))
	}
	if m.ViewsPerPost > 0 {
		em.ForwardRate = round2(m.ForwardsPerPost / m.ViewsPerPost * 100)
		em.MentionRate = round2(m.MentionsPerPost / m.ViewsPerPost * 100)
	}

	em.Consistency = classifyConsistency(m.PostsPerDay)
	em.ViralPotential = viralPotential(em)
	return em
}

// classifyConsistency bands posts/day into a cadence class. Bands are
// inclusive on the lower edge; anything above 3 is over-posting.
func classifyConsistency(postsPerDay float64) Consistency {
	switch {
	case postsPerDay > 3:
		return ConsistencyTooFrequent
	case postsPerDay >= 1:
		return ConsistencyExcellent
	case postsPerDay >= 0.5:
		return ConsistencyGood
	case postsPerDay >= 0.2:
		return ConsistencyAverage
	default:
		return ConsistencyPoor
	}
}

// viralPotential sums banded contributions from forward rate, mention rate,
// per-subscriber views and cadence, capped at 100. Bands within a category
// are mutually exclusive, highest threshold first.
func viralPotential(em EngagementMetrics) float64 {
	var score float64

	switch {
	case em.ForwardRate > 5:
		score += 40
	case em.ForwardRate > 2:
		score += 25
	case em.ForwardRate > 1:
		score += 15
	}

	switch {
	case em.MentionRate > 3:
		score += 30
	case em.MentionRate > 1:
		score += 20
	case em.MentionRate > 0.5:
		score += 10
	}

	switch {
	case em.ViewsPerSubscriber > 1.2:
		score += 20
	case em.ViewsPerSubscriber > 1:
		score += 15
	case em.ViewsPerSubscriber > 0.8:
		score += 10
	}

	switch em.Consistency {
	case ConsistencyExcellent:
		score += 10
	case ConsistencyGood:
		score += 5
	}

	return math.Min(100, score)
}
