package analyzer

import "fmt"

// GenerateRecommendations applies the advisory threshold rules over the
// metrics and score. The verdict entry always comes first, so the list is
// never empty; the remaining rules are evaluated independently and appended
// in a fixed order.
func GenerateRecommendations(m MetricsBundle, score QualityScore) []Recommendation {
	recs := make([]Recommendation, 0, 5)

	switch {
	case score.Overall >= 90:
		recs = append(recs, Recommendation{
			Kind:    KindSuccess,
			Title:   "Excellent channel",
			Message: "Audience quality is excellent, a strong candidate for ad placement.",
		})
	case score.Overall >= 70:
		recs = append(recs, Recommendation{
			Kind:    KindInfo,
			Title:   "Good channel",
			Message: "Audience quality is good, suitable for most campaigns.",
		})
	default:
		recs = append(recs, Recommendation{
			Kind:    KindWarning,
			Title:   "Needs review",
			Message: "Audience quality is below average, review the channel before booking.",
		})
	}

	if m.ReachPercent < 20 {
		recs = append(recs, Recommendation{
			Kind:    KindWarning,
			Title:   "Low reach",
			Message: fmt.Sprintf("Average post reach is only %.2f%% of subscribers; a healthy channel reaches 20%% or more.", m.ReachPercent),
		})
	}

	if m.ErrPercent > 10 {
		recs = append(recs, Recommendation{
			Kind:    KindDanger,
			Title:   "High ERR",
			Message: fmt.Sprintf("ERR of %.2f%% suggests inorganic activity; verify the audience before paying for placement.", m.ErrPercent),
		})
	}

	if m.EngagementRate < 5 {
		recs = append(recs, Recommendation{
			Kind:    KindInfo,
			Title:   "Low engagement",
			Message: "Engagement rate is low; expect modest interaction with sponsored posts.",
		})
	}

	if m.PostsPerDay > 5 {
		recs = append(recs, Recommendation{
			Kind:    KindWarning,
			Title:   "Over-posting",
			Message: "The channel posts more than 5 times a day; ads may get buried quickly.",
		})
	}

	return recs
}
