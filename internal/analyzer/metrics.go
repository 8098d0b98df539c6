package analyzer

// NormalizeMetrics turns a channel snapshot plus optional period stats into
// the canonical metrics bundle. It has no error cases: every missing input
// degrades to zero, a documented fallback, or "unknown".
//
// Fallback chains, evaluated top to bottom:
//   - avg reach: snapshot value, else stats value, else 0
//   - citation index: snapshot value, else stats value, else 0
//   - engagement rate: citation index when > 0, else reach% * 0.8
//   - posts/day: postsCount/periodDays when posts supplied, else 1
//   - views/post: stats value when > 0, else avg reach
func NormalizeMetrics(snap ChannelSnapshot, stats *PeriodStats) MetricsBundle {
	m := MetricsBundle{
		Subscribers: snap.Subscribers,
		ErrPercent:  snap.ErrPercent,
		Category:    snap.Category,
		Verified:    snap.Verified,
		Language:    snap.Language,
	}
	if m.Category == "" {
		m.Category = "unknown"
	}

	m.AvgReach = snap.AvgReach
	if m.AvgReach == 0 && stats != nil {
		m.AvgReach = stats.AvgReach
	}

	m.CitationIndex = snap.CitationIndex
	if m.CitationIndex == 0 && stats != nil {
		m.CitationIndex = stats.CitationIndex
	}

	if m.Subscribers > 0 {
		m.ReachPercent = round2(m.AvgReach / float64(m.Subscribers) * 100)
	}

	if m.CitationIndex > 0 {
		m.EngagementRate = round2(m.CitationIndex)
	} else {
		m.EngagementRate = round2(m.ReachPercent * 0.8)
	}

	// Baseline of one post/day when posting stats are unknown
	m.PostsPerDay = 1
	if stats != nil && stats.PostsCount > 0 {
		days := stats.PeriodDays
		if days <= 0 {
			days = 7
		}
		m.PostsPerDay = round1(float64(stats.PostsCount) / float64(days))
	}

	m.ViewsPerPost = m.AvgReach
	if stats != nil {
		if stats.ViewsPerPost > 0 {
			m.ViewsPerPost = stats.ViewsPerPost
		}
		m.ForwardsPerPost = stats.ForwardsPerPost
		m.MentionsPerPost = stats.MentionsPerPost
	}

	return m
}
