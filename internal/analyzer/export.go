package analyzer

import (
	"strconv"
	"time"
)

// ExportRow is one flat record of a tabular export, keyed by column name.
// Values are already formatted as strings; numbers use the shortest exact
// representation so a round trip through the row loses no precision beyond
// the pipeline's own rounding.
type ExportRow map[string]string

// ExportColumns returns the column order for tabular exports
func ExportColumns() []string {
	return []string{
		"rank", "username", "title", "category", "verified", "language",
		"subscribers", "avg_reach", "reach_percent", "engagement_rate",
		"citation_index", "err_percent", "posts_per_day", "views_per_post",
		"forwards_per_post", "mentions_per_post",
		"overall_score", "score_subscribers", "score_reach",
		"score_engagement", "score_citation",
		"mod_category", "mod_verified", "mod_err_penalty",
		"cpm_min", "cpm_avg", "cpm_max", "post_price", "currency",
		"factor_subscribers", "factor_category", "factor_quality",
		"factor_engagement", "factor_verified",
		"analyzed_at",
	}
}

// ToExportRows flattens ranked results into ordered export rows, one per
// successful result. Failure results carry no metrics and are skipped.
func ToExportRows(results []RankedResult) []ExportRow {
	rows := make([]ExportRow, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			continue
		}
		m, s, p := r.Metrics, r.Score, r.Price
		rows = append(rows, ExportRow{
			"rank":              strconv.Itoa(r.Rank),
			"username":          r.Username,
			"title":             r.Title,
			"category":          r.Category,
			"verified":          strconv.FormatBool(m.Verified),
			"language":          m.Language,
			"subscribers":       strconv.FormatInt(m.Subscribers, 10),
			"avg_reach":         formatFloat(m.AvgReach),
			"reach_percent":     formatFloat(m.ReachPercent),
			"engagement_rate":   formatFloat(m.EngagementRate),
			"citation_index":    formatFloat(m.CitationIndex),
			"err_percent":       formatFloat(m.ErrPercent),
			"posts_per_day":     formatFloat(m.PostsPerDay),
			"views_per_post":    formatFloat(m.ViewsPerPost),
			"forwards_per_post": formatFloat(m.ForwardsPerPost),
			"mentions_per_post": formatFloat(m.MentionsPerPost),
			"overall_score":     formatFloat(s.Overall),
			"score_subscribers": formatFloat(s.Breakdown.Subscribers),
			"score_reach":       formatFloat(s.Breakdown.Reach),
			"score_engagement":  formatFloat(s.Breakdown.Engagement),
			"score_citation":    formatFloat(s.Breakdown.Citation),
			"mod_category":      formatFloat(s.Modifiers.Category),
			"mod_verified":      formatFloat(s.Modifiers.Verified),
			"mod_err_penalty":   formatFloat(s.Modifiers.ErrPenalty),
			"cpm_min":           formatFloat(p.CPMMin),
			"cpm_avg":           formatFloat(p.CPMAvg),
			"cpm_max":           formatFloat(p.CPMMax),
			"post_price":        formatFloat(p.PostPrice),
			"currency":          p.Currency,
			"factor_subscribers": formatFloat(p.Factors.Subscribers),
			"factor_category":    formatFloat(p.Factors.Category),
			"factor_quality":     formatFloat(p.Factors.Quality),
			"factor_engagement":  formatFloat(p.Factors.Engagement),
			"factor_verified":    formatFloat(p.Factors.Verified),
			"analyzed_at":        r.AnalyzedAt.Format(time.RFC3339),
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
