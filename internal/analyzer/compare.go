package analyzer

import (
	"sort"
	"time"
)

// CompareChannels analyzes a batch of channels and builds a ranked report.
// Successful results are sorted by score descending (stable, so equal scores
// keep their input order) and assigned dense ranks 1..N; failure results are
// retained at the end of the list with rank 0 and excluded from every
// numeric aggregate.
func (e *Engine) CompareChannels(inputs []ChannelInput) ComparisonReport {
	report := ComparisonReport{
		Timestamp:  time.Now().UTC(),
		Channels:   make([]RankedResult, 0, len(inputs)),
		Categories: make(map[string]CategoryStats),
	}

	var ok []AnalysisResult
	var failed []AnalysisResult
	for _, in := range inputs {
		result := e.AnalyzeChannel(in.Snapshot, in.Stats)
		if result.OK() {
			ok = append(ok, result)
		} else {
			failed = append(failed, result)
		}
	}

	sort.SliceStable(ok, func(i, j int) bool {
		return ok[i].Score.Overall > ok[j].Score.Overall
	})

	for i, result := range ok {
		report.Channels = append(report.Channels, RankedResult{AnalysisResult: result, Rank: i + 1})
	}
	for _, result := range failed {
		report.Channels = append(report.Channels, RankedResult{AnalysisResult: result})
	}

	report.Summary = summarize(ok, len(failed))
	report.Categories = aggregateByCategory(ok)
	return report
}

func summarize(ok []AnalysisResult, failed int) ComparisonSummary {
	s := ComparisonSummary{
		Count:    len(ok) + failed,
		Analyzed: len(ok),
		Failed:   failed,
	}
	if len(ok) == 0 {
		return s
	}

	var score, subscribers, reach float64
	for _, r := range ok {
		score += r.Score.Overall
		subscribers += float64(r.Metrics.Subscribers)
		reach += r.Metrics.ReachPercent
	}
	n := float64(len(ok))
	s.AvgScore = round2(score / n)
	s.AvgSubscribers = round2(subscribers / n)
	s.AvgReachPercent = round2(reach / n)
	return s
}

func aggregateByCategory(ok []AnalysisResult) map[string]CategoryStats {
	type acc struct {
		count       int
		score       float64
		subscribers float64
		cpm         float64
	}
	byCategory := make(map[string]*acc)
	for _, r := range ok {
		a := byCategory[r.Category]
		if a == nil {
			a = &acc{}
			byCategory[r.Category] = a
		}
		a.count++
		a.score += r.Score.Overall
		a.subscribers += float64(r.Metrics.Subscribers)
		a.cpm += r.Price.CPMAvg
	}

	stats := make(map[string]CategoryStats, len(byCategory))
	for category, a := range byCategory {
		n := float64(a.count)
		stats[category] = CategoryStats{
			Count:          a.count,
			AvgScore:       round2(a.score / n),
			AvgSubscribers: round2(a.subscribers / n),
			AvgCPM:         round2(a.cpm / n),
		}
	}
	return stats
}
