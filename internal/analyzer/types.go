// Package analyzer implements the audience quality pipeline for Telegram-style
// messaging channels. It normalizes sparse public metrics (subscribers, reach,
// ERR%, citation index, posting stats) into a canonical bundle, computes a
// weighted partial-credit 0-100 quality score, derives engagement diagnostics,
// generates advisory recommendations, and estimates an advertising CPM range
// and per-post price. Batches of channels are ranked and aggregated for
// media-plan comparison.
//
// Every stage is a pure function over immutable inputs; the Engine only holds
// read-only lookup tables (category multipliers, base CPM).
package analyzer

import "time"

// RecommendationKind categorizes an advisory message
type RecommendationKind string

const (
	KindSuccess RecommendationKind = "success"
	KindInfo    RecommendationKind = "info"
	KindWarning RecommendationKind = "warning"
	KindDanger  RecommendationKind = "danger"
)

// Consistency classifies posting cadence derived from posts/day
type Consistency string

const (
	ConsistencyExcellent   Consistency = "excellent"
	ConsistencyGood        Consistency = "good"
	ConsistencyAverage     Consistency = "average"
	ConsistencyTooFrequent Consistency = "too_frequent"
	ConsistencyPoor        Consistency = "poor"
)

// AnalysisStatus marks a result as a success or a captured failure
type AnalysisStatus string

const (
	StatusOK     AnalysisStatus = "ok"
	StatusFailed AnalysisStatus = "failed"
)

// ChannelSnapshot holds the identity and static attributes of a channel as
// returned by the channel-info provider. Reach, ERR% and citation index may
// be embedded here when no separate period stats are available.
type ChannelSnapshot struct {
	Username      string  `json:"username"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Subscribers   int64   `json:"subscribers"`
	Category      string  `json:"category"`
	Verified      bool    `json:"verified"`
	Language      string  `json:"language"`
	AvgReach      float64 `json:"avg_reach,omitempty"`
	ErrPercent    float64 `json:"err_percent,omitempty"`
	CitationIndex float64 `json:"citation_index,omitempty"`
}

// PeriodStats holds optional per-period posting statistics for a channel.
// Absence of any field degrades the dependent metrics to a documented
// fallback, never to an error.
type PeriodStats struct {
	PeriodDays      int     `json:"period_days"`
	PostsCount      int     `json:"posts_count"`
	ViewsPerPost    float64 `json:"views_per_post"`
	ForwardsPerPost float64 `json:"forwards_per_post"`
	MentionsPerPost float64 `json:"mentions_per_post"`
	AvgReach        float64 `json:"avg_reach"`
	CitationIndex   float64 `json:"citation_index"`
}

// MetricsBundle is the canonical normalized metric set every downstream
// stage consumes. Percentage/rate fields are rounded to 2 decimal places,
// posts/day to 1.
type MetricsBundle struct {
	Subscribers     int64   `json:"subscribers"`
	AvgReach        float64 `json:"avg_reach"`
	ReachPercent    float64 `json:"reach_percent"`
	EngagementRate  float64 `json:"engagement_rate"`
	CitationIndex   float64 `json:"citation_index"`
	ErrPercent      float64 `json:"err_percent"`
	PostsPerDay     float64 `json:"posts_per_day"`
	ViewsPerPost    float64 `json:"views_per_post"`
	ForwardsPerPost float64 `json:"forwards_per_post"`
	MentionsPerPost float64 `json:"mentions_per_post"`
	Category        string  `json:"category"`
	Verified        bool    `json:"verified"`
	Language        string  `json:"language"`
}

// ScoreBreakdown holds the four weighted sub-scores, each already scaled to
// its own maximum points (subscribers 25, reach 30, engagement 25, citation 20)
type ScoreBreakdown struct {
	Subscribers float64 `json:"subscribers"` // 0-25
	Reach       float64 `json:"reach"`       // 0-30
	Engagement  float64 `json:"engagement"`  // 0-25
	Citation    float64 `json:"citation"`    // 0-20
}

// ScoreModifiers holds the multipliers applied after the weighted sum
type ScoreModifiers struct {
	Category   float64 `json:"category"`
	Verified   float64 `json:"verified"`
	ErrPenalty float64 `json:"err_penalty"`
}

// QualityScore is the audited output of the quality scorer
type QualityScore struct {
	Overall   float64        `json:"overall"` // 0-100
	Breakdown ScoreBreakdown `json:"breakdown"`
	Modifiers ScoreModifiers `json:"modifiers"`
}

// EngagementMetrics holds per-subscriber/per-post engagement ratios and the
// bounded viral-potential index
type EngagementMetrics struct {
	ViewsPerPost       float64     `json:"views_per_post"`
	ViewsPerSubscriber float64     `json:"views_per_subscriber"` // 4-decimal
	ForwardsPerPost    float64     `json:"forwards_per_post"`
	ForwardRate        float64     `json:"forward_rate"` // % of views
	MentionsPerPost    float64     `json:"mentions_per_post"`
	MentionRate        float64     `json:"mention_rate"` // % of views
	PostsPerDay        float64     `json:"posts_per_day"`
	Consistency        Consistency `json:"consistency"`
	ViralPotential     float64     `json:"viral_potential"` // 0-100
}

// Recommendation is a single advisory message. The generated list is ordered
// (verdict first, then specific findings) and never deduplicated.
type Recommendation struct {
	Kind    RecommendationKind `json:"kind"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
}

// PriceFactors snapshots the multipliers used to derive a price estimate
type PriceFactors struct {
	Subscribers float64 `json:"subscribers"`
	Category    float64 `json:"category"`
	Quality     float64 `json:"quality"`
	Engagement  float64 `json:"engagement"`
	Verified    float64 `json:"verified"`
}

// PriceEstimate holds the CPM range and estimated per-post price. All
// monetary figures share one currency tag.
type PriceEstimate struct {
	CPMMin    float64      `json:"cpm_min"`
	CPMAvg    float64      `json:"cpm_avg"`
	CPMMax    float64      `json:"cpm_max"`
	PostPrice float64      `json:"post_price"`
	Currency  string       `json:"currency"`
	Factors   PriceFactors `json:"factors"`
}

// AnalysisResult is either a success record bundling every pipeline output,
// or a failure record carrying only the identity and an error description.
// Status discriminates the two; payload pointers are nil on failure.
type AnalysisResult struct {
	ID       string         `json:"id"`
	Status   AnalysisStatus `json:"status"`
	Username string         `json:"username"`
	Title    string         `json:"title,omitempty"`
	Category string         `json:"category,omitempty"`

	Metrics         *MetricsBundle     `json:"metrics,omitempty"`
	Score           *QualityScore      `json:"score,omitempty"`
	Engagement      *EngagementMetrics `json:"engagement,omitempty"`
	Recommendations []Recommendation   `json:"recommendations,omitempty"`
	Price           *PriceEstimate     `json:"price,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
	Error      string    `json:"error,omitempty"`
}

// OK reports whether the result carries a full analysis payload
func (r *AnalysisResult) OK() bool { return r.Status == StatusOK }

// RankedResult annotates an AnalysisResult with its dense rank in a
// comparison (1 = highest score; 0 for failure results, which do not rank)
type RankedResult struct {
	AnalysisResult
	Rank int `json:"rank"`
}

// ChannelInput pairs a snapshot with its optional period stats for batch
// comparison
type ChannelInput struct {
	Snapshot ChannelSnapshot `json:"snapshot"`
	Stats    *PeriodStats    `json:"stats,omitempty"`
}

// ComparisonSummary aggregates a whole comparison run. Averages cover only
// results with a score; failures are counted but excluded from numerics.
type ComparisonSummary struct {
	Count           int     `json:"count"`
	Analyzed        int     `json:"analyzed"`
	Failed          int     `json:"failed"`
	AvgScore        float64 `json:"avg_score"`
	AvgSubscribers  float64 `json:"avg_subscribers"`
	AvgReachPercent float64 `json:"avg_reach_percent"`
}

// CategoryStats aggregates successful results sharing one category
type CategoryStats struct {
	Count          int     `json:"count"`
	AvgScore       float64 `json:"avg_score"`
	AvgSubscribers float64 `json:"avg_subscribers"`
	AvgCPM         float64 `json:"avg_cpm"`
}

// ComparisonReport is the ranked, aggregated output of a batch comparison
type ComparisonReport struct {
	Timestamp  time.Time                `json:"timestamp"`
	Channels   []RankedResult           `json:"channels"`
	Summary    ComparisonSummary        `json:"summary"`
	Categories map[string]CategoryStats `json:"categories"`
}
