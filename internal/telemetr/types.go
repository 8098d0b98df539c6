// Package telemetr is a client for the Telemetr-style channel statistics
// API, the external provider of channel info and period stats consumed by
// the analyzer pipeline.
package telemetr

// ChannelInfo is the provider's channel-info payload
type ChannelInfo struct {
	Username      string  `json:"username"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Subscribers   int64   `json:"participants_count"`
	Category      string  `json:"category"`
	Verified      bool    `json:"verified"`
	Language      string  `json:"language"`
	AvgReach      float64 `json:"avg_post_reach"`
	ErrPercent    float64 `json:"err_percent"`
	CitationIndex float64 `json:"ci_index"`
}

// ChannelStats is the provider's period-statistics payload
type ChannelStats struct {
	PeriodDays      int     `json:"period_days"`
	PostsCount      int     `json:"posts_count"`
	ViewsPerPost    float64 `json:"views_per_post"`
	ForwardsPerPost float64 `json:"forwards_per_post"`
	MentionsPerPost float64 `json:"mentions_per_post"`
	AvgReach        float64 `json:"avg_post_reach"`
	CitationIndex   float64 `json:"ci_index"`
}

// apiResponse is the provider's common envelope
type apiResponse[T any] struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Result T      `json:"result"`
}
