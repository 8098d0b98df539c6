package telemetr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/adpulse/channel-monitor/internal/analyzer"
	"github.com/adpulse/channel-monitor/internal/config"
	"github.com/adpulse/channel-monitor/internal/pkg/httpretry"
)

// Client is a Telemetr API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.Doer
}

// NewClient creates a new Telemetr API client
func NewClient(cfg config.TelemetrConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.New(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// GetChannelInfo fetches the public profile of a channel by username
func (c *Client) GetChannelInfo(ctx context.Context, username string) (*ChannelInfo, error) {
	params := url.Values{}
	params.Set("username", normalizeUsername(username))

	body, err := c.doRequest(ctx, "/v1/channels/info", params)
	if err != nil {
		return nil, err
	}

	var resp apiResponse[ChannelInfo]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding channel info: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("provider error: %s", resp.Error)
	}
	return &resp.Result, nil
}

// GetChannelStats fetches posting statistics for a channel over the given
// period in days
func (c *Client) GetChannelStats(ctx context.Context, username string, periodDays int) (*ChannelStats, error) {
	if periodDays <= 0 {
		periodDays = 7
	}
	params := url.Values{}
	params.Set("username", normalizeUsername(username))
	params.Set("period", strconv.Itoa(periodDays))

	body, err := c.doRequest(ctx, "/v1/channels/stats", params)
	if err != nil {
		return nil, err
	}

	var resp apiResponse[ChannelStats]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding channel stats: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("provider error: %s", resp.Error)
	}
	if resp.Result.PeriodDays == 0 {
		resp.Result.PeriodDays = periodDays
	}
	return &resp.Result, nil
}

// doRequest makes an HTTP request to the Telemetr API
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// ToSnapshot converts a provider payload into the analyzer's input record
func (info *ChannelInfo) ToSnapshot() analyzer.ChannelSnapshot {
	return analyzer.ChannelSnapshot{
		Username:      info.Username,
		Title:         info.Title,
		Description:   info.Description,
		Subscribers:   info.Subscribers,
		Category:      info.Category,
		Verified:      info.Verified,
		Language:      info.Language,
		AvgReach:      info.AvgReach,
		ErrPercent:    info.ErrPercent,
		CitationIndex: info.CitationIndex,
	}
}

// ToPeriodStats converts a provider payload into the analyzer's stats record
func (s *ChannelStats) ToPeriodStats() *analyzer.PeriodStats {
	return &analyzer.PeriodStats{
		PeriodDays:      s.PeriodDays,
		PostsCount:      s.PostsCount,
		ViewsPerPost:    s.ViewsPerPost,
		ForwardsPerPost: s.ForwardsPerPost,
		MentionsPerPost: s.MentionsPerPost,
		AvgReach:        s.AvgReach,
		CitationIndex:   s.CitationIndex,
	}
}

func normalizeUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}
