package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adpulse/channel-monitor/internal/analyzer"
	"github.com/adpulse/channel-monitor/internal/config"
	"github.com/adpulse/channel-monitor/internal/storage"
	"github.com/adpulse/channel-monitor/internal/telemetr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T) (*Handlers, http.Handler) {
	t.Helper()
	store, err := storage.New(config.StorageConfig{LocalPath: t.TempDir(), MaxAnalyses: 100})
	require.NoError(t, err)

	h := NewHandlers(analyzer.New(analyzer.Config{}), store)
	return h, SetupRoutes(h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeChannel_InlineSnapshot(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", AnalyzeRequest{
		Snapshot: &analyzer.ChannelSnapshot{
			Username:    "technews",
			Title:       "Tech News",
			Subscribers: 50000,
			Category:    "tech",
			Verified:    true,
			AvgReach:    15000,
			ErrPercent:  2.5,
		},
		Stats: &analyzer.PeriodStats{
			PeriodDays:      7,
			PostsCount:      14,
			ForwardsPerPost: 120,
			MentionsPerPost: 40,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result analyzer.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, analyzer.StatusOK, result.Status)
	assert.Equal(t, "technews", result.Username)
	assert.NotEmpty(t, result.ID)
	require.NotNil(t, result.Score)
	assert.Greater(t, result.Score.Overall, 0.0)
	require.NotNil(t, result.Price)
	assert.NotEmpty(t, result.Recommendations)
}

func TestAnalyzeChannel_InvalidSnapshot(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", AnalyzeRequest{
		Snapshot: &analyzer.ChannelSnapshot{Subscribers: 1000},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username")
}

func TestAnalyzeChannel_MissingInput(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", AnalyzeRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeChannel_BadBody(t *testing.T) {
	_, router := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeChannel_ViaProvider(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/channels/info":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "ok",
				"result": telemetr.ChannelInfo{
					Username:    "daily",
					Title:       "Daily Digest",
					Subscribers: 20000,
					Category:    "news",
					AvgReach:    6000,
				},
			})
		case "/v1/channels/stats":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "ok",
				"result": telemetr.ChannelStats{
					PostsCount:   21,
					ViewsPerPost: 5500,
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer provider.Close()

	h, router := newTestHandlers(t)
	h.SetProvider(telemetr.NewClient(config.TelemetrConfig{
		BaseURL:        provider.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}), 7)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", AnalyzeRequest{Username: "daily"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result analyzer.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, "daily", result.Username)
	require.NotNil(t, result.Metrics)
	assert.Equal(t, int64(20000), result.Metrics.Subscribers)
	assert.Equal(t, 3.0, result.Metrics.PostsPerDay, "21 posts over the default 7-day period")
}

func TestAnalyzeChannel_ProviderDown(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer provider.Close()

	h, router := newTestHandlers(t)
	h.SetProvider(telemetr.NewClient(config.TelemetrConfig{
		BaseURL:        provider.URL,
		TimeoutSeconds: 5,
	}), 7)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", AnalyzeRequest{Username: "daily"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func compareRequest() CompareRequest {
	return CompareRequest{Channels: []analyzer.ChannelInput{
		{Snapshot: analyzer.ChannelSnapshot{
			Username: "small", Title: "Small", Subscribers: 2000,
			Category: "news", AvgReach: 160,
		}},
		{Snapshot: analyzer.ChannelSnapshot{
			Username: "big", Title: "Big", Subscribers: 120000,
			Category: "tech", Verified: true, AvgReach: 40000, CitationIndex: 5,
		}},
	}}
}

func TestCompareChannels(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodPost, "/api/compare", compareRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	var report analyzer.ComparisonReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	require.Len(t, report.Channels, 2)
	assert.Equal(t, 1, report.Channels[0].Rank)
	assert.Equal(t, "big", report.Channels[0].Username)
	assert.Equal(t, 2, report.Summary.Count)
	assert.Equal(t, 2, report.Summary.Analyzed)
}

func TestCompareChannels_Empty(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodPost, "/api/compare", CompareRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetChannelHistory(t *testing.T) {
	_, router := newTestHandlers(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/analyze", AnalyzeRequest{
			Snapshot: &analyzer.ChannelSnapshot{Username: "technews", Subscribers: 50000, AvgReach: 15000},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/channels/technews?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Username string                    `json:"username"`
		Count    int                       `json:"count"`
		Analyses []analyzer.AnalysisResult `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "technews", body.Username)
	assert.Equal(t, 2, body.Count)
}

func TestGetChannelHistory_BadLimit(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodGet, "/api/channels/technews?limit=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSV_NoComparison(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodGet, "/api/export/csv", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCSV(t *testing.T) {
	_, router := newTestHandlers(t)

	rec := doJSON(t, router, http.MethodPost, "/api/compare", compareRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/export/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3, "header plus two channels")
	assert.Equal(t, analyzer.ExportColumns(), records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "big", records[1][1])
}
