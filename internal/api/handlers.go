package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/adpulse/channel-monitor/internal/analyzer"
	"github.com/adpulse/channel-monitor/internal/cache"
	"github.com/adpulse/channel-monitor/internal/repository/postgres"
	"github.com/adpulse/channel-monitor/internal/storage"
	"github.com/adpulse/channel-monitor/internal/telemetr"
	"github.com/go-chi/chi/v5"
)

// ChannelProvider fetches channel data from the external stats API
type ChannelProvider interface {
	GetChannelInfo(ctx context.Context, username string) (*telemetr.ChannelInfo, error)
	GetChannelStats(ctx context.Context, username string, periodDays int) (*telemetr.ChannelStats, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	engine        *analyzer.Engine
	store         *storage.Storage
	provider      ChannelProvider
	resultCache   *cache.ResultCache
	repo          *postgres.AnalysisRepo
	defaultPeriod int
}

// NewHandlers creates a new Handlers instance
func NewHandlers(engine *analyzer.Engine, store *storage.Storage) *Handlers {
	return &Handlers{
		engine:        engine,
		store:         store,
		defaultPeriod: 7,
	}
}

// SetProvider wires the external channel-stats provider
func (h *Handlers) SetProvider(provider ChannelProvider, defaultPeriod int) {
	h.provider = provider
	if defaultPeriod > 0 {
		h.defaultPeriod = defaultPeriod
	}
}

// SetResultCache wires the Redis result cache
func (h *Handlers) SetResultCache(c *cache.ResultCache) { h.resultCache = c }

// SetRepository wires the Postgres analysis repository
func (h *Handlers) SetRepository(repo *postgres.AnalysisRepo) { h.repo = repo }

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// AnalyzeRequest is the body of POST /api/analyze. Either a snapshot is
// supplied inline, or a username to fetch via the stats provider.
type AnalyzeRequest struct {
	Username   string                    `json:"username,omitempty"`
	PeriodDays int                       `json:"period_days,omitempty"`
	Refresh    bool                      `json:"refresh,omitempty"`
	Snapshot   *analyzer.ChannelSnapshot `json:"snapshot,omitempty"`
	Stats      *analyzer.PeriodStats     `json:"stats,omitempty"`
}

// AnalyzeChannel runs the full pipeline for one channel
func (h *Handlers) AnalyzeChannel(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot := req.Snapshot
	stats := req.Stats

	if snapshot == nil {
		if req.Username == "" {
			respondError(w, http.StatusBadRequest, "either snapshot or username is required")
			return
		}
		if h.provider == nil {
			respondError(w, http.StatusBadRequest, "no stats provider configured; supply a snapshot")
			return
		}

		if !req.Refresh {
			if cached := h.cachedResult(r.Context(), req.Username); cached != nil {
				respondJSON(w, http.StatusOK, cached)
				return
			}
		}

		fetched, fetchedStats, err := h.fetchChannel(r.Context(), req.Username, req.PeriodDays)
		if err != nil {
			respondError(w, http.StatusBadGateway, fmt.Sprintf("fetching channel data: %v", err))
			return
		}
		snapshot = fetched
		stats = fetchedStats
	}

	if err := analyzer.ValidateSnapshot(*snapshot); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.engine.AnalyzeChannel(*snapshot, stats)
	h.persist(r.Context(), result)

	respondJSON(w, http.StatusOK, result)
}

// CompareRequest is the body of POST /api/compare
type CompareRequest struct {
	Channels []analyzer.ChannelInput `json:"channels"`
}

// CompareChannels analyzes a batch and returns the ranked report
func (h *Handlers) CompareChannels(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Channels) == 0 {
		respondError(w, http.StatusBadRequest, "at least one channel is required")
		return
	}

	report := h.engine.CompareChannels(req.Channels)

	if err := h.store.SaveComparison(report); err != nil {
		log.Printf("api: saving comparison report: %v", err)
	}
	for _, c := range report.Channels {
		h.persist(r.Context(), c.AnalysisResult)
	}

	respondJSON(w, http.StatusOK, report)
}

// GetChannelHistory returns the newest-first analysis history for a channel
func (h *Handlers) GetChannelHistory(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	history := h.store.GetAnalyses(username, limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"username": username,
		"count":    len(history),
		"analyses": history,
	})
}

// ExportCSV streams the most recent comparison report as CSV
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	report := h.store.GetComparison()
	if report == nil {
		respondError(w, http.StatusNotFound, "no comparison report available")
		return
	}

	rows := analyzer.ToExportRows(report.Channels)
	columns := analyzer.ExportColumns()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="channel-comparison.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		log.Printf("api: writing csv header: %v", err)
		return
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			log.Printf("api: writing csv row: %v", err)
			return
		}
	}
	writer.Flush()
}

// fetchChannel pulls snapshot and stats from the provider. Stats failures
// degrade to analysis without stats rather than failing the request.
func (h *Handlers) fetchChannel(ctx context.Context, username string, periodDays int) (*analyzer.ChannelSnapshot, *analyzer.PeriodStats, error) {
	if periodDays <= 0 {
		periodDays = h.defaultPeriod
	}

	info, err := h.provider.GetChannelInfo(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	snapshot := info.ToSnapshot()

	var stats *analyzer.PeriodStats
	if providerStats, err := h.provider.GetChannelStats(ctx, username, periodDays); err != nil {
		log.Printf("api: stats unavailable for %s: %v", username, err)
	} else {
		stats = providerStats.ToPeriodStats()
	}

	return &snapshot, stats, nil
}

// cachedResult returns a fresh cached analysis, or nil
func (h *Handlers) cachedResult(ctx context.Context, username string) *analyzer.AnalysisResult {
	if h.resultCache == nil {
		return nil
	}
	result, err := h.resultCache.Get(ctx, username)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("api: result cache: %v", err)
		}
		return nil
	}
	return result
}

// persist records a result in every configured sink, best effort
func (h *Handlers) persist(ctx context.Context, result analyzer.AnalysisResult) {
	if err := h.store.SaveAnalysis(result); err != nil {
		log.Printf("api: saving analysis: %v", err)
	}
	if h.resultCache != nil && result.OK() {
		if err := h.resultCache.Set(ctx, result); err != nil {
			log.Printf("api: caching analysis: %v", err)
		}
	}
	if h.repo != nil {
		if err := h.repo.Save(ctx, result); err != nil {
			log.Printf("api: persisting analysis: %v", err)
		}
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("api: encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
