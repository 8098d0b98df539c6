package analyzer

import "math"

// DefaultBaseCPM is the base cost per thousand views before any factor is
// applied, in DefaultCurrency units.
const DefaultBaseCPM = 100.0

// DefaultCurrency tags all monetary figures unless overridden in Config.
const DefaultCurrency = "RUB"

// DefaultCategoryMultipliers maps a channel category to its score/price
// multiplier. Unknown categories multiply by 1.0.
func DefaultCategoryMultipliers() map[string]float64 {
	return map[string]float64{
		"news":          1.2,
		"tech":          1.3,
		"lifestyle":     1.0,
		"entertainment": 0.9,
		"business":      1.4,
		"education":     1.1,
	}
}

// Config carries the tunable tables of the pipeline. Zero values fall back
// to the documented defaults, so analyzer.New(analyzer.Config{}) yields the
// standard engine.
type Config struct {
	BaseCPM             float64
	Currency            string
	CategoryMultipliers map[string]float64
}

// Engine runs the full metrics-to-score-to-price pipeline. It holds only
// immutable lookup tables and is safe for concurrent use.
type Engine struct {
	categoryMultipliers map[string]float64
	baseCPM             float64
	currency            string
}

// New creates a pipeline engine, filling unset Config fields with defaults
func New(cfg Config) *Engine {
	if cfg.BaseCPM <= 0 {
		cfg.BaseCPM = DefaultBaseCPM
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.CategoryMultipliers == nil {
		cfg.CategoryMultipliers = DefaultCategoryMultipliers()
	}
	return &Engine{
		categoryMultipliers: cfg.CategoryMultipliers,
		baseCPM:             cfg.BaseCPM,
		currency:            cfg.Currency,
	}
}

// categoryMultiplier looks up the multiplier for a category, defaulting to 1.0
func (e *Engine) categoryMultiplier(category string) float64 {
	if m, ok := e.categoryMultipliers[category]; ok {
		return m
	}
	return 1.0
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
