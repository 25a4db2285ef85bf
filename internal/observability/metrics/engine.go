package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// EngineMetrics records translation engine events. It satisfies the engine
// observer port and the resilience observer.
type EngineMetrics struct {
	service string

	translations     *prometheus.CounterVec
	translationTime  *prometheus.HistogramVec
	leverage         *prometheus.HistogramVec
	words            *prometheus.CounterVec
	tmDegraded       *prometheus.CounterVec
	bulkProgress     *prometheus.GaugeVec
	cacheLookups     *prometheus.CounterVec
	autosaveWrites   *prometheus.CounterVec
	retries          *prometheus.CounterVec
	breakerChanges   *prometheus.CounterVec
	breakerOpenState *prometheus.GaugeVec
}

func NewEngineMetrics(service string, reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		service: service,
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "segment_translations_total",
			Help:      "Segment translations by outcome.",
		}, []string{"service", "outcome", "needs_review"}),
		translationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "segment_translation_duration_seconds",
			Help:      "Single segment translation duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"service", "outcome"}),
		leverage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "segment_word_leverage_percent",
			Help:      "Word-level leverage percentage per translated segment.",
			Buckets:   []float64{0, 10, 25, 50, 75, 90, 100},
		}, []string{"service"}),
		words: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "words_total",
			Help:      "Translated words by match type.",
		}, []string{"service", "match"}),
		tmDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "tm_degraded_total",
			Help:      "Translations that proceeded without translation memory.",
		}, []string{"service"}),
		bulkProgress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "bulk_progress_ratio",
			Help:      "Completion ratio of the most recent bulk run.",
		}, []string{"service"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analysis_cache_lookups_total",
			Help:      "Analysis cache lookups by result.",
		}, []string{"service", "result"}),
		autosaveWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "autosave_writes_total",
			Help:      "Autosave attempts by outcome.",
		}, []string{"service", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "retries_total",
			Help:      "Retried outbound calls by operation.",
		}, []string{"service", "operation"}),
		breakerChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions.",
		}, []string{"service", "operation", "from", "to"}),
		breakerOpenState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "breaker_open",
			Help:      "1 while the breaker of an operation is open.",
		}, []string{"service", "operation"}),
	}

	reg.MustRegister(
		m.translations,
		m.translationTime,
		m.leverage,
		m.words,
		m.tmDegraded,
		m.bulkProgress,
		m.cacheLookups,
		m.autosaveWrites,
		m.retries,
		m.breakerChanges,
		m.breakerOpenState,
	)
	return m
}

func (m *EngineMetrics) SegmentTranslated(stats domain.LeverageData, needsReview bool, duration time.Duration) {
	m.translations.WithLabelValues(m.service, "success", strconv.FormatBool(needsReview)).Inc()
	m.translationTime.WithLabelValues(m.service, "success").Observe(duration.Seconds())
	m.leverage.WithLabelValues(m.service).Observe(stats.LeveragePercentage)
	m.words.WithLabelValues(m.service, string(domain.MatchExact)).Add(float64(stats.ExactMatchWords))
	m.words.WithLabelValues(m.service, string(domain.MatchFuzzy)).Add(float64(stats.FuzzyMatchWords))
	m.words.WithLabelValues(m.service, string(domain.MatchNew)).Add(float64(stats.NewWords))
}

func (m *EngineMetrics) SegmentFailed(reason string, duration time.Duration) {
	if reason == "" {
		reason = "unknown"
	}
	m.translations.WithLabelValues(m.service, reason, "false").Inc()
	m.translationTime.WithLabelValues(m.service, "error").Observe(duration.Seconds())
}

func (m *EngineMetrics) TMDegraded() {
	m.tmDegraded.WithLabelValues(m.service).Inc()
}

func (m *EngineMetrics) BulkProgress(done, total int) {
	ratio := 1.0
	if total > 0 {
		ratio = float64(done) / float64(total)
	}
	m.bulkProgress.WithLabelValues(m.service).Set(ratio)
}

func (m *EngineMetrics) AnalysisCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(m.service, result).Inc()
}

func (m *EngineMetrics) AutosaveWrite(outcome string) {
	m.autosaveWrites.WithLabelValues(m.service, outcome).Inc()
}

func (m *EngineMetrics) RetryAttempt(operation string) {
	m.retries.WithLabelValues(m.service, operation).Inc()
}

func (m *EngineMetrics) BreakerStateChange(operation, from, to string) {
	m.breakerChanges.WithLabelValues(m.service, operation, from, to).Inc()
	open := 0.0
	if to == "open" {
		open = 1
	}
	m.breakerOpenState.WithLabelValues(m.service, operation).Set(open)
}
