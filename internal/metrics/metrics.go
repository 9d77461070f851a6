package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"plum/internal/models"
)

// Backend request outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	keywordPostsDesc = prometheus.NewDesc(
		"plum_keyword_posts",
		"Number of recently sourced posts matching a prospect keyword",
		[]string{"prospect", "keyword"},
		nil,
	)

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plum_backend_requests_total",
			Help: "Requests made to the external backend by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)
)

// StatsSource provides keyword stats for export.
type StatsSource interface {
	GetAllKeywordStats(ctx context.Context) ([]models.KeywordStat, error)
}

// KeywordCollector is a custom Prometheus collector that reads keyword stats
// from the database on each scrape.
type KeywordCollector struct {
	source StatsSource
}

// NewKeywordCollector creates a collector reading from source.
func NewKeywordCollector(source StatsSource) *KeywordCollector {
	return &KeywordCollector{source: source}
}

// Describe sends the metric descriptor to the channel.
func (c *KeywordCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- keywordPostsDesc
}

// Collect queries keyword stats and emits them as gauges.
func (c *KeywordCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := c.source.GetAllKeywordStats(ctx)
	if err != nil {
		slog.Error("failed to collect keyword stats metrics", "error", err)
		return
	}
	for _, s := range stats {
		ch <- prometheus.MustNewConstMetric(
			keywordPostsDesc,
			prometheus.GaugeValue,
			float64(s.PostCount),
			s.ProspectID.String(),
			s.Keyword,
		)
	}
}

var registerOnce sync.Once

// Init registers the collectors with the default registry.
// Must be called once at startup; later calls are no-ops.
func Init(source StatsSource) {
	registerOnce.Do(func() {
		prometheus.MustRegister(NewKeywordCollector(source), backendRequests)
	})
}

// RecordBackendRequest counts one backend call.
func RecordBackendRequest(endpoint, outcome string) {
	backendRequests.WithLabelValues(endpoint, outcome).Inc()
}
