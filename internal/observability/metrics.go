package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec
	lockWait           *HistogramVec

	toggles        *CounterVec
	onboarding     *CounterVec
	sseClients     *Gauge
	journeyPublish *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. It returns nil when disabled;
// every method is nil-safe so callers never need to check.
func Init(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() { instance = New() })
	return instance
}

func Current() *Metrics {
	return instance
}

// New returns a standalone registry. Tests use it directly.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("pw_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"pw_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("pw_api_inflight_requests", "In-flight API requests."),

		aggregateOps: NewCounterVec("pw_aggregate_operations_total", "Aggregate write outcomes by operation/status.", []string{"op", "status"}),
		aggregateLatency: NewHistogramVec(
			"pw_aggregate_operation_duration_seconds",
			"Aggregate write latency in seconds by operation.",
			[]string{"op"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		),
		aggregateConflicts: NewCounterVec("pw_aggregate_conflicts_total", "Compare-and-set conflicts by operation.", []string{"op"}),
		aggregateRetries:   NewCounterVec("pw_aggregate_retryable_total", "Retryable aggregate failures by operation.", []string{"op"}),
		lockWait: NewHistogramVec(
			"pw_user_lock_wait_seconds",
			"Time spent waiting for the per-user progress lock.",
			[]string{"op"},
			[]float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		),

		toggles:        NewCounterVec("pw_milestone_toggles_total", "Milestone toggles by resulting action.", []string{"action"}),
		onboarding:     NewCounterVec("pw_onboarding_recommendations_total", "Onboarding submissions by recommended stage.", []string{"stage"}),
		sseClients:     NewGauge("pw_sse_clients", "Connected progress stream clients."),
		journeyPublish: NewCounterVec("pw_journey_events_published_total", "Journey events handed to the event stream by status.", []string{"status"}),

		dbStats:   NewGaugeVec("pw_db_pool", "Database pool stats.", []string{"stat"}),
		redisUp:   NewGauge("pw_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing: NewGauge("pw_redis_ping_seconds", "Last Redis ping latency in seconds."),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed && log != nil {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, pw := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries, m.lockWait,
		m.toggles, m.onboarding, m.sseClients, m.journeyPublish,
		m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := pw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Inc(op, status)
	m.aggregateLatency.Observe(dur.Seconds(), op)
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(op)
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(op)
}

func (m *Metrics) ObserveLockWait(op string, dur time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(dur.Seconds(), op)
}

func (m *Metrics) IncToggle(action string) {
	if m == nil {
		return
	}
	m.toggles.Inc(action)
}

func (m *Metrics) IncOnboardingRecommendation(stage string) {
	if m == nil {
		return
	}
	m.onboarding.Inc(stage)
}

func (m *Metrics) SSEClientsAdd(delta float64) {
	if m == nil {
		return
	}
	m.sseClients.Add(delta)
}

func (m *Metrics) IncJourneyPublish(status string) {
	if m == nil {
		return
	}
	m.journeyPublish.Inc(status)
}

// StartDBCollector samples connection pool stats until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

// StartRedisCollector pings the shared client until ctx ends.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
