package metrics

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/metric"
)

const (
	CycleTTL = time.Minute * 10
)

// CycleMetrics tracks one propose/validate cycle's outcome and duration.
type CycleMetrics struct {
	proposalsCounter metric.Int64Counter
	disputesCounter  metric.Int64Counter
	abortsCounter    metric.Int64Counter

	cycleTimeHistogram metric.Float64Histogram
	cycleStartTimeCache *ttlcache.Cache[string, time.Time]
}

// NewCycleMetrics initializes metrics related to Dataworker propose and
// validate cycles.
func NewCycleMetrics(ctx context.Context, meter metric.Meter) (*CycleMetrics, error) {
	proposalsCounter, err := meter.Int64Counter(
		"dataworker.ProposalsEnqueued",
		metric.WithDescription("Number of proposeRootBundle transactions enqueued"),
	)
	if err != nil {
		return nil, err
	}

	disputesCounter, err := meter.Int64Counter(
		"dataworker.DisputesEnqueued",
		metric.WithDescription("Number of disputeRootBundle transactions enqueued"),
	)
	if err != nil {
		return nil, err
	}

	abortsCounter, err := meter.Int64Counter(
		"dataworker.CyclesAborted",
		metric.WithDescription("Number of propose or validate cycles that aborted on a fatal error"),
	)
	if err != nil {
		return nil, err
	}

	cycleTimeHistogram, err := meter.Float64Histogram("dataworker.CycleTime")
	if err != nil {
		return nil, err
	}

	return &CycleMetrics{
		proposalsCounter:    proposalsCounter,
		disputesCounter:     disputesCounter,
		abortsCounter:       abortsCounter,
		cycleTimeHistogram:  cycleTimeHistogram,
		cycleStartTimeCache: ttlcache.New(ttlcache.WithTTL[string, time.Time](CycleTTL)),
	}, nil
}

func (m *CycleMetrics) ProposalEnqueued(ctx context.Context) {
	m.proposalsCounter.Add(ctx, 1)
}

func (m *CycleMetrics) DisputeEnqueued(ctx context.Context) {
	m.disputesCounter.Add(ctx, 1)
}

func (m *CycleMetrics) CycleAborted(ctx context.Context) {
	m.abortsCounter.Add(ctx, 1)
}

func (m *CycleMetrics) StartCycle(cycleID string) {
	m.cycleStartTimeCache.Set(cycleID, time.Now(), ttlcache.DefaultTTL)
}

func (m *CycleMetrics) EndCycle(cycleID string) {
	startTime := m.cycleStartTimeCache.Get(cycleID)
	if startTime == nil {
		log.Warn().Msgf("cycle start time with ID %s not found", cycleID)
		return
	}

	m.cycleTimeHistogram.Record(context.Background(), time.Since(startTime.Value()).Seconds())
}
