package metrics

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/across-protocol/dataworker/clients"
)

// InstrumentedSink wraps a TransactionSink, incrementing the matching
// CycleMetrics counter whenever the wrapped sink accepts an enqueue.
type InstrumentedSink struct {
	inner   clients.TransactionSink
	metrics *CycleMetrics
}

func NewInstrumentedSink(inner clients.TransactionSink, metrics *CycleMetrics) *InstrumentedSink {
	return &InstrumentedSink{inner: inner, metrics: metrics}
}

func (s *InstrumentedSink) ProposeRootBundle(ctx context.Context, bundleEndBlocks []uint64, leafCount uint32, poolRebalanceRoot, relayerRefundRoot, slowRelayRoot common.Hash) error {
	if err := s.inner.ProposeRootBundle(ctx, bundleEndBlocks, leafCount, poolRebalanceRoot, relayerRefundRoot, slowRelayRoot); err != nil {
		return err
	}
	s.metrics.ProposalEnqueued(ctx)
	return nil
}

func (s *InstrumentedSink) DisputeRootBundle(ctx context.Context, diagnostic string) error {
	if err := s.inner.DisputeRootBundle(ctx, diagnostic); err != nil {
		return err
	}
	s.metrics.DisputeEnqueued(ctx)
	return nil
}
