package clients

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// LogSink is a TransactionSink that records every enqueue as a structured
// log line instead of broadcasting a transaction. Wiring a real multicaller
// (signing and submitting proposeRootBundle/disputeRootBundle calls) is an
// embedder concern outside this module's scope; LogSink lets the propose
// and validate loops run end-to-end without one.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) ProposeRootBundle(ctx context.Context, bundleEndBlocks []uint64, leafCount uint32, poolRebalanceRoot, relayerRefundRoot, slowRelayRoot common.Hash) error {
	s.logger.Info().
		Interface("bundleEndBlocks", bundleEndBlocks).
		Uint32("leafCount", leafCount).
		Str("poolRebalanceRoot", poolRebalanceRoot.Hex()).
		Str("relayerRefundRoot", relayerRefundRoot.Hex()).
		Str("slowRelayRoot", slowRelayRoot.Hex()).
		Msg("would enqueue proposeRootBundle")
	return nil
}

func (s *LogSink) DisputeRootBundle(ctx context.Context, diagnostic string) error {
	s.logger.Warn().Str("diagnostic", diagnostic).Msg("would enqueue disputeRootBundle")
	return nil
}
