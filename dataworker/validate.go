package dataworker

import (
	"context"
	"fmt"
	"strings"

	"github.com/across-protocol/dataworker/merkletree"
	"github.com/across-protocol/dataworker/types"
)

// Validate runs one validation cycle against the HubPool's pending
// proposal, following the state machine in evaluation order: absence and
// challenge-window checks return quietly; shape and block-range checks
// dispute outright; a range that is merely ahead of expectations (within
// its chain's buffer) defers quietly; otherwise the three roots are
// rebuilt and compared.
func (d *Dataworker) Validate(ctx context.Context) error {
	if !d.clients.HubPool.IsUpdated() {
		return &types.PreconditionError{Reason: "hub pool client is not updated"}
	}
	if !d.clients.HubPool.HasPendingProposal() {
		return nil
	}

	pending, err := d.clients.HubPool.GetPendingRootBundleProposal()
	if err != nil {
		return fmt.Errorf("reading pending root bundle proposal: %w", err)
	}

	if d.clients.HubPool.CurrentTime() >= pending.ChallengePeriodEndTimestamp {
		return nil
	}

	if pending.PoolRebalanceRoot == merkletree.EmptyRoot {
		return d.dispute(ctx, "Pending pool rebalance root is the empty-tree sentinel, which no valid bundle ever proposes.")
	}

	if len(pending.BundleEvaluationBlockNumbers) != len(d.cfg.ChainIDs) {
		return d.dispute(ctx, fmt.Sprintf(
			"Pending proposal names %d bundle evaluation block numbers, expected %d.",
			len(pending.BundleEvaluationBlockNumbers), len(d.cfg.ChainIDs)))
	}

	mainnetBlock := d.clients.HubPool.LatestBlockNumber()

	expectedStart := make(map[uint64]uint64, len(d.cfg.ChainIDs))
	for _, chainID := range d.cfg.ChainIDs {
		start, err := d.clients.HubPool.GetNextBundleStartBlock(d.cfg.ChainIDs, mainnetBlock, chainID)
		if err != nil {
			return fmt.Errorf("next bundle start block for chain %d: %w", chainID, err)
		}
		expectedStart[chainID] = start
	}

	pendingEnd := make(map[uint64]uint64, len(d.cfg.ChainIDs))
	for i, chainID := range d.cfg.ChainIDs {
		pendingEnd[chainID] = pending.BundleEvaluationBlockNumbers[i]
	}

	expectedEnd := make(map[uint64]uint64, len(d.cfg.ChainIDs))
	for _, chainID := range d.cfg.ChainIDs {
		end, err := d.provider(chainID).BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("latest block number for chain %d: %w", chainID, err)
		}
		expectedEnd[chainID] = end
	}

	for _, chainID := range d.cfg.ChainIDs {
		if pendingEnd[chainID] < expectedStart[chainID] {
			return d.dispute(ctx, fmt.Sprintf(
				"Chain %d end block %d is before the expected start block %d.",
				chainID, pendingEnd[chainID], expectedStart[chainID]))
		}
	}

	for _, chainID := range d.cfg.ChainIDs {
		if pendingEnd[chainID] > expectedEnd[chainID]+d.cfg.buffer(chainID) {
			return d.dispute(ctx, fmt.Sprintf(
				"Chain %d end block %d exceeds the expected end block %d plus buffer %d.",
				chainID, pendingEnd[chainID], expectedEnd[chainID], d.cfg.buffer(chainID)))
		}
	}

	for _, chainID := range d.cfg.ChainIDs {
		if pendingEnd[chainID] > expectedEnd[chainID] {
			d.logger.Info().Uint64("chainId", chainID).Msg("pending proposal end block is ahead of our head within buffer, deferring")
			return nil
		}
	}

	ranges := make(map[uint64]types.BlockRange, len(d.cfg.ChainIDs))
	for _, chainID := range d.cfg.ChainIDs {
		ranges[chainID] = types.BlockRange{Start: expectedStart[chainID], End: pendingEnd[chainID]}
	}

	if err := d.rebuildSpokePoolClients(ctx, mainnetBlock); err != nil {
		return fmt.Errorf("rebuilding spoke pool clients: %w", err)
	}

	data, err := d.LoadBundleData(ctx, ranges, mainnetBlock)
	if err != nil {
		return fmt.Errorf("loading bundle data: %w", err)
	}

	poolRebalance, err := d.BuildPoolRebalanceRoot(data, mainnetBlock)
	if err != nil {
		return fmt.Errorf("building pool rebalance root: %w", err)
	}
	_, relayerRefundTree, err := d.BuildRelayerRefundRoot(data.FillsToRefund, poolRebalance.NetSendAmounts, mainnetBlock)
	if err != nil {
		return fmt.Errorf("building relayer refund root: %w", err)
	}
	_, slowRelayTree, err := d.BuildSlowRelayRoot(data.UnfilledDeposits)
	if err != nil {
		return fmt.Errorf("building slow relay root: %w", err)
	}

	var mismatches []string
	if poolRebalance.Tree.HexRoot() != pending.PoolRebalanceRoot {
		mismatches = append(mismatches, "Unexpected pool rebalance root")
	}
	if relayerRefundTree.HexRoot() != pending.RelayerRefundRoot {
		mismatches = append(mismatches, "Unexpected relayer refund root")
	}
	if slowRelayTree.HexRoot() != pending.SlowRelayRoot {
		mismatches = append(mismatches, "Unexpected slow relay root")
	}
	if len(mismatches) > 0 {
		return d.dispute(ctx, strings.Join(mismatches, "; ")+".")
	}

	d.logger.Info().Msg("pending proposal matches locally rebuilt roots")
	return nil
}

func (d *Dataworker) dispute(ctx context.Context, reason string) error {
	diagnostic := buildDisputeReport(reason)
	if err := d.clients.Sink.DisputeRootBundle(ctx, diagnostic); err != nil {
		d.logger.Error().Err(err).Msg("failed to enqueue dispute root bundle transaction")
		return nil
	}
	d.logger.Warn().Str("reason", reason).Msg("disputed pending root bundle proposal")
	return nil
}

// buildDisputeReport renders the on-chain-bound diagnostic as Markdown, as
// required for disputeRootBundle's log payload.
func buildDisputeReport(reason string) string {
	var b strings.Builder
	b.WriteString("# Root Bundle Dispute\n\n")
	b.WriteString(reason)
	b.WriteString("\n")
	return b.String()
}
