package dataworker

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/across-protocol/dataworker/clients"
	"github.com/across-protocol/dataworker/types"
)

// Propose runs one proposal cycle: compute the widest legal block range,
// update the SpokePool clients (see rebuildSpokePoolClients), build all
// three roots, and enqueue a proposeRootBundle transaction if
// there is anything to rebalance.
func (d *Dataworker) Propose(ctx context.Context) error {
	if !d.clients.HubPool.IsUpdated() {
		return &types.PreconditionError{Reason: "hub pool client is not updated"}
	}
	if d.clients.HubPool.HasPendingProposal() {
		d.logger.Info().Msg("proposal already pending, skipping")
		return nil
	}

	mainnetBlock := d.clients.HubPool.LatestBlockNumber()

	ranges, err := d.widestBlockRanges(ctx, mainnetBlock)
	if err != nil {
		return fmt.Errorf("computing widest block ranges: %w", err)
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
	if len(poolRebalance.Leaves) == 0 {
		d.logger.Info().Msg("pool rebalance root is empty, nothing to propose")
		return nil
	}

	relayerRefundLeaves, relayerRefundTree, err := d.BuildRelayerRefundRoot(data.FillsToRefund, poolRebalance.NetSendAmounts, mainnetBlock)
	if err != nil {
		return fmt.Errorf("building relayer refund root: %w", err)
	}

	_, slowRelayTree, err := d.BuildSlowRelayRoot(data.UnfilledDeposits)
	if err != nil {
		return fmt.Errorf("building slow relay root: %w", err)
	}

	bundleEndBlocks := make([]uint64, len(d.cfg.ChainIDs))
	for i, chainID := range d.cfg.ChainIDs {
		bundleEndBlocks[i] = ranges[chainID].End
	}

	leafCount := uint32(len(poolRebalance.Leaves)) + uint32(len(relayerRefundLeaves))

	if err := d.clients.Sink.ProposeRootBundle(ctx, bundleEndBlocks, leafCount,
		poolRebalance.Tree.HexRoot(), relayerRefundTree.HexRoot(), slowRelayTree.HexRoot()); err != nil {
		d.logger.Error().Err(err).Msg("failed to enqueue propose root bundle transaction")
		return nil
	}

	d.logger.Info().
		Int("poolRebalanceLeaves", len(poolRebalance.Leaves)).
		Int("relayerRefundLeaves", len(relayerRefundLeaves)).
		Msg("proposed root bundle")
	return nil
}

// widestBlockRanges computes, for each chain in parallel, the window from
// one past the last executed bundle's end block through that chain's
// latest block number.
func (d *Dataworker) widestBlockRanges(ctx context.Context, mainnetBlock uint64) (map[uint64]types.BlockRange, error) {
	type result struct {
		chainID uint64
		r       types.BlockRange
	}
	results := make([]result, len(d.cfg.ChainIDs))

	p := pool.New().WithContext(ctx).WithCancelOnError()
	for i, chainID := range d.cfg.ChainIDs {
		i, chainID := i, chainID
		p.Go(func(ctx context.Context) error {
			start, err := d.clients.HubPool.GetNextBundleStartBlock(d.cfg.ChainIDs, mainnetBlock, chainID)
			if err != nil {
				return fmt.Errorf("next bundle start block for chain %d: %w", chainID, err)
			}
			end, err := d.provider(chainID).BlockNumber(ctx)
			if err != nil {
				return fmt.Errorf("latest block number for chain %d: %w", chainID, err)
			}
			results[i] = result{chainID: chainID, r: types.BlockRange{Start: start, End: end}}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	ranges := make(map[uint64]types.BlockRange, len(results))
	for _, r := range results {
		ranges[r.chainID] = r.r
	}
	return ranges, nil
}

// rebuildSpokePoolClients resolves, for every chain, the SpokePool address
// that was canonical as of mainnetBlock (failing the cycle if that lookup
// fails) and updates the chain's existing SpokePool client, all chains in
// parallel. The resolved address is not used: clients are not re-pointed
// at it, so each one keeps reading from the SpokePool it was built with.
func (d *Dataworker) rebuildSpokePoolClients(ctx context.Context, mainnetBlock uint64) error {
	p := pool.New().WithContext(ctx).WithCancelOnError()
	for _, chainID := range d.cfg.ChainIDs {
		chainID := chainID
		p.Go(func(ctx context.Context) error {
			if _, err := d.clients.HubPool.GetSpokePoolForBlock(mainnetBlock, chainID); err != nil {
				return fmt.Errorf("resolving spoke pool address for chain %d: %w", chainID, err)
			}
			sp, err := d.spokePoolClient(chainID)
			if err != nil {
				return err
			}
			return sp.Update(ctx)
		})
	}
	return p.Wait()
}

func (d *Dataworker) provider(chainID uint64) clients.ChainProvider {
	return d.clients.Providers[chainID]
}
