package dataworker

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/across-protocol/dataworker/merkletree"
	"github.com/across-protocol/dataworker/types"
)

// BuildRelayerRefundRoot groups refund credits by (repaymentChainId,
// l2Token), attaches the amountToReturn pulled from the pool rebalance
// leaves' net send amounts, chunks oversized groups by maxRefundCount, and
// injects return-only leaves for negative positions that have no relayer
// refunds of their own. netSendAmounts is the pool rebalance root's output
// keyed by (chainId, l1Token); this builder runs after the pool rebalance
// root because amountToReturn is only known once running balances have
// been finalized.
func (d *Dataworker) BuildRelayerRefundRoot(fillsToRefund types.FillsToRefund, netSendAmounts types.RunningBalances, mainnetBlock uint64) ([]types.RelayerRefundLeaf, *merkletree.Tree[types.RelayerRefundLeaf], error) {
	maxRefundCount, err := d.maxRefundCount(mainnetBlock)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving max refund count: %w", err)
	}

	builders, err := d.buildRefundGroups(fillsToRefund, netSendAmounts, mainnetBlock, maxRefundCount)
	if err != nil {
		return nil, nil, err
	}

	builders, err = d.injectReturnOnlyLeaves(builders, fillsToRefund, netSendAmounts, mainnetBlock)
	if err != nil {
		return nil, nil, err
	}

	leaves, err := finalizeRefundLeaves(builders)
	if err != nil {
		return nil, nil, err
	}

	tree, err := merkletree.BuildRelayerRefundTree(leaves)
	if err != nil {
		return nil, nil, err
	}
	return leaves, tree, nil
}

// buildRefundGroups is Phase A: for each (chainId, l2Token) refund bucket,
// sort relayers descending by refund amount (ascending address on ties,
// never equal addresses), assign the group's amountToReturn from the
// matching pool rebalance net send amount, and chunk into sub-leaves of at
// most maxRefundCount recipients, numbering each chunk's groupIndex.
func (d *Dataworker) buildRefundGroups(fillsToRefund types.FillsToRefund, netSendAmounts types.RunningBalances, mainnetBlock uint64, maxRefundCount uint32) ([]types.RefundLeafBuilder, error) {
	var out []types.RefundLeafBuilder

	for chainID, byToken := range fillsToRefund {
		for l2Token, refund := range byToken {
			recipients, err := sortRefundRecipients(refund.Refunds)
			if err != nil {
				return nil, fmt.Errorf("sorting refund recipients for chain %d token %s: %w", chainID, l2Token.Hex(), err)
			}

			amountToReturn, err := d.amountToReturn(chainID, l2Token, netSendAmounts, mainnetBlock)
			if err != nil {
				return nil, err
			}

			chunkSize := int(maxRefundCount)
			if chunkSize <= 0 {
				chunkSize = len(recipients)
			}

			var groupIndex uint32
			for start := 0; start < len(recipients); start += chunkSize {
				end := start + chunkSize
				if end > len(recipients) {
					end = len(recipients)
				}
				chunk := recipients[start:end]

				builder := types.RefundLeafBuilder{
					ChainID:        chainID,
					L2TokenAddress: l2Token,
					GroupIndex:     groupIndex,
				}
				// Only the first sub-leaf of a group carries the group's
				// amountToReturn; later chunks return nothing further.
				if groupIndex == 0 {
					builder.AmountToReturn = amountToReturn
				} else {
					builder.AmountToReturn = big.NewInt(0)
				}
				for _, r := range chunk {
					builder.RefundAddresses = append(builder.RefundAddresses, r.addr)
					builder.RefundAmounts = append(builder.RefundAmounts, r.amount)
				}
				out = append(out, builder)
				groupIndex++
			}

			if len(recipients) == 0 {
				out = append(out, types.RefundLeafBuilder{
					ChainID:        chainID,
					L2TokenAddress: l2Token,
					AmountToReturn: amountToReturn,
				})
			}
		}
	}
	return out, nil
}

// amountToReturn resolves the L1 token backing (chainID, l2Token) and
// returns max(-netSendAmount, 0): the pool only pulls money back, it never
// reports a negative amountToReturn.
func (d *Dataworker) amountToReturn(chainID uint64, l2Token common.Address, netSendAmounts types.RunningBalances, mainnetBlock uint64) (*big.Int, error) {
	l1Token, err := d.clients.HubPool.GetL1TokenCounterpartAtBlock(chainID, l2Token, mainnetBlock)
	if err != nil {
		return nil, fmt.Errorf("resolving l1 token for chain %d token %s: %w", chainID, l2Token.Hex(), err)
	}
	netSend := netSendAmounts.Get(chainID, l1Token)
	if netSend.Sign() >= 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).Neg(netSend), nil
}

type refundRecipient struct {
	addr   common.Address
	amount *big.Int
}

// sortRefundRecipients imposes the strict total order: refund amount
// descending, then address ascending on ties. Because relayer addresses
// are unique within one Refund's map, two equal addresses would indicate a
// programming error upstream, not a real tie.
func sortRefundRecipients(refunds map[common.Address]*big.Int) ([]refundRecipient, error) {
	out := make([]refundRecipient, 0, len(refunds))
	for addr, amount := range refunds {
		out = append(out, refundRecipient{addr: addr, amount: amount})
	}

	var anomaly error
	sort.SliceStable(out, func(i, j int) bool {
		cmp := out[i].amount.Cmp(out[j].amount)
		if cmp != 0 {
			return cmp > 0
		}
		if out[i].addr == out[j].addr {
			anomaly = &types.DataAnomalyError{Reason: fmt.Sprintf("duplicate refund recipient %s", out[i].addr.Hex())}
		}
		return out[i].addr.Hex() < out[j].addr.Hex()
	})
	return out, anomaly
}

// injectReturnOnlyLeaves is Phase B: every (chainId, l1Token) position with
// a negative net send amount must appear in the refund root so the
// contract can pull funds back, even when no relayer on that chain earned
// a refund in that token. Positions already covered by buildRefundGroups
// are left untouched.
func (d *Dataworker) injectReturnOnlyLeaves(builders []types.RefundLeafBuilder, fillsToRefund types.FillsToRefund, netSendAmounts types.RunningBalances, mainnetBlock uint64) ([]types.RefundLeafBuilder, error) {
	covered := make(map[uint64]map[common.Address]bool)
	for _, b := range builders {
		byToken, ok := covered[b.ChainID]
		if !ok {
			byToken = make(map[common.Address]bool)
			covered[b.ChainID] = byToken
		}
		byToken[b.L2TokenAddress] = true
	}

	for chainID, byToken := range netSendAmounts {
		for l1Token, netSend := range byToken {
			if netSend.Sign() >= 0 {
				continue
			}
			l2Token, err := d.clients.HubPool.GetDestinationTokenForL1Token(l1Token, chainID)
			if err != nil {
				return nil, fmt.Errorf("resolving l2 token for chain %d l1 token %s: %w", chainID, l1Token.Hex(), err)
			}
			if covered[chainID][l2Token] {
				continue
			}
			builders = append(builders, types.RefundLeafBuilder{
				ChainID:        chainID,
				L2TokenAddress: l2Token,
				AmountToReturn: new(big.Int).Neg(netSend),
			})
		}
	}
	_ = fillsToRefund
	_ = mainnetBlock
	return builders, nil
}

// finalizeRefundLeaves is Phase C: sort every sub-leaf into the final total
// order (chainId, l2TokenAddress, groupIndex, all ascending), assign
// sequential leaf ids, and drop groupIndex from the final leaf shape.
func finalizeRefundLeaves(builders []types.RefundLeafBuilder) ([]types.RelayerRefundLeaf, error) {
	var anomaly error
	sort.SliceStable(builders, func(i, j int) bool {
		a, b := builders[i], builders[j]
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.L2TokenAddress != b.L2TokenAddress {
			return a.L2TokenAddress.Hex() < b.L2TokenAddress.Hex()
		}
		if a.GroupIndex == b.GroupIndex {
			anomaly = &types.DataAnomalyError{Reason: fmt.Sprintf(
				"duplicate relayer refund group index for chain %d token %s", a.ChainID, a.L2TokenAddress.Hex())}
		}
		return a.GroupIndex < b.GroupIndex
	})
	if anomaly != nil {
		return nil, anomaly
	}

	leaves := make([]types.RelayerRefundLeaf, len(builders))
	for i, b := range builders {
		leaves[i] = types.RelayerRefundLeaf{
			ChainID:         b.ChainID,
			L2TokenAddress:  b.L2TokenAddress,
			AmountToReturn:  b.AmountToReturn,
			RefundAddresses: b.RefundAddresses,
			RefundAmounts:   b.RefundAmounts,
			LeafID:          uint32(i),
		}
	}
	return leaves, nil
}
