package dataworker

import (
	"fmt"
	"sort"

	"github.com/across-protocol/dataworker/merkletree"
	"github.com/across-protocol/dataworker/types"
)

// BuildSlowRelayRoot projects every unfilled deposit into a slow relay
// leaf, sorts them into the protocol's total order, and builds the Merkle
// tree over the result.
func (d *Dataworker) BuildSlowRelayRoot(unfilled []types.UnfilledDeposit) ([]types.SlowRelayLeaf, *merkletree.Tree[types.SlowRelayLeaf], error) {
	leaves := make([]types.SlowRelayLeaf, len(unfilled))
	for i, u := range unfilled {
		leaves[i] = types.SlowRelayLeaf{RelayData: types.RelayData{
			DepositID:          u.Deposit.DepositID,
			OriginChainID:      u.Deposit.OriginChainID,
			DestinationChainID: u.Deposit.DestinationChainID,
			Depositor:          u.Deposit.Depositor,
			Recipient:          u.Deposit.Recipient,
			DestinationToken:   u.Deposit.DestinationToken,
			Amount:             u.Deposit.Amount,
			RelayerFeePct:      u.Deposit.RelayerFeePct,
			RealizedLpFeePct:   u.Deposit.RealizedLpFeePct,
		}}
	}

	if err := sortSlowRelayLeaves(leaves); err != nil {
		return nil, nil, err
	}

	tree, err := merkletree.BuildSlowRelayTree(leaves)
	if err != nil {
		return nil, nil, err
	}
	return leaves, tree, nil
}

// sortSlowRelayLeaves imposes the strict total order: originChainId
// ascending, then depositId ascending. Because (originChainId, depositId)
// is globally unique, the comparator must never see equal keys on
// well-formed input; if it does, that is a programming error.
func sortSlowRelayLeaves(leaves []types.SlowRelayLeaf) error {
	var anomaly error
	sort.SliceStable(leaves, func(i, j int) bool {
		a, b := leaves[i].RelayData, leaves[j].RelayData
		if a.OriginChainID != b.OriginChainID {
			return a.OriginChainID < b.OriginChainID
		}
		if a.DepositID == b.DepositID {
			anomaly = &types.DataAnomalyError{Reason: fmt.Sprintf(
				"duplicate slow relay leaf for origin chain %d deposit %d", a.OriginChainID, a.DepositID)}
		}
		return a.DepositID < b.DepositID
	})
	return anomaly
}
