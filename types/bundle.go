package types

import "github.com/ethereum/go-ethereum/common"

// PendingRootBundle is the read model for a proposal currently sitting in
// the HubPool's challenge window.
type PendingRootBundle struct {
	Proposer                        common.Address
	ChallengePeriodEndTimestamp     uint64
	BundleEvaluationBlockNumbers    []uint64
	UnclaimedPoolRebalanceLeafCount uint32
	PoolRebalanceRoot               common.Hash
	RelayerRefundRoot                common.Hash
	SlowRelayRoot                    common.Hash
}
