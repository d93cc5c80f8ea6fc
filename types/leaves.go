package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolRebalanceLeaf instructs the HubPool how much of each L1 token to send
// to, or pull back from, one SpokePool chain. The four vectors are
// index-aligned.
type PoolRebalanceLeaf struct {
	ChainID         uint64
	GroupIndex      uint32
	BundleLpFees    []*big.Int
	NetSendAmounts  []*big.Int
	RunningBalances []*big.Int
	L1Tokens        []common.Address
	LeafID          uint32
}

// RefundLeafBuilder is the transient construction variant of a relayer
// refund leaf. GroupIndex is a construction aid only; it never survives
// into the final RelayerRefundLeaf.
type RefundLeafBuilder struct {
	ChainID         uint64
	L2TokenAddress  common.Address
	AmountToReturn  *big.Int
	RefundAddresses []common.Address
	RefundAmounts   []*big.Int
	GroupIndex      uint32
}

// RelayerRefundLeaf instructs a SpokePool how to reimburse relayers.
type RelayerRefundLeaf struct {
	ChainID         uint64
	L2TokenAddress  common.Address
	AmountToReturn  *big.Int
	RefundAddresses []common.Address
	RefundAmounts   []*big.Int
	LeafID          uint32
}

// RelayData is the nine Deposit fields carried on-chain by a slow relay leaf.
type RelayData struct {
	DepositID          uint32
	OriginChainID      uint64
	DestinationChainID uint64
	Depositor          common.Address
	Recipient          common.Address
	DestinationToken   common.Address
	Amount             *big.Int
	RelayerFeePct      FixedPoint
	RealizedLpFeePct   FixedPoint
}

// SlowRelayLeaf lists a partially-filled deposit to be completed from pool
// liquidity.
type SlowRelayLeaf struct {
	RelayData RelayData
}
