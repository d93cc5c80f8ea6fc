package merkletree

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/across-protocol/dataworker/types"
)

var (
	uint256Type, _   = abi.NewType("uint256", "", nil)
	int256Type, _    = abi.NewType("int256", "", nil)
	addressType, _   = abi.NewType("address", "", nil)
	uint256ArrType, _ = abi.NewType("uint256[]", "", nil)
	int256ArrType, _ = abi.NewType("int256[]", "", nil)
	addressArrType, _ = abi.NewType("address[]", "", nil)
)

var poolRebalanceLeafArgs = abi.Arguments{
	{Type: uint256Type},   // chainId
	{Type: uint256Type},   // groupIndex
	{Type: uint256ArrType}, // bundleLpFees
	{Type: int256ArrType}, // netSendAmounts
	{Type: int256ArrType}, // runningBalances
	{Type: addressArrType}, // l1Tokens
	{Type: uint256Type},   // leafId
}

func encodePoolRebalanceLeaf(leaf types.PoolRebalanceLeaf) ([]byte, error) {
	return poolRebalanceLeafArgs.Pack(
		new(big.Int).SetUint64(leaf.ChainID),
		new(big.Int).SetUint64(uint64(leaf.GroupIndex)),
		nonNilBigInts(leaf.BundleLpFees),
		nonNilBigInts(leaf.NetSendAmounts),
		nonNilBigInts(leaf.RunningBalances),
		leaf.L1Tokens,
		new(big.Int).SetUint64(uint64(leaf.LeafID)),
	)
}

var relayerRefundLeafArgs = abi.Arguments{
	{Type: uint256Type},    // chainId
	{Type: addressType},    // l2TokenAddress
	{Type: uint256Type},    // amountToReturn
	{Type: addressArrType}, // refundAddresses
	{Type: uint256ArrType}, // refundAmounts
	{Type: uint256Type},    // leafId
}

func encodeRelayerRefundLeaf(leaf types.RelayerRefundLeaf) ([]byte, error) {
	return relayerRefundLeafArgs.Pack(
		new(big.Int).SetUint64(leaf.ChainID),
		leaf.L2TokenAddress,
		nonNilBigInt(leaf.AmountToReturn),
		leaf.RefundAddresses,
		nonNilBigInts(leaf.RefundAmounts),
		new(big.Int).SetUint64(uint64(leaf.LeafID)),
	)
}

var slowRelayLeafArgs = abi.Arguments{
	{Type: uint256Type}, // depositId
	{Type: uint256Type}, // originChainId
	{Type: uint256Type}, // destinationChainId
	{Type: addressType}, // depositor
	{Type: addressType}, // recipient
	{Type: addressType}, // destinationToken
	{Type: uint256Type}, // amount
	{Type: int256Type},  // relayerFeePct
	{Type: int256Type},  // realizedLpFeePct
}

func encodeSlowRelayLeaf(leaf types.SlowRelayLeaf) ([]byte, error) {
	d := leaf.RelayData
	return slowRelayLeafArgs.Pack(
		new(big.Int).SetUint64(uint64(d.DepositID)),
		new(big.Int).SetUint64(d.OriginChainID),
		new(big.Int).SetUint64(d.DestinationChainID),
		d.Depositor,
		d.Recipient,
		d.DestinationToken,
		nonNilBigInt(d.Amount),
		nonNilBigInt(d.RelayerFeePct.Raw),
		nonNilBigInt(d.RealizedLpFeePct.Raw),
	)
}

func nonNilBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

func nonNilBigInts(vs []*big.Int) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = nonNilBigInt(v)
	}
	return out
}

// hashLeaf hashes ABI-encoded leaf bytes the way every build*Tree function
// below does: keccak256 of the packed encoding.
func hashLeaf(encoded []byte) []byte {
	return crypto.Keccak256(encoded)
}

// BuildSlowRelayTree builds the Merkle tree over slow relay leaves, which
// must already be in their final sorted order.
func BuildSlowRelayTree(leaves []types.SlowRelayLeaf) (*Tree[types.SlowRelayLeaf], error) {
	return New(leaves, func(l types.SlowRelayLeaf) ([]byte, error) {
		encoded, err := encodeSlowRelayLeaf(l)
		if err != nil {
			return nil, err
		}
		return hashLeaf(encoded), nil
	})
}

// BuildRelayerRefundTree builds the Merkle tree over relayer refund leaves,
// which must already be in their final sorted order with leaf ids assigned.
func BuildRelayerRefundTree(leaves []types.RelayerRefundLeaf) (*Tree[types.RelayerRefundLeaf], error) {
	return New(leaves, func(l types.RelayerRefundLeaf) ([]byte, error) {
		encoded, err := encodeRelayerRefundLeaf(l)
		if err != nil {
			return nil, err
		}
		return hashLeaf(encoded), nil
	})
}

// BuildPoolRebalanceLeafTree builds the Merkle tree over pool rebalance
// leaves, which must already be in their final sorted order with leaf ids
// assigned.
func BuildPoolRebalanceLeafTree(leaves []types.PoolRebalanceLeaf) (*Tree[types.PoolRebalanceLeaf], error) {
	return New(leaves, func(l types.PoolRebalanceLeaf) ([]byte, error) {
		encoded, err := encodePoolRebalanceLeaf(l)
		if err != nil {
			return nil, err
		}
		return hashLeaf(encoded), nil
	})
}
