package contracts

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/across-protocol/dataworker/chains/evm/calls/consts"
)

// HubPoolContract is a thin read-only binding over the subset of the
// HubPool ABI the Dataworker's external HubPoolClient implementations
// need: resolving the L2 pool-rebalance-route counterpart of an L1 token.
// It does not implement clients.HubPoolClient on its own - an embedder's
// concrete client composes this with an event-sourced read model for the
// methods that need chain history rather than a single call.
type HubPoolContract struct {
	address common.Address
	caller  bind.ContractCaller
}

func NewHubPoolContract(address common.Address, caller bind.ContractCaller) *HubPoolContract {
	return &HubPoolContract{address: address, caller: caller}
}

// DestinationToken returns the L2 token on destinationChainID that is the
// pool-rebalance-route counterpart of l1Token, as of the given block.
func (c *HubPoolContract) DestinationToken(ctx context.Context, destinationChainID uint64, l1Token common.Address, blockNumber *big.Int) (common.Address, error) {
	input, err := consts.HubPoolABI.Pack("poolRebalanceRoute", new(big.Int).SetUint64(destinationChainID), l1Token)
	if err != nil {
		return common.Address{}, fmt.Errorf("packing poolRebalanceRoute call: %w", err)
	}

	output, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: input}, blockNumber)
	if err != nil {
		return common.Address{}, fmt.Errorf("calling poolRebalanceRoute: %w", err)
	}

	unpacked, err := consts.HubPoolABI.Unpack("poolRebalanceRoute", output)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpacking poolRebalanceRoute result: %w", err)
	}
	if len(unpacked) != 1 {
		return common.Address{}, fmt.Errorf("unexpected poolRebalanceRoute result shape")
	}

	out := *abi.ConvertType(unpacked[0], new(common.Address)).(*common.Address)
	if out == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no pool rebalance route configured for chain %d", destinationChainID)
	}
	return out, nil
}
