// Package fake provides in-memory test doubles for the client interfaces
// declared in clients. They are deliberately simple: tests populate their
// fields directly rather than going through a builder API.
package fake

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/across-protocol/dataworker/clients"
	"github.com/across-protocol/dataworker/types"
)

// HubPoolClient is an in-memory HubPoolClient double.
type HubPoolClient struct {
	Updated bool
	Pending *types.PendingRootBundle
	Time    uint64
	Block   uint64

	SpokePools map[uint64]common.Address

	// L1ToL2 maps (chainID, l1Token) -> l2Token, used both to answer
	// GetDestinationTokenForL1Token and, inverted, GetL1TokenCounterpartAtBlock.
	L1ToL2 map[uint64]map[common.Address]common.Address

	NextBundleStart map[uint64]uint64

	TokenInfo map[uint64]map[common.Address]clients.TokenInfo
}

func NewHubPoolClient() *HubPoolClient {
	return &HubPoolClient{
		Updated:         true,
		SpokePools:      make(map[uint64]common.Address),
		L1ToL2:          make(map[uint64]map[common.Address]common.Address),
		NextBundleStart: make(map[uint64]uint64),
		TokenInfo:       make(map[uint64]map[common.Address]clients.TokenInfo),
	}
}

func (c *HubPoolClient) IsUpdated() bool { return c.Updated }

func (c *HubPoolClient) HasPendingProposal() bool { return c.Pending != nil }

func (c *HubPoolClient) GetPendingRootBundleProposal() (types.PendingRootBundle, error) {
	if c.Pending == nil {
		return types.PendingRootBundle{}, nil
	}
	return *c.Pending, nil
}

func (c *HubPoolClient) CurrentTime() uint64 { return c.Time }

func (c *HubPoolClient) LatestBlockNumber() uint64 { return c.Block }

func (c *HubPoolClient) GetSpokePoolForBlock(mainnetBlock uint64, chainID uint64) (common.Address, error) {
	return c.SpokePools[chainID], nil
}

func (c *HubPoolClient) GetDestinationTokenForL1Token(l1Token common.Address, chainID uint64) (common.Address, error) {
	byToken, ok := c.L1ToL2[chainID]
	if !ok {
		return common.Address{}, nil
	}
	return byToken[l1Token], nil
}

func (c *HubPoolClient) GetL1TokenCounterpartAtBlock(chainID uint64, l2Token common.Address, mainnetBlock uint64) (common.Address, error) {
	byToken, ok := c.L1ToL2[chainID]
	if !ok {
		return common.Address{}, nil
	}
	for l1, l2 := range byToken {
		if l2 == l2Token {
			return l1, nil
		}
	}
	return common.Address{}, nil
}

func (c *HubPoolClient) GetNextBundleStartBlock(chainIDs []uint64, latestMainnetBlock uint64, chainID uint64) (uint64, error) {
	return c.NextBundleStart[chainID], nil
}

func (c *HubPoolClient) GetTokenInfo(chainID uint64, token common.Address) (clients.TokenInfo, error) {
	byToken, ok := c.TokenInfo[chainID]
	if !ok {
		return clients.TokenInfo{}, nil
	}
	return byToken[token], nil
}

// ConfigStoreClient is an in-memory ConfigStoreClient double.
type ConfigStoreClient struct {
	Updated           bool
	MaxRefundCount    uint32
	TransferThreshold map[common.Address]*big.Int
}

func NewConfigStoreClient() *ConfigStoreClient {
	return &ConfigStoreClient{Updated: true, TransferThreshold: make(map[common.Address]*big.Int)}
}

func (c *ConfigStoreClient) IsUpdated() bool { return c.Updated }

func (c *ConfigStoreClient) GetMaxRefundCountForRelayerRefundLeaf(mainnetBlock uint64) (uint32, error) {
	return c.MaxRefundCount, nil
}

func (c *ConfigStoreClient) GetTokenTransferThreshold(l1Token common.Address, mainnetBlock uint64) (*big.Int, error) {
	if v, ok := c.TransferThreshold[l1Token]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}
