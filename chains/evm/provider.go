package evm

import (
	"github.com/ethereum/go-ethereum/ethclient"
)

// Provider adapts an ethclient.Client to the dataworker's ChainProvider
// contract: the chain id is known from configuration, not read back over
// RPC, so it shadows ethclient.Client's context-taking ChainID method with
// a plain accessor.
type Provider struct {
	*ethclient.Client
	chainID uint64
}

func NewProvider(client *ethclient.Client, chainID uint64) *Provider {
	return &Provider{Client: client, chainID: chainID}
}

func (p *Provider) ChainID() uint64 { return p.chainID }
