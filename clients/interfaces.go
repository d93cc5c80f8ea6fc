// Package clients declares the external collaborators the dataworker reads
// from and writes to: per-chain event indexers, the HubPool and ConfigStore
// read models, chain providers, and the transaction submission sink. None
// of these are implemented here — event indexing, RPC access, and
// transaction broadcast are outside this module's scope. Concrete
// implementations are supplied by embedders; clients/fake provides
// in-memory test doubles.
package clients

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/across-protocol/dataworker/types"
)

// TokenInfo is the symbol/decimals pair the HubPool reports for a token.
type TokenInfo struct {
	Symbol   string
	Decimals uint8
}

//go:generate mockgen -destination=mock/hub_pool.go -package=mock_clients . HubPoolClient

// HubPoolClient is the mainnet HubPool read model.
type HubPoolClient interface {
	IsUpdated() bool
	HasPendingProposal() bool
	GetPendingRootBundleProposal() (types.PendingRootBundle, error)
	CurrentTime() uint64
	LatestBlockNumber() uint64

	// GetSpokePoolForBlock returns the SpokePool address that was canonical
	// for chainID as of mainnetBlock.
	GetSpokePoolForBlock(mainnetBlock uint64, chainID uint64) (common.Address, error)

	// GetDestinationTokenForL1Token returns the L2 token on chainID that is
	// the pool-rebalance-route counterpart of l1Token.
	GetDestinationTokenForL1Token(l1Token common.Address, chainID uint64) (common.Address, error)

	// GetL1TokenCounterpartAtBlock returns the L1 token that l2Token on
	// chainID was mapped to as of mainnetBlock.
	GetL1TokenCounterpartAtBlock(chainID uint64, l2Token common.Address, mainnetBlock uint64) (common.Address, error)

	// GetNextBundleStartBlock returns one past the last executed bundle's
	// end block for chainID, or 0 if chainID has never been included.
	GetNextBundleStartBlock(chainIDs []uint64, latestMainnetBlock uint64, chainID uint64) (uint64, error)

	GetTokenInfo(chainID uint64, token common.Address) (TokenInfo, error)
}

//go:generate mockgen -destination=mock/config_store.go -package=mock_clients . ConfigStoreClient

// ConfigStoreClient is the protocol parameter store read model.
type ConfigStoreClient interface {
	IsUpdated() bool
	GetMaxRefundCountForRelayerRefundLeaf(mainnetBlock uint64) (uint32, error)
	GetTokenTransferThreshold(l1Token common.Address, mainnetBlock uint64) (*big.Int, error)
}

//go:generate mockgen -destination=mock/spoke_pool.go -package=mock_clients . SpokePoolClient

// SpokePoolClient is the per-chain event indexer read model.
type SpokePoolClient interface {
	IsUpdated() bool
	Update(ctx context.Context) error
	ChainID() uint64

	// DepositsForDestinationChain returns every known deposit (the client's
	// full history, not limited to any block range) whose destination is
	// destinationChainID.
	DepositsForDestinationChain(destinationChainID uint64) []types.DepositWithBlock

	// FillsForOriginChain returns every known fill (full history) recorded
	// on this chain whose origin is originChainID.
	FillsForOriginChain(originChainID uint64) []types.FillWithBlock

	// DepositForFill looks up the deposit a fill claims to complete, by
	// (originChainId, depositId), against this client's full history.
	DepositForFill(fill types.Fill) (*types.DepositWithBlock, bool)
}

// ChainProvider is a thin read-only handle on a chain's RPC endpoint.
type ChainProvider interface {
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID() uint64
}

// TransactionSink is the fire-and-forget multi-caller queue transactions are
// enqueued to. Each enqueue is idempotent-by-intent.
type TransactionSink interface {
	ProposeRootBundle(ctx context.Context, bundleEndBlocks []uint64, leafCount uint32, poolRebalanceRoot, relayerRefundRoot, slowRelayRoot common.Hash) error
	DisputeRootBundle(ctx context.Context, diagnostic string) error
}

// ClientBundle groups the clients a Dataworker cycle needs, mirroring the
// constructor parameter named in the external interfaces contract.
type ClientBundle struct {
	HubPool     HubPoolClient
	ConfigStore ConfigStoreClient
	SpokePools  map[uint64]SpokePoolClient
	Providers   map[uint64]ChainProvider
	Sink        TransactionSink
}
