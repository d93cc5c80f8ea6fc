package fake

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ChainProvider is an in-memory ChainProvider double.
type ChainProvider struct {
	Chain uint64
	Block uint64
	Err   error
}

func NewChainProvider(chainID uint64, block uint64) *ChainProvider {
	return &ChainProvider{Chain: chainID, Block: block}
}

func (p *ChainProvider) BlockNumber(ctx context.Context) (uint64, error) {
	if p.Err != nil {
		return 0, p.Err
	}
	return p.Block, nil
}

func (p *ChainProvider) ChainID() uint64 { return p.Chain }

// TransactionSink is an in-memory TransactionSink double recording every
// enqueued transaction for assertions.
type TransactionSink struct {
	Proposals []Proposal
	Disputes  []string

	ProposeErr error
	DisputeErr error
}

type Proposal struct {
	BundleEndBlocks    []uint64
	LeafCount          uint32
	PoolRebalanceRoot  common.Hash
	RelayerRefundRoot  common.Hash
	SlowRelayRoot      common.Hash
}

func NewTransactionSink() *TransactionSink {
	return &TransactionSink{}
}

func (s *TransactionSink) ProposeRootBundle(ctx context.Context, bundleEndBlocks []uint64, leafCount uint32, poolRebalanceRoot, relayerRefundRoot, slowRelayRoot common.Hash) error {
	if s.ProposeErr != nil {
		return s.ProposeErr
	}
	s.Proposals = append(s.Proposals, Proposal{
		BundleEndBlocks:   bundleEndBlocks,
		LeafCount:         leafCount,
		PoolRebalanceRoot: poolRebalanceRoot,
		RelayerRefundRoot: relayerRefundRoot,
		SlowRelayRoot:     slowRelayRoot,
	})
	return nil
}

func (s *TransactionSink) DisputeRootBundle(ctx context.Context, diagnostic string) error {
	if s.DisputeErr != nil {
		return s.DisputeErr
	}
	s.Disputes = append(s.Disputes, diagnostic)
	return nil
}
