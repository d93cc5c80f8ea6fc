package fake

import (
	"context"

	"github.com/across-protocol/dataworker/types"
)

// SpokePoolClient is an in-memory SpokePoolClient double: tests populate
// Deposits and Fills directly, pre-joined the way a real indexer would
// hold them.
type SpokePoolClient struct {
	Updated bool
	Chain   uint64

	Deposits []types.DepositWithBlock
	Fills    []types.FillWithBlock

	UpdateErr error
}

func NewSpokePoolClient(chainID uint64) *SpokePoolClient {
	return &SpokePoolClient{Updated: true, Chain: chainID}
}

func (c *SpokePoolClient) IsUpdated() bool { return c.Updated }

func (c *SpokePoolClient) Update(ctx context.Context) error {
	if c.UpdateErr != nil {
		return c.UpdateErr
	}
	c.Updated = true
	return nil
}

func (c *SpokePoolClient) ChainID() uint64 { return c.Chain }

func (c *SpokePoolClient) DepositsForDestinationChain(destinationChainID uint64) []types.DepositWithBlock {
	var out []types.DepositWithBlock
	for _, d := range c.Deposits {
		if d.DestinationChainID == destinationChainID {
			out = append(out, d)
		}
	}
	return out
}

func (c *SpokePoolClient) FillsForOriginChain(originChainID uint64) []types.FillWithBlock {
	var out []types.FillWithBlock
	for _, f := range c.Fills {
		if f.OriginChainID == originChainID {
			out = append(out, f)
		}
	}
	return out
}

func (c *SpokePoolClient) DepositForFill(fill types.Fill) (*types.DepositWithBlock, bool) {
	for _, d := range c.Deposits {
		if d.Key() == fill.Key() {
			return &d, true
		}
	}
	return nil, false
}
