package dataworker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/across-protocol/dataworker/merkletree"
	"github.com/across-protocol/dataworker/types"
)

type ProposeTestSuite struct {
	suite.Suite
}

func TestRunProposeTestSuite(t *testing.T) {
	suite.Run(t, new(ProposeTestSuite))
}

// Test_S1_SimpleProposeEnqueuesRootBundle runs the full propose cycle
// end-to-end: one deposit on chain A fully filled on chain B produces a
// non-empty pool rebalance root, a relayer refund root with a credited
// leaf and a return-only leaf, an empty slow relay root, and a single
// enqueued proposeRootBundle transaction.
func (s *ProposeTestSuite) Test_S1_SimpleProposeEnqueuesRootBundle() {
	f := newFixture()
	dep := baseDeposit()
	f.spokeA.Deposits = []types.DepositWithBlock{dep}
	f.spokeB.Fills = []types.FillWithBlock{fillFor(dep, 1000, 1000, relayerR1, 550)}

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Propose(context.Background()))

	s.Require().Len(f.sink.Proposals, 1)
	s.Empty(f.sink.Disputes)

	proposal := f.sink.Proposals[0]
	s.Equal([]uint64{200, 600}, proposal.BundleEndBlocks)
	s.Equal(uint32(4), proposal.LeafCount) // 2 pool-rebalance + 2 relayer-refund leaves
	s.NotEqual(merkletree.EmptyRoot, proposal.PoolRebalanceRoot)
	s.NotEqual(merkletree.EmptyRoot, proposal.RelayerRefundRoot)
	s.Equal(merkletree.EmptyRoot, proposal.SlowRelayRoot) // no unfilled deposits
}

func (s *ProposeTestSuite) Test_SkipsWhenProposalAlreadyPending() {
	f := newFixture()
	f.hubPool.Pending = &types.PendingRootBundle{}

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Propose(context.Background()))
	s.Empty(f.sink.Proposals)
}

func (s *ProposeTestSuite) Test_SkipsWhenNothingToRebalance() {
	f := newFixture()
	d := newDataworker(s.T(), f)

	s.Require().NoError(d.Propose(context.Background()))
	s.Empty(f.sink.Proposals)
}

func (s *ProposeTestSuite) Test_PreconditionFailsWhenHubPoolNotUpdated() {
	f := newFixture()
	f.hubPool.Updated = false

	d := newDataworker(s.T(), f)
	err := d.Propose(context.Background())
	s.Error(err)
	var precondition *types.PreconditionError
	s.ErrorAs(err, &precondition)
}

func (s *ProposeTestSuite) Test_SwallowsSinkErrorAsNoEnqueue() {
	f := newFixture()
	dep := baseDeposit()
	f.spokeA.Deposits = []types.DepositWithBlock{dep}
	f.spokeB.Fills = []types.FillWithBlock{fillFor(dep, 1000, 1000, relayerR1, 550)}
	f.sink.ProposeErr = errors.New("rpc unavailable")

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Propose(context.Background()))
	s.Empty(f.sink.Proposals)
}
