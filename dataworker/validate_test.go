package dataworker_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/across-protocol/dataworker/dataworker"
	"github.com/across-protocol/dataworker/merkletree"
	"github.com/across-protocol/dataworker/types"
)

type ValidateTestSuite struct {
	suite.Suite
}

func TestRunValidateTestSuite(t *testing.T) {
	suite.Run(t, new(ValidateTestSuite))
}

// rebuiltRoots independently runs the same three root builders Validate
// uses internally, so a test can seed a pending proposal that either
// matches or deliberately diverges from what Validate would recompute.
func rebuiltRoots(s *ValidateTestSuite, f *fixture, ranges map[uint64]types.BlockRange) (common.Hash, common.Hash, common.Hash) {
	d := newDataworker(s.T(), f)
	data, err := d.LoadBundleData(context.Background(), ranges, f.hubPool.Block)
	s.Require().NoError(err)

	poolRebalance, err := d.BuildPoolRebalanceRoot(data, f.hubPool.Block)
	s.Require().NoError(err)
	_, relayerRefundTree, err := d.BuildRelayerRefundRoot(data.FillsToRefund, poolRebalance.NetSendAmounts, f.hubPool.Block)
	s.Require().NoError(err)
	_, slowRelayTree, err := d.BuildSlowRelayRoot(data.UnfilledDeposits)
	s.Require().NoError(err)

	return poolRebalance.Tree.HexRoot(), relayerRefundTree.HexRoot(), slowRelayTree.HexRoot()
}

func (s *ValidateTestSuite) seedMatchingProposal(f *fixture) {
	dep := baseDeposit()
	f.spokeA.Deposits = []types.DepositWithBlock{dep}
	f.spokeB.Fills = []types.FillWithBlock{fillFor(dep, 1000, 1000, relayerR1, 550)}

	ranges := map[uint64]types.BlockRange{
		chainA: {Start: 0, End: 200},
		chainB: {Start: 0, End: 600},
	}
	poolRoot, refundRoot, slowRoot := rebuiltRoots(s, f, ranges)

	f.hubPool.Pending = &types.PendingRootBundle{
		ChallengePeriodEndTimestamp:  100,
		BundleEvaluationBlockNumbers: []uint64{200, 600},
		PoolRebalanceRoot:            poolRoot,
		RelayerRefundRoot:            refundRoot,
		SlowRelayRoot:                slowRoot,
	}
}

// Test_S4_AcceptsMatchingProposal is the accept path: a pending proposal
// whose block range matches our head and whose roots match what we'd
// independently rebuild draws neither a dispute nor any other side effect.
func (s *ValidateTestSuite) Test_S4_AcceptsMatchingProposal() {
	f := newFixture()
	s.seedMatchingProposal(f)

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Validate(context.Background()))
	s.Empty(f.sink.Disputes)
}

// Test_S5_DisputesOnRootMismatch mirrors the dispute scenario: a pending
// relayer refund root that does not match our rebuild is disputed, and the
// diagnostic names the mismatching root.
func (s *ValidateTestSuite) Test_S5_DisputesOnRootMismatch() {
	f := newFixture()
	s.seedMatchingProposal(f)
	f.hubPool.Pending.RelayerRefundRoot = common.HexToHash("0xdeadbeef")

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Validate(context.Background()))
	s.Require().Len(f.sink.Disputes, 1)
	s.Contains(f.sink.Disputes[0], "Unexpected relayer refund root")
}

// Test_S6_DefersWhenPendingEndIsAheadWithinBuffer: a pending end block that
// is past our own chain head, but within the configured per-chain buffer,
// is neither accepted nor disputed - we simply wait for our own view to
// catch up.
func (s *ValidateTestSuite) Test_S6_DefersWhenPendingEndIsAheadWithinBuffer() {
	f := newFixture()
	dep := baseDeposit()
	f.spokeA.Deposits = []types.DepositWithBlock{dep}
	f.spokeB.Fills = []types.FillWithBlock{fillFor(dep, 1000, 1000, relayerR1, 550)}

	f.hubPool.Pending = &types.PendingRootBundle{
		ChallengePeriodEndTimestamp:  100,
		BundleEvaluationBlockNumbers: []uint64{205, 600}, // chain A ahead by 5
		PoolRebalanceRoot:            common.HexToHash("0x01"),
		RelayerRefundRoot:            common.HexToHash("0x02"),
		SlowRelayRoot:                common.HexToHash("0x03"),
	}

	d := newDataworkerWithConfig(s.T(), f, dataworker.Config{EndBlockBuffer: map[uint64]uint64{chainA: 10}})

	s.Require().NoError(d.Validate(context.Background()))
	s.Empty(f.sink.Disputes)
}

func (s *ValidateTestSuite) Test_DisputesOnEmptyRootSentinel() {
	f := newFixture()
	f.hubPool.Pending = &types.PendingRootBundle{
		ChallengePeriodEndTimestamp: 100,
		PoolRebalanceRoot:           merkletree.EmptyRoot,
	}

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Validate(context.Background()))
	s.Require().Len(f.sink.Disputes, 1)
	s.Contains(f.sink.Disputes[0], "empty-tree sentinel")
}

func (s *ValidateTestSuite) Test_DisputesOnBlockRangeCountMismatch() {
	f := newFixture()
	f.hubPool.Pending = &types.PendingRootBundle{
		ChallengePeriodEndTimestamp:  100,
		BundleEvaluationBlockNumbers: []uint64{200}, // missing chain B
		PoolRebalanceRoot:            common.HexToHash("0x01"),
	}

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Validate(context.Background()))
	s.Require().Len(f.sink.Disputes, 1)
	s.Contains(f.sink.Disputes[0], "bundle evaluation block numbers")
}

func (s *ValidateTestSuite) Test_DisputesWhenEndBlockBeforeExpectedStart() {
	f := newFixture()
	f.hubPool.NextBundleStart[chainA] = 50
	f.hubPool.Pending = &types.PendingRootBundle{
		ChallengePeriodEndTimestamp:  100,
		BundleEvaluationBlockNumbers: []uint64{10, 600}, // chain A end before its own start
		PoolRebalanceRoot:            common.HexToHash("0x01"),
	}

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Validate(context.Background()))
	s.Require().Len(f.sink.Disputes, 1)
	s.Contains(f.sink.Disputes[0], "before the expected start block")
}

func (s *ValidateTestSuite) Test_QuietWhenNoPendingProposal() {
	f := newFixture()
	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Validate(context.Background()))
	s.Empty(f.sink.Disputes)
}

func (s *ValidateTestSuite) Test_QuietWhenChallengePeriodExpired() {
	f := newFixture()
	f.hubPool.Time = 500
	f.hubPool.Pending = &types.PendingRootBundle{ChallengePeriodEndTimestamp: 100}

	d := newDataworker(s.T(), f)
	s.Require().NoError(d.Validate(context.Background()))
	s.Empty(f.sink.Disputes)
}
