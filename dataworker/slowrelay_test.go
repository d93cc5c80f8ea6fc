package dataworker_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/across-protocol/dataworker/dataworker"
	"github.com/across-protocol/dataworker/merkletree"
	"github.com/across-protocol/dataworker/types"
)

type SlowRelayTestSuite struct {
	suite.Suite
	d *dataworker.Dataworker
}

func (s *SlowRelayTestSuite) SetupTest() {
	s.d = newDataworker(s.T(), newFixture())
}

func TestRunSlowRelayTestSuite(t *testing.T) {
	suite.Run(t, new(SlowRelayTestSuite))
}

func unfilledFor(originChainID uint64, depositID uint32, amount int64) types.UnfilledDeposit {
	return types.UnfilledDeposit{
		Deposit: types.Deposit{
			DepositID:          depositID,
			OriginChainID:      originChainID,
			DestinationChainID: chainB,
			Depositor:          depositor,
			Recipient:          recipient,
			DestinationToken:   tokenOnB,
			Amount:             big.NewInt(amount),
			RelayerFeePct:      types.NewFixedPoint(big.NewInt(0)),
			RealizedLpFeePct:   types.NewFixedPoint(big.NewInt(0)),
		},
		UnfilledAmount: big.NewInt(amount),
	}
}

// Test_S2_PartialFillYieldsSlowRelayLeaf mirrors the second half of S2: a
// partially-filled deposit produces exactly one slow relay leaf carrying
// the full deposit amount (slow relay leaves always replay the original
// deposit, the pool rebalance side handles the already-filled portion).
func (s *SlowRelayTestSuite) Test_S2_PartialFillYieldsSlowRelayLeaf() {
	unfilled := []types.UnfilledDeposit{unfilledFor(chainA, 7, 1000)}

	leaves, tree, err := s.d.BuildSlowRelayRoot(unfilled)
	s.Require().NoError(err)
	s.Require().Len(leaves, 1)
	s.Equal(uint32(7), leaves[0].RelayData.DepositID)
	s.Equal(big.NewInt(1000), leaves[0].RelayData.Amount)
	s.NotEqual(merkletree.EmptyRoot, tree.HexRoot())
}

func (s *SlowRelayTestSuite) Test_OrderedByOriginChainThenDepositID() {
	unfilled := []types.UnfilledDeposit{
		unfilledFor(chainB, 2, 100),
		unfilledFor(chainA, 5, 200),
		unfilledFor(chainA, 1, 300),
	}

	leaves, _, err := s.d.BuildSlowRelayRoot(unfilled)
	s.Require().NoError(err)
	s.Require().Len(leaves, 3)

	s.Equal(chainA, leaves[0].RelayData.OriginChainID)
	s.Equal(uint32(1), leaves[0].RelayData.DepositID)
	s.Equal(chainA, leaves[1].RelayData.OriginChainID)
	s.Equal(uint32(5), leaves[1].RelayData.DepositID)
	s.Equal(chainB, leaves[2].RelayData.OriginChainID)
	s.Equal(uint32(2), leaves[2].RelayData.DepositID)
}

func (s *SlowRelayTestSuite) Test_DuplicateDepositIDOnSameChainIsAnomaly() {
	unfilled := []types.UnfilledDeposit{
		unfilledFor(chainA, 1, 100),
		unfilledFor(chainA, 1, 200),
	}

	_, _, err := s.d.BuildSlowRelayRoot(unfilled)
	s.Error(err)
	var anomaly *types.DataAnomalyError
	s.ErrorAs(err, &anomaly)
}

func (s *SlowRelayTestSuite) Test_EmptyInputProducesNoLeaves() {
	leaves, tree, err := s.d.BuildSlowRelayRoot(nil)
	s.Require().NoError(err)
	s.Empty(leaves)
	s.Require().NotNil(tree)
}
