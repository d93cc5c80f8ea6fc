package dataworker_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/across-protocol/dataworker/dataworker"
	"github.com/across-protocol/dataworker/types"
)

type PoolRebalanceTestSuite struct {
	suite.Suite
}

func TestRunPoolRebalanceTestSuite(t *testing.T) {
	suite.Run(t, new(PoolRebalanceTestSuite))
}

func leafFor(leaves []types.PoolRebalanceLeaf, chainID uint64) (types.PoolRebalanceLeaf, bool) {
	for _, l := range leaves {
		if l.ChainID == chainID {
			return l, true
		}
	}
	return types.PoolRebalanceLeaf{}, false
}

func indexOfToken(l types.PoolRebalanceLeaf, token common.Address) int {
	for i, t := range l.L1Tokens {
		if t == token {
			return i
		}
	}
	return -1
}

// Test_S1_NetSendMirrorsRefundAndDepositOutflow checks the running-balance
// identity for the simple propose scenario: the destination chain's net
// send equals refunds credited there, the origin chain's net send equals
// the negated deposit amount pulled back.
func (s *PoolRebalanceTestSuite) Test_S1_NetSendMirrorsRefundAndDepositOutflow() {
	f := newFixture()
	d := newDataworker(s.T(), f)

	dep := baseDeposit()
	fillsToRefund := make(types.FillsToRefund)
	r := fillsToRefund.GetOrCreate(chainB, tokenOnB)
	r.Credit(fillFor(dep, 1000, 1000, relayerR1, 550).Fill, big.NewInt(0))

	data := &dataworker.BundleData{
		FillsToRefund: fillsToRefund,
		Deposits:      []types.DepositWithBlock{dep},
	}

	result, err := d.BuildPoolRebalanceRoot(data, f.hubPool.Block)
	s.Require().NoError(err)
	s.Require().Len(result.Leaves, 2)

	leafA, ok := leafFor(result.Leaves, chainA)
	s.Require().True(ok)
	idx := indexOfToken(leafA, l1TokenX)
	s.Require().GreaterOrEqual(idx, 0)
	s.Equal(big.NewInt(-1000), leafA.NetSendAmounts[idx])

	leafB, ok := leafFor(result.Leaves, chainB)
	s.Require().True(ok)
	idx = indexOfToken(leafB, l1TokenX)
	s.Require().GreaterOrEqual(idx, 0)
	s.Equal(big.NewInt(1000), leafB.NetSendAmounts[idx])

	s.Equal(big.NewInt(-1000), result.NetSendAmounts.Get(chainA, l1TokenX))
	s.Equal(big.NewInt(1000), result.NetSendAmounts.Get(chainB, l1TokenX))
}

// Test_SlowFillExcessIsSubtractedFromDestinationRunningBalance resolves
// Open Question (a): when a deposit's earliest fill is an instant partial
// fill and a slow fill later completes it, the slow-fill leaf's replay of
// the full deposit amount would double count the already-instantly-filled
// portion unless the excess is subtracted back out of the destination
// chain's running balance.
func (s *PoolRebalanceTestSuite) Test_SlowFillExcessIsSubtractedFromDestinationRunningBalance() {
	f := newFixture()
	d := newDataworker(s.T(), f)

	dep := baseDeposit()
	dep.RealizedLpFeePct = types.NewFixedPoint(big.NewInt(0))

	instant := types.FillWithBlock{
		Fill: types.Fill{
			Deposit:           dep.Deposit,
			FillAmount:        big.NewInt(400),
			TotalFilledAmount: big.NewInt(400),
			RepaymentChainID:  chainB,
			Relayer:           relayerR1,
		},
		Block: 100,
	}
	slow := types.FillWithBlock{
		Fill: types.Fill{
			Deposit:           dep.Deposit,
			FillAmount:        big.NewInt(600),
			TotalFilledAmount: big.NewInt(1000),
			RepaymentChainID:  chainB,
			Relayer:           relayerR1,
			IsSlowRelay:       true,
		},
		Block: 200,
	}

	fillsToRefund := make(types.FillsToRefund)
	r := fillsToRefund.GetOrCreate(chainB, tokenOnB)
	r.Credit(instant.Fill, big.NewInt(0))
	r.Credit(slow.Fill, big.NewInt(0))

	data := &dataworker.BundleData{
		FillsToRefund: fillsToRefund,
		AllValidFills: []types.FillWithBlock{instant, slow},
		Deposits:      []types.DepositWithBlock{dep},
	}

	result, err := d.BuildPoolRebalanceRoot(data, f.hubPool.Block)
	s.Require().NoError(err)

	s.Equal(big.NewInt(400), result.NetSendAmounts.Get(chainB, l1TokenX))
	s.Equal(big.NewInt(-1000), result.NetSendAmounts.Get(chainA, l1TokenX))
}

func (s *PoolRebalanceTestSuite) Test_NoActivityProducesNoLeaves() {
	f := newFixture()
	d := newDataworker(s.T(), f)

	result, err := d.BuildPoolRebalanceRoot(&dataworker.BundleData{FillsToRefund: make(types.FillsToRefund)}, f.hubPool.Block)
	s.Require().NoError(err)
	s.Empty(result.Leaves)
}
