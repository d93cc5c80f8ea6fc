package dataworker_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/across-protocol/dataworker/dataworker"
	"github.com/across-protocol/dataworker/types"
)

type RelayerRefundTestSuite struct {
	suite.Suite
}

func TestRunRelayerRefundTestSuite(t *testing.T) {
	suite.Run(t, new(RelayerRefundTestSuite))
}

func newDataworkerWithConfig(t *testing.T, f *fixture, cfg dataworker.Config) *dataworker.Dataworker {
	cfg.ChainIDs = []uint64{chainA, chainB}
	d, err := dataworker.New(cfg, f.bundle(), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error constructing dataworker: %v", err)
	}
	return d
}

func refundLeafFor(leaves []types.RelayerRefundLeaf, chainID uint64, token common.Address) (types.RelayerRefundLeaf, bool) {
	for _, l := range leaves {
		if l.ChainID == chainID && l.L2TokenAddress == token {
			return l, true
		}
	}
	return types.RelayerRefundLeaf{}, false
}

// Test_S1_RefundLeafAndReturnOnlyLeaf mirrors the simple propose scenario:
// one refund leaf on the repayment chain crediting the relayer in full, and
// (per Testable Property 5) one return-only leaf on the origin chain where
// the net send is negative but no relayer earned a refund there.
func (s *RelayerRefundTestSuite) Test_S1_RefundLeafAndReturnOnlyLeaf() {
	f := newFixture()
	d := newDataworker(s.T(), f)

	dep := baseDeposit()
	fillsToRefund := make(types.FillsToRefund)
	r := fillsToRefund.GetOrCreate(chainB, tokenOnB)
	r.Credit(fillFor(dep, 1000, 1000, relayerR1, 550).Fill, big.NewInt(10))

	netSendAmounts := make(types.RunningBalances)
	netSendAmounts.Add(chainB, l1TokenX, big.NewInt(1000))
	netSendAmounts.Add(chainA, l1TokenX, big.NewInt(-1000))

	leaves, tree, err := d.BuildRelayerRefundRoot(fillsToRefund, netSendAmounts, f.hubPool.Block)
	s.Require().NoError(err)
	s.Require().Len(leaves, 2)
	s.Require().NotNil(tree)

	onB, ok := refundLeafFor(leaves, chainB, tokenOnB)
	s.Require().True(ok)
	s.Equal(big.NewInt(0), onB.AmountToReturn)
	s.Equal([]common.Address{relayerR1}, onB.RefundAddresses)
	s.Equal(big.NewInt(1000), onB.RefundAmounts[0])

	onA, ok := refundLeafFor(leaves, chainA, tokenOnA)
	s.Require().True(ok)
	s.Equal(big.NewInt(1000), onA.AmountToReturn)
	s.Empty(onA.RefundAddresses)
}

// Test_ChunksRecipientsByMaxRefundCount checks that a group with more
// recipients than maxRefundCount is split into one sub-leaf per chunk, in
// descending refund order with sequential leaf ids. The group's net send is
// non-negative, so every sub-leaf carries amountToReturn=0.
func (s *RelayerRefundTestSuite) Test_ChunksRecipientsByMaxRefundCount() {
	f := newFixture()
	maxRefundCount := uint32(1)
	d := newDataworkerWithConfig(s.T(), f, dataworker.Config{MaxRefundCountOverride: &maxRefundCount})

	relayer2 := common.HexToAddress("0xccc0000000000000000000000000000000000c")
	dep := baseDeposit()
	fillsToRefund := make(types.FillsToRefund)
	r := fillsToRefund.GetOrCreate(chainB, tokenOnB)
	r.Credit(fillFor(dep, 700, 700, relayerR1, 550).Fill, big.NewInt(0))
	r.Credit(types.Fill{
		Deposit:           dep.Deposit,
		FillAmount:        big.NewInt(300),
		TotalFilledAmount: big.NewInt(1000),
		RepaymentChainID:  chainB,
		Relayer:           relayer2,
	}, big.NewInt(0))

	netSendAmounts := make(types.RunningBalances)
	netSendAmounts.Add(chainB, l1TokenX, big.NewInt(1000))

	leaves, _, err := d.BuildRelayerRefundRoot(fillsToRefund, netSendAmounts, f.hubPool.Block)
	s.Require().NoError(err)
	s.Require().Len(leaves, 2)

	// Descending by amount: relayerR1 (700) leads, carries amountToReturn=0
	// because the whole group's net send is non-negative.
	s.Equal([]common.Address{relayerR1}, leaves[0].RefundAddresses)
	s.Equal(big.NewInt(0), leaves[0].AmountToReturn)
	s.Equal([]common.Address{relayer2}, leaves[1].RefundAddresses)
	s.Equal(big.NewInt(0), leaves[1].AmountToReturn)
	s.Equal(uint32(0), leaves[0].LeafID)
	s.Equal(uint32(1), leaves[1].LeafID)
}

func (s *RelayerRefundTestSuite) Test_EmptyInputProducesNoLeaves() {
	f := newFixture()
	d := newDataworker(s.T(), f)

	leaves, tree, err := d.BuildRelayerRefundRoot(make(types.FillsToRefund), make(types.RunningBalances), f.hubPool.Block)
	s.Require().NoError(err)
	s.Empty(leaves)
	s.Require().NotNil(tree)
}
