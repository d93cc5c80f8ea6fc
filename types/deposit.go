package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DepositKey is the globally unique identity of a Deposit.
type DepositKey struct {
	OriginChainID uint64
	DepositID     uint32
}

// Deposit is a user's cross-chain transfer request, as emitted by the
// origin SpokePool.
type Deposit struct {
	DepositID           uint32
	OriginChainID       uint64
	DestinationChainID  uint64
	Depositor           common.Address
	Recipient           common.Address
	DestinationToken    common.Address
	Amount              *big.Int
	RelayerFeePct       FixedPoint
	RealizedLpFeePct    FixedPoint
	QuoteTimestamp      uint32
}

func (d Deposit) Key() DepositKey {
	return DepositKey{OriginChainID: d.OriginChainID, DepositID: d.DepositID}
}

// DepositWithBlock additionally carries the origin-chain block number the
// deposit was included in.
type DepositWithBlock struct {
	Deposit
	OriginBlock uint64
}

// Fill is a relayer's act of delivering funds toward a deposit.
type Fill struct {
	Deposit

	FillAmount        *big.Int
	TotalFilledAmount  *big.Int
	RepaymentChainID   uint64
	Relayer            common.Address
	IsSlowRelay        bool
}

// FillWithBlock additionally carries destination-chain ordering coordinates.
type FillWithBlock struct {
	Fill
	Block    uint64
	TxIndex  uint
	LogIndex uint
}

// Before reports whether f happened strictly before other on-chain.
func (f FillWithBlock) Before(other FillWithBlock) bool {
	if f.Block != other.Block {
		return f.Block < other.Block
	}
	if f.TxIndex != other.TxIndex {
		return f.TxIndex < other.TxIndex
	}
	return f.LogIndex < other.LogIndex
}

// UnfilledDeposit is a deposit with liquidity still owed from the pool.
type UnfilledDeposit struct {
	Deposit             Deposit
	UnfilledAmount      *big.Int
	HasFirstFillInRange bool
}

// BlockRange is an inclusive [Start, End] window evaluated for one chain.
type BlockRange struct {
	Start uint64
	End   uint64
}

func (r BlockRange) Contains(block uint64) bool {
	return block >= r.Start && block <= r.End
}
