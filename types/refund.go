package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Refund is the accumulated refund obligation for one (repaymentChainId,
// l2Token) pair.
type Refund struct {
	TotalRefundAmount *big.Int
	RealizedLpFees    *big.Int
	Fills             []Fill
	Refunds           map[common.Address]*big.Int
}

func newRefund() *Refund {
	return &Refund{
		TotalRefundAmount: big.NewInt(0),
		RealizedLpFees:    big.NewInt(0),
		Refunds:           make(map[common.Address]*big.Int),
	}
}

// Credit records a fill's contribution to this refund group: the relayer's
// running refund grows by the fill amount, and realizedLpFees grows by the
// LP fee already computed by the caller (fill amount scaled by the fill's
// realized LP fee percentage).
func (r *Refund) Credit(fill Fill, lpFee *big.Int) {
	r.TotalRefundAmount.Add(r.TotalRefundAmount, fill.FillAmount)
	r.RealizedLpFees.Add(r.RealizedLpFees, lpFee)
	r.Fills = append(r.Fills, fill)

	existing, ok := r.Refunds[fill.Relayer]
	if !ok {
		existing = big.NewInt(0)
		r.Refunds[fill.Relayer] = existing
	}
	existing.Add(existing, fill.FillAmount)
}

// FillsToRefund is the three-level repaymentChainId -> l2TokenAddress ->
// Refund mapping described in the data model. Insertion order is not
// observable; traversal order is imposed by the relayer refund root builder.
type FillsToRefund map[uint64]map[common.Address]*Refund

// GetOrCreate returns the Refund bucket for (chainID, token), creating
// empty intermediate maps as needed.
func (f FillsToRefund) GetOrCreate(chainID uint64, token common.Address) *Refund {
	byToken, ok := f[chainID]
	if !ok {
		byToken = make(map[common.Address]*Refund)
		f[chainID] = byToken
	}
	r, ok := byToken[token]
	if !ok {
		r = newRefund()
		byToken[token] = r
	}
	return r
}
