package types

import "math/big"

// fixedPointScale matches the on-chain 1e18 scale used for relayerFeePct and
// realizedLpFeePct.
var fixedPointScale = big.NewInt(1_000_000_000_000_000_000)

// FixedPoint is a signed fixed-point percentage with an implicit 1e18 scale.
type FixedPoint struct {
	Raw *big.Int
}

func NewFixedPoint(raw *big.Int) FixedPoint {
	if raw == nil {
		return FixedPoint{Raw: big.NewInt(0)}
	}
	return FixedPoint{Raw: new(big.Int).Set(raw)}
}

// MulAmount returns floor(amount * p / 1e18), saturating negative products to
// zero: a fee percentage never flips the sign of the amount it is applied to.
func (p FixedPoint) MulAmount(amount *big.Int) *big.Int {
	if p.Raw == nil || amount == nil {
		return big.NewInt(0)
	}
	product := new(big.Int).Mul(amount, p.Raw)
	result := new(big.Int).Quo(product, fixedPointScale)
	if result.Sign() < 0 {
		return big.NewInt(0)
	}
	return result
}
