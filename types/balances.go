package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RunningBalances is chainId -> l1Token -> signed running balance.
type RunningBalances map[uint64]map[common.Address]*big.Int

// RealizedLpFees is chainId -> l1Token -> accumulated, non-negative LP fees.
type RealizedLpFees map[uint64]map[common.Address]*big.Int

// Add mutates the balance in place, creating intermediate maps as needed.
func (b RunningBalances) Add(chainID uint64, token common.Address, amount *big.Int) {
	byToken, ok := b[chainID]
	if !ok {
		byToken = make(map[common.Address]*big.Int)
		b[chainID] = byToken
	}
	cur, ok := byToken[token]
	if !ok {
		cur = big.NewInt(0)
		byToken[token] = cur
	}
	cur.Add(cur, amount)
}

// Add mutates the LP fee total in place, creating intermediate maps as needed.
func (b RealizedLpFees) Add(chainID uint64, token common.Address, amount *big.Int) {
	byToken, ok := b[chainID]
	if !ok {
		byToken = make(map[common.Address]*big.Int)
		b[chainID] = byToken
	}
	cur, ok := byToken[token]
	if !ok {
		cur = big.NewInt(0)
		byToken[token] = cur
	}
	cur.Add(cur, amount)
}

// Get returns a copy of the balance for (chainID, token), or zero.
func (b RunningBalances) Get(chainID uint64, token common.Address) *big.Int {
	byToken, ok := b[chainID]
	if !ok {
		return big.NewInt(0)
	}
	v, ok := byToken[token]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// Tokens returns the L1 tokens with a tracked balance on chainID.
func (b RunningBalances) Tokens(chainID uint64) []common.Address {
	byToken, ok := b[chainID]
	if !ok {
		return nil
	}
	tokens := make([]common.Address, 0, len(byToken))
	for token := range byToken {
		tokens = append(tokens, token)
	}
	return tokens
}
