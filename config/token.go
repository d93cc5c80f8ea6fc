package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// TokenConfig is one chain's local representation of a bridged token: its
// address on that chain and the decimals it is denominated in.
type TokenConfig struct {
	Address  common.Address
	Decimals uint8
}

// TokenStore is the per-chain symbol/address lookup table assembled from
// every chain's decoded configuration. The Dataworker itself resolves
// L1/L2 token counterparts through the HubPool client, not through this
// store; TokenStore exists for the pieces of an embedder (CLI output,
// transfer-threshold override parsing) that need to go from a
// human-readable symbol to an on-chain address and back.
type TokenStore struct {
	Tokens map[uint64]map[string]TokenConfig
}

func NewTokenStore(tokens map[uint64]map[string]TokenConfig) *TokenStore {
	return &TokenStore{Tokens: tokens}
}

func (s *TokenStore) ConfigByAddress(chainID uint64, address common.Address) (string, TokenConfig, error) {
	tokens, ok := s.Tokens[chainID]
	if !ok {
		return "", TokenConfig{}, fmt.Errorf("no tokens configured for chain %d", chainID)
	}

	for symbol, c := range tokens {
		if c.Address == address {
			return symbol, c, nil
		}
	}

	return "", TokenConfig{}, fmt.Errorf("no symbol configured for address %s on chain %d", address.Hex(), chainID)
}

func (s *TokenStore) ConfigBySymbol(chainID uint64, symbol string) (TokenConfig, error) {
	tokens, ok := s.Tokens[chainID]
	if !ok {
		return TokenConfig{}, fmt.Errorf("no tokens configured for chain %d", chainID)
	}

	c, ok := tokens[symbol]
	if !ok {
		return TokenConfig{}, fmt.Errorf("no config for token %s on chain %d", symbol, chainID)
	}

	return c, nil
}
