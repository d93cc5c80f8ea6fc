// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package evm

import (
	"fmt"
	"math/big"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"

	"github.com/across-protocol/dataworker/config"
	"github.com/across-protocol/dataworker/config/chain"
)

// EVMConfig is one EVM chain's fully decoded configuration: the SpokePool
// it is indexed from, the HubPool it settles through (populated on the
// mainnet entry only), and the token table the Dataworker needs for
// override lookups.
type EVMConfig struct {
	GeneralChainConfig chain.GeneralChainConfig

	SpokePoolAddress common.Address
	HubPoolAddress   common.Address

	Tokens map[string]config.TokenConfig

	TransferThresholdOverrides map[common.Address]*big.Int
}

type RawEVMConfig struct {
	chain.GeneralChainConfig `mapstructure:",squash"`

	SpokePoolAddress string            `mapstructure:"spokePoolAddress"`
	HubPoolAddress   string            `mapstructure:"hubPoolAddress"`
	Tokens           map[string]string `mapstructure:"tokens"`
	TokenDecimals    map[string]uint8  `mapstructure:"tokenDecimals"`

	TransferThresholds map[string]string `mapstructure:"transferThresholds"`
}

func (c *RawEVMConfig) Validate() error {
	if err := c.GeneralChainConfig.Validate(); err != nil {
		return err
	}
	if c.SpokePoolAddress == "" {
		return fmt.Errorf("required field spokePoolAddress is empty for chain %d", *c.Id)
	}
	return nil
}

// NewEVMConfig decodes and validates an EVMConfig from a chain's raw
// configuration map.
func NewEVMConfig(chainConfig map[string]interface{}) (*EVMConfig, error) {
	var c RawEVMConfig
	if err := mapstructure.Decode(chainConfig, &c); err != nil {
		return nil, err
	}
	if err := defaults.Set(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tokens := make(map[string]config.TokenConfig, len(c.Tokens))
	for symbol, addr := range c.Tokens {
		tokens[symbol] = config.TokenConfig{
			Address:  common.HexToAddress(addr),
			Decimals: c.TokenDecimals[symbol],
		}
	}

	thresholds := make(map[common.Address]*big.Int, len(c.TransferThresholds))
	for symbol, amount := range c.TransferThresholds {
		tc, ok := tokens[symbol]
		if !ok {
			return nil, fmt.Errorf("transfer threshold configured for unknown token %s", symbol)
		}
		v, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, fmt.Errorf("invalid transfer threshold %q for token %s", amount, symbol)
		}
		thresholds[tc.Address] = v
	}

	return &EVMConfig{
		GeneralChainConfig:         c.GeneralChainConfig,
		SpokePoolAddress:           common.HexToAddress(c.SpokePoolAddress),
		HubPoolAddress:             common.HexToAddress(c.HubPoolAddress),
		Tokens:                     tokens,
		TransferThresholdOverrides: thresholds,
	}, nil
}
