// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chain

import "fmt"

// GeneralChainConfig is the subset of a chain's configuration that is
// meaningful regardless of the chain-type-specific config that embeds it.
type GeneralChainConfig struct {
	Name     string  `mapstructure:"name"`
	Id       *uint64 `mapstructure:"id"`
	Endpoint string  `mapstructure:"endpoint"`
	Type     string  `mapstructure:"type"`

	// BlockConfirmations is used directly as the Dataworker's per-chain
	// end-block dispute buffer. Nothing in this module holds the chain
	// head back by it.
	BlockConfirmations uint64 `mapstructure:"blockConfirmations" default:"5"`
}

func (c *GeneralChainConfig) Validate() error {
	if c.Id == nil {
		return fmt.Errorf("required field chain.id is empty")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("required field chain.endpoint is empty for chain %d", *c.Id)
	}
	if c.Name == "" {
		return fmt.Errorf("required field chain.name is empty for chain %d", *c.Id)
	}
	return nil
}
