// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package evm_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/across-protocol/dataworker/chains/evm"
	"github.com/across-protocol/dataworker/config/chain"
)

type NewEVMConfigTestSuite struct {
	suite.Suite
}

func TestRunNewEVMConfigTestSuite(t *testing.T) {
	suite.Run(t, new(NewEVMConfigTestSuite))
}

func (s *NewEVMConfigTestSuite) Test_FailedDecode() {
	_, err := evm.NewEVMConfig(map[string]interface{}{
		"blockConfirmations": "invalid",
	})

	s.NotNil(err)
}

func (s *NewEVMConfigTestSuite) Test_FailedGeneralConfigValidation() {
	_, err := evm.NewEVMConfig(map[string]interface{}{})

	s.NotNil(err)
}

func (s *NewEVMConfigTestSuite) Test_MissingSpokePoolAddress() {
	_, err := evm.NewEVMConfig(map[string]interface{}{
		"id":       1,
		"name":     "mainnet",
		"endpoint": "https://rpc.example.com",
	})

	s.NotNil(err)
}

func (s *NewEVMConfigTestSuite) Test_UnknownTransferThresholdToken() {
	_, err := evm.NewEVMConfig(map[string]interface{}{
		"id":               1,
		"name":             "mainnet",
		"endpoint":         "https://rpc.example.com",
		"spokePoolAddress": "0x1111111111111111111111111111111111111111",
		"transferThresholds": map[string]string{
			"usdc": "100",
		},
	})

	s.NotNil(err)
}

func (s *NewEVMConfigTestSuite) Test_ValidConfig() {
	rawConfig := map[string]interface{}{
		"id":               1,
		"name":             "mainnet",
		"endpoint":         "https://rpc.example.com",
		"spokePoolAddress": "0x1111111111111111111111111111111111111111",
		"hubPoolAddress":   "0x2222222222222222222222222222222222222222",
		"tokens": map[string]string{
			"usdc": "0x3333333333333333333333333333333333333333",
		},
		"tokenDecimals": map[string]uint8{
			"usdc": 6,
		},
		"transferThresholds": map[string]string{
			"usdc": "100000000",
		},
	}

	actualConfig, err := evm.NewEVMConfig(rawConfig)
	s.Nil(err)

	id := new(uint64)
	*id = 1
	s.Equal(*id, *actualConfig.GeneralChainConfig.Id)
	s.Equal(uint64(5), actualConfig.GeneralChainConfig.BlockConfirmations)
	s.Equal(common.HexToAddress("0x1111111111111111111111111111111111111111"), actualConfig.SpokePoolAddress)
	s.Equal(common.HexToAddress("0x2222222222222222222222222222222222222222"), actualConfig.HubPoolAddress)
	s.Equal(uint8(6), actualConfig.Tokens["usdc"].Decimals)
	s.Equal(big.NewInt(100000000), actualConfig.TransferThresholdOverrides[common.HexToAddress("0x3333333333333333333333333333333333333333")])
}

func (s *NewEVMConfigTestSuite) Test_ValidConfigWithCustomBlockConfirmations() {
	rawConfig := map[string]interface{}{
		"id":                 2,
		"name":               "arbitrum",
		"endpoint":           "https://rpc.arbitrum.example.com",
		"spokePoolAddress":   "0x1111111111111111111111111111111111111111",
		"blockConfirmations": 32,
	}

	actualConfig, err := evm.NewEVMConfig(rawConfig)
	s.Nil(err)
	s.Equal(chain.GeneralChainConfig{
		Name:               "arbitrum",
		Id:                 actualConfig.GeneralChainConfig.Id,
		Endpoint:           "https://rpc.arbitrum.example.com",
		BlockConfirmations: 32,
	}, actualConfig.GeneralChainConfig)
}
