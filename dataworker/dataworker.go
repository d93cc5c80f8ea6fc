// Package dataworker implements the bundle-construction and validation core
// of the cross-chain Dataworker: matching fills to deposits, building the
// three committed bundle roots, and deciding whether to propose or dispute.
package dataworker

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/across-protocol/dataworker/clients"
	"github.com/across-protocol/dataworker/types"
)

// Config is the Dataworker's immutable configuration record, replacing the
// constructor's optional overrides with a single borrowed struct.
type Config struct {
	// ChainIDs is the fixed, ordered chain-ID evaluation list.
	ChainIDs []uint64

	// EndBlockBuffer is the per-chain dispute buffer named in the
	// validation state machine; missing entries default to 0.
	EndBlockBuffer map[uint64]uint64

	// MaxRefundCountOverride, MaxL1TokenCountOverride, and
	// TransferThresholdOverride replace the corresponding ConfigStore
	// reads when set.
	MaxRefundCountOverride    *uint32
	MaxL1TokenCountOverride   *uint32
	TransferThresholdOverride map[common.Address]*big.Int
}

func (c Config) buffer(chainID uint64) uint64 {
	return c.EndBlockBuffer[chainID]
}

func (c Config) validate() error {
	if len(c.ChainIDs) == 0 {
		return &types.PreconditionError{Reason: "chain id list is empty"}
	}
	seen := make(map[uint64]bool, len(c.ChainIDs))
	for _, id := range c.ChainIDs {
		if seen[id] {
			return &types.PreconditionError{Reason: fmt.Sprintf("chain id %d appears twice in evaluation order", id)}
		}
		seen[id] = true
	}
	return nil
}

// Dataworker is stateless across cycles: it borrows its configuration and
// client bundle for the duration of one propose or validate call.
type Dataworker struct {
	cfg     Config
	clients clients.ClientBundle
	logger  zerolog.Logger
}

func New(cfg Config, bundle clients.ClientBundle, logger zerolog.Logger) (*Dataworker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Dataworker{cfg: cfg, clients: bundle, logger: logger}, nil
}

func (d *Dataworker) spokePoolClient(chainID uint64) (clients.SpokePoolClient, error) {
	sp, ok := d.clients.SpokePools[chainID]
	if !ok {
		return nil, &types.PreconditionError{Reason: fmt.Sprintf("no spoke pool client configured for chain %d", chainID)}
	}
	return sp, nil
}

func (d *Dataworker) maxRefundCount(mainnetBlock uint64) (uint32, error) {
	if d.cfg.MaxRefundCountOverride != nil {
		return *d.cfg.MaxRefundCountOverride, nil
	}
	return d.clients.ConfigStore.GetMaxRefundCountForRelayerRefundLeaf(mainnetBlock)
}

// defaultMaxL1TokenCount bounds how many L1 tokens share a pool rebalance
// leaf when no override is configured. Unlike maxRefundCount, the
// ConfigStore exposes no per-block parameter for this; it is a
// deployment-time constant unless overridden (see DESIGN.md).
const defaultMaxL1TokenCount uint32 = 25

func (d *Dataworker) maxL1TokenCount() uint32 {
	if d.cfg.MaxL1TokenCountOverride != nil {
		return *d.cfg.MaxL1TokenCountOverride
	}
	return defaultMaxL1TokenCount
}

func (d *Dataworker) transferThreshold(l1Token common.Address, mainnetBlock uint64) (*big.Int, error) {
	if v, ok := d.cfg.TransferThresholdOverride[l1Token]; ok {
		return v, nil
	}
	return d.clients.ConfigStore.GetTokenTransferThreshold(l1Token, mainnetBlock)
}
