package dataworker

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/across-protocol/dataworker/types"
)

// BundleData is the Bundle Data Loader's output, feeding every root
// builder.
type BundleData struct {
	FillsToRefund    types.FillsToRefund
	UnfilledDeposits []types.UnfilledDeposit
	AllValidFills    []types.FillWithBlock
	Deposits         []types.DepositWithBlock
}

type unfilledState struct {
	deposit             types.DepositWithBlock
	maxTotalFilled      *big.Int
	hasFirstFillInRange bool
}

// LoadBundleData walks every ordered (origin, destination) chain pair,
// correlates fills against deposits, and accumulates the refund-credit and
// unfilled-deposit maps. mainnetBlock is the bundle-end mainnet block used
// for every HubPool lookup.
func (d *Dataworker) LoadBundleData(ctx context.Context, ranges map[uint64]types.BlockRange, mainnetBlock uint64) (*BundleData, error) {
	if err := d.checkLoaderPreconditions(ranges); err != nil {
		return nil, err
	}

	seenDeposits := make(map[types.DepositKey]bool)
	seenFirstFill := make(map[types.DepositKey]bool)
	firstFillInRange := make(map[types.DepositKey]bool)
	unfilled := make(map[types.DepositKey]*unfilledState)

	var deposits []types.DepositWithBlock
	var allValidFills []types.FillWithBlock
	invalidFillCount := 0

	fillsToRefund := make(types.FillsToRefund)

	for _, origin := range d.cfg.ChainIDs {
		originClient, err := d.spokePoolClient(origin)
		if err != nil {
			return nil, err
		}
		originRange := ranges[origin]

		for _, destination := range d.cfg.ChainIDs {
			if origin == destination {
				continue
			}
			destClient, err := d.spokePoolClient(destination)
			if err != nil {
				return nil, err
			}
			destRange := ranges[destination]

			for _, dep := range originClient.DepositsForDestinationChain(destination) {
				if !originRange.Contains(dep.OriginBlock) {
					continue
				}
				key := dep.Key()
				if seenDeposits[key] {
					continue
				}
				seenDeposits[key] = true
				deposits = append(deposits, dep)
			}

			fills := append([]types.FillWithBlock(nil), destClient.FillsForOriginChain(origin)...)
			sort.Slice(fills, func(i, j int) bool { return fills[i].Before(fills[j]) })

			for _, fill := range fills {
				depositRecord, found := originClient.DepositForFill(fill.Fill)
				if !found {
					invalidFillCount++
					continue
				}
				allValidFills = append(allValidFills, fill)

				key := fill.Key()
				isFirstFillEver := !seenFirstFill[key]
				if isFirstFillEver {
					seenFirstFill[key] = true
				}

				if !destRange.Contains(fill.Block) {
					continue
				}

				if isFirstFillEver {
					firstFillInRange[key] = true
				}

				chainToSendRefundTo, repaymentToken, err := d.resolveRefundDestination(fill, destination, mainnetBlock)
				if err != nil {
					return nil, fmt.Errorf("resolving refund destination for fill on chain %d: %w", destination, err)
				}

				lpFee := fill.RealizedLpFeePct.MulAmount(fill.FillAmount)
				fillsToRefund.GetOrCreate(chainToSendRefundTo, repaymentToken).Credit(fill.Fill, lpFee)

				updateUnfilled(unfilled, key, *depositRecord, fill, firstFillInRange[key])
			}
		}
	}

	if invalidFillCount > 0 {
		d.logger.Info().Int("count", invalidFillCount).Msg("invalid fills in range")
	}

	return &BundleData{
		FillsToRefund:    fillsToRefund,
		UnfilledDeposits: flattenUnfilled(unfilled),
		AllValidFills:    allValidFills,
		Deposits:         deposits,
	}, nil
}

func (d *Dataworker) checkLoaderPreconditions(ranges map[uint64]types.BlockRange) error {
	if !d.clients.HubPool.IsUpdated() {
		return &types.PreconditionError{Reason: "hub pool client is not updated"}
	}
	if !d.clients.ConfigStore.IsUpdated() {
		return &types.PreconditionError{Reason: "config store client is not updated"}
	}
	if len(ranges) != len(d.cfg.ChainIDs) {
		return &types.PreconditionError{Reason: "block range count does not match chain id list length"}
	}
	for _, chainID := range d.cfg.ChainIDs {
		sp, err := d.spokePoolClient(chainID)
		if err != nil {
			return err
		}
		if !sp.IsUpdated() {
			return &types.PreconditionError{Reason: fmt.Sprintf("spoke pool client for chain %d is not updated", chainID)}
		}
	}
	return nil
}

// resolveRefundDestination derives (chainToSendRefundTo, repaymentToken)
// per protocol rule: slow relays always refund on the deposit's destination
// chain in the destination token; other fills refund on their own
// repayment chain, in that chain's L2 counterpart of the destination token.
func (d *Dataworker) resolveRefundDestination(fill types.FillWithBlock, destinationChainID uint64, mainnetBlock uint64) (uint64, common.Address, error) {
	if fill.IsSlowRelay {
		return destinationChainID, fill.DestinationToken, nil
	}

	l1Token, err := d.clients.HubPool.GetL1TokenCounterpartAtBlock(destinationChainID, fill.DestinationToken, mainnetBlock)
	if err != nil {
		return 0, common.Address{}, err
	}

	repaymentToken, err := d.clients.HubPool.GetDestinationTokenForL1Token(l1Token, fill.RepaymentChainID)
	if err != nil {
		return 0, common.Address{}, err
	}

	return fill.RepaymentChainID, repaymentToken, nil
}

func updateUnfilled(tracker map[types.DepositKey]*unfilledState, key types.DepositKey, deposit types.DepositWithBlock, fill types.FillWithBlock, hasFirstFillInRange bool) {
	state, ok := tracker[key]
	if !ok {
		state = &unfilledState{deposit: deposit, maxTotalFilled: big.NewInt(0)}
		tracker[key] = state
	}
	if fill.TotalFilledAmount.Cmp(state.maxTotalFilled) > 0 {
		state.maxTotalFilled = new(big.Int).Set(fill.TotalFilledAmount)
	}
	if hasFirstFillInRange {
		state.hasFirstFillInRange = true
	}
}

func flattenUnfilled(tracker map[types.DepositKey]*unfilledState) []types.UnfilledDeposit {
	result := make([]types.UnfilledDeposit, 0, len(tracker))
	for _, s := range tracker {
		unfilledAmount := new(big.Int).Sub(s.deposit.Amount, s.maxTotalFilled)
		if unfilledAmount.Sign() <= 0 {
			continue
		}
		result = append(result, types.UnfilledDeposit{
			Deposit:             s.deposit.Deposit,
			UnfilledAmount:      unfilledAmount,
			HasFirstFillInRange: s.hasFirstFillInRange,
		})
	}
	return result
}
