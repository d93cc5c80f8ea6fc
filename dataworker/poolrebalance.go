package dataworker

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/across-protocol/dataworker/merkletree"
	"github.com/across-protocol/dataworker/types"
)

// PoolRebalanceResult bundles the pool rebalance root builder's leaves,
// tree, and the net-send-amount map the relayer refund root builder
// borrows from it (see design notes on the C3/C4 dependency).
type PoolRebalanceResult struct {
	Leaves         []types.PoolRebalanceLeaf
	Tree           *merkletree.Tree[types.PoolRebalanceLeaf]
	NetSendAmounts types.RunningBalances // chainId -> l1Token -> netSendAmount
}

// BuildPoolRebalanceRoot initializes running balances from refund credits
// and LP fees, applies the slow-fill excess correction, subtracts in-range
// deposit outflow, and emits one leaf per L1 token group per chain.
func (d *Dataworker) BuildPoolRebalanceRoot(data *BundleData, mainnetBlock uint64) (*PoolRebalanceResult, error) {
	runningBalances := make(types.RunningBalances)
	realizedLpFees := make(types.RealizedLpFees)

	if err := d.initializeFromRefunds(data.FillsToRefund, runningBalances, realizedLpFees, mainnetBlock); err != nil {
		return nil, err
	}
	if err := d.applySlowFillExcessCorrection(data.AllValidFills, runningBalances, mainnetBlock); err != nil {
		return nil, err
	}
	if err := d.applyDepositOutflow(data.Deposits, runningBalances); err != nil {
		return nil, err
	}

	leaves, netSendAmounts, err := d.emitPoolRebalanceLeaves(runningBalances, realizedLpFees, mainnetBlock)
	if err != nil {
		return nil, err
	}

	tree, err := merkletree.BuildPoolRebalanceLeafTree(leaves)
	if err != nil {
		return nil, err
	}

	return &PoolRebalanceResult{Leaves: leaves, Tree: tree, NetSendAmounts: netSendAmounts}, nil
}

func (d *Dataworker) initializeFromRefunds(fillsToRefund types.FillsToRefund, runningBalances types.RunningBalances, realizedLpFees types.RealizedLpFees, mainnetBlock uint64) error {
	for chainID, byToken := range fillsToRefund {
		for l2Token, refund := range byToken {
			l1Token, err := d.clients.HubPool.GetL1TokenCounterpartAtBlock(chainID, l2Token, mainnetBlock)
			if err != nil {
				return fmt.Errorf("resolving l1 token for chain %d token %s: %w", chainID, l2Token.Hex(), err)
			}
			runningBalances.Add(chainID, l1Token, refund.TotalRefundAmount)
			realizedLpFees.Add(chainID, l1Token, refund.RealizedLpFees)
		}
	}
	return nil
}

// applySlowFillExcessCorrection resolves Open Question (a): for every
// deposit with a recorded slow-relay fill whose earliest-ever fill was a
// normal (non-slow) fill, pool liquidity already sent to cover a slow fill
// may be in excess of what relayers actually needed once faster fills are
// accounted for. The excess is the gap between the deposit amount and the
// highest totalFilledAmount any non-slow fill reported.
func (d *Dataworker) applySlowFillExcessCorrection(allValidFills []types.FillWithBlock, runningBalances types.RunningBalances, mainnetBlock uint64) error {
	byDeposit := make(map[types.DepositKey][]types.FillWithBlock)
	for _, f := range allValidFills {
		byDeposit[f.Key()] = append(byDeposit[f.Key()], f)
	}

	for key, fills := range byDeposit {
		_ = key
		sort.Slice(fills, func(i, j int) bool { return fills[i].Before(fills[j]) })

		hasSlowFill := false
		maxNonSlowTotalFilled := big.NewInt(0)
		for _, f := range fills {
			if f.IsSlowRelay {
				hasSlowFill = true
				continue
			}
			if f.TotalFilledAmount.Cmp(maxNonSlowTotalFilled) > 0 {
				maxNonSlowTotalFilled = f.TotalFilledAmount
			}
		}
		if !hasSlowFill || fills[0].IsSlowRelay || maxNonSlowTotalFilled.Sign() == 0 {
			continue
		}

		deposit := fills[0].Deposit
		excess := new(big.Int).Sub(deposit.Amount, maxNonSlowTotalFilled)
		if excess.Sign() <= 0 {
			continue
		}

		l1Token, err := d.clients.HubPool.GetL1TokenCounterpartAtBlock(deposit.DestinationChainID, deposit.DestinationToken, mainnetBlock)
		if err != nil {
			return fmt.Errorf("resolving l1 token for slow fill excess correction: %w", err)
		}
		runningBalances.Add(deposit.DestinationChainID, l1Token, new(big.Int).Neg(excess))
	}
	return nil
}

func (d *Dataworker) applyDepositOutflow(deposits []types.DepositWithBlock, runningBalances types.RunningBalances) error {
	for _, dep := range deposits {
		// Quote-block resolution should use the deposit's quoteTimestamp
		// block, not the bundle-end block, because deposit fees were
		// priced at quote time. This module has no timestamp-to-block
		// oracle in scope, so the deposit's own origin block - the closest
		// concrete block coordinate available - stands in for it; see
		// DESIGN.md.
		quoteBlock := dep.OriginBlock

		l1Token, err := d.clients.HubPool.GetL1TokenCounterpartAtBlock(dep.DestinationChainID, dep.DestinationToken, quoteBlock)
		if err != nil {
			return fmt.Errorf("resolving l1 token for deposit outflow: %w", err)
		}
		runningBalances.Add(dep.OriginChainID, l1Token, new(big.Int).Neg(dep.Amount))
	}
	return nil
}

func (d *Dataworker) emitPoolRebalanceLeaves(runningBalances types.RunningBalances, realizedLpFees types.RealizedLpFees, mainnetBlock uint64) ([]types.PoolRebalanceLeaf, types.RunningBalances, error) {
	var leaves []types.PoolRebalanceLeaf
	netSendAmounts := make(types.RunningBalances)
	var leafID uint32

	for _, chainID := range d.cfg.ChainIDs {
		tokens := unionTokens(runningBalances.Tokens(chainID), tokensFromFees(realizedLpFees, chainID))
		if len(tokens) == 0 {
			continue
		}
		sortAddresses(tokens)

		maxCount := int(d.maxL1TokenCount())
		if maxCount <= 0 {
			maxCount = len(tokens)
		}

		var groupIndex uint32
		for start := 0; start < len(tokens); start += maxCount {
			end := start + maxCount
			if end > len(tokens) {
				end = len(tokens)
			}
			group := tokens[start:end]

			leaf := types.PoolRebalanceLeaf{
				ChainID:    chainID,
				GroupIndex: groupIndex,
				L1Tokens:   group,
			}
			for _, token := range group {
				balance := runningBalances.Get(chainID, token)
				threshold, err := d.transferThreshold(token, mainnetBlock)
				if err != nil {
					return nil, nil, fmt.Errorf("resolving transfer threshold for %s: %w", token.Hex(), err)
				}

				netSend, carry := applyTransferThreshold(balance, threshold)
				leaf.NetSendAmounts = append(leaf.NetSendAmounts, netSend)
				leaf.RunningBalances = append(leaf.RunningBalances, carry)
				leaf.BundleLpFees = append(leaf.BundleLpFees, feesOrZero(realizedLpFees, chainID, token))

				netSendAmounts.Add(chainID, token, netSend)
			}

			leaf.LeafID = leafID
			leafID++
			leaves = append(leaves, leaf)
			groupIndex++
		}
	}

	return leaves, netSendAmounts, nil
}

// applyTransferThreshold returns (netSendAmount, carryForwardBalance): if
// the absolute running balance meets the threshold, the full balance is
// sent and nothing carries forward; otherwise nothing is sent and the full
// balance carries forward.
func applyTransferThreshold(balance, threshold *big.Int) (*big.Int, *big.Int) {
	if threshold == nil {
		threshold = big.NewInt(0)
	}
	abs := new(big.Int).Abs(balance)
	if abs.Cmp(threshold) >= 0 {
		return new(big.Int).Set(balance), big.NewInt(0)
	}
	return big.NewInt(0), new(big.Int).Set(balance)
}

func feesOrZero(fees types.RealizedLpFees, chainID uint64, token common.Address) *big.Int {
	byToken, ok := fees[chainID]
	if !ok {
		return big.NewInt(0)
	}
	v, ok := byToken[token]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func tokensFromFees(fees types.RealizedLpFees, chainID uint64) []common.Address {
	byToken, ok := fees[chainID]
	if !ok {
		return nil
	}
	tokens := make([]common.Address, 0, len(byToken))
	for token := range byToken {
		tokens = append(tokens, token)
	}
	return tokens
}

func unionTokens(a, b []common.Address) []common.Address {
	seen := make(map[common.Address]bool, len(a)+len(b))
	var out []common.Address
	for _, t := range append(append([]common.Address{}, a...), b...) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func sortAddresses(addrs []common.Address) {
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Hex() < addrs[j].Hex()
	})
}
