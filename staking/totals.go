// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
)

// totals tracks ledger-wide sums of principal and pending reward.
type totals struct {
	locked  *big.Int
	rewards *big.Int
}

func newTotals() *totals {
	return &totals{
		locked:  new(big.Int),
		rewards: new(big.Int),
	}
}

// add increases totals when principal is locked.
func (t *totals) add(amount, reward *big.Int) {
	t.locked.Add(t.locked, amount)
	t.rewards.Add(t.rewards, reward)
}

// remove decreases totals when an entry is withdrawn.
func (t *totals) remove(amount, reward *big.Int) {
	t.locked.Sub(t.locked, amount)
	t.rewards.Sub(t.rewards, reward)
}

func (t *totals) get() (*big.Int, *big.Int) {
	return new(big.Int).Set(t.locked), new(big.Int).Set(t.rewards)
}
