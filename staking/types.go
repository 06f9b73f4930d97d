// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/epochstake/types"
)

// Stake is the lock of a single participant.
type Stake struct {
	LockAmount   *big.Int // principal locked
	StartTime    uint64   // epoch aligned time the lock becomes active
	LockDuration uint64   // whole epochs, in seconds
	Reward       *big.Int // accrued, not yet paid out
}

func newEmptyStake() *Stake {
	return &Stake{
		LockAmount: new(big.Int),
		Reward:     new(big.Int),
	}
}

// IsEmpty returns whether the entry can be treated as empty.
func (s *Stake) IsEmpty() bool {
	return (s.LockAmount == nil || s.LockAmount.Sign() == 0) && s.StartTime == 0
}

// EndTime returns the time the lock ends. Withdrawal is allowed strictly after it.
func (s *Stake) EndTime() uint64 {
	return s.StartTime + s.LockDuration
}

func (s *Stake) clone() *Stake {
	return &Stake{
		LockAmount:   new(big.Int).Set(s.LockAmount),
		StartTime:    s.StartTime,
		LockDuration: s.LockDuration,
		Reward:       new(big.Int).Set(s.Reward),
	}
}

// StakeKind tells a new lock apart from a top-up.
type StakeKind string

const (
	KindCreated  StakeKind = "created"
	KindToppedUp StakeKind = "topped-up"
)

// Staked is the receipt of a successful Stake call.
type Staked struct {
	Participant types.Address
	Kind        StakeKind
	Amount      *big.Int // amount added by this call
	Reward      *big.Int // reward accrued by this call
	Epochs      uint64   // epochs the reward was accrued for
	Stake       *Stake   // entry after the call
}

func (*Staked) EventName() string { return "staked" }

// Unstaked is the receipt of a successful Unstake call.
type Unstaked struct {
	Participant types.Address
	Principal   *big.Int
	Reward      *big.Int // reward paid; zero on emergency withdrawal
	Payout      *big.Int
	Emergency   bool // principal only exit while paused
}

func (*Unstaked) EventName() string { return "unstaked" }
