// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the epoch aligned staking ledger.
//
// A Ledger has a single writer. Every operation takes the current time from
// the caller, validates completely, then mutates.
package staking

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vechain/epochstake/epoch"
	"github.com/vechain/epochstake/log"
	"github.com/vechain/epochstake/params"
	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/reward"
	"github.com/vechain/epochstake/types"
)

var logger = log.WithContext("pkg", "staking")

// Ledger implements the staking rules over an in-memory table.
type Ledger struct {
	params   *params.Staking
	strategy reward.Strategy
	stakes   map[types.Address]*Stake
	totals   *totals
}

// New creates a ledger. A nil strategy defaults to reward.Linear.
func New(params *params.Staking, strategy reward.Strategy) *Ledger {
	if strategy == nil {
		strategy = reward.Linear{}
	}
	return &Ledger{
		params:   params,
		strategy: strategy,
		stakes:   make(map[types.Address]*Stake),
		totals:   newTotals(),
	}
}

//
// Getters - no state change
//

// Params returns the ledger parameters.
func (l *Ledger) Params() *params.Staking {
	return l.params
}

// Get returns a copy of the participant's stake, or an empty stake.
func (l *Ledger) Get(participant types.Address) *Stake {
	s, ok := l.stakes[participant]
	if !ok {
		return newEmptyStake()
	}
	return s.clone()
}

// BalanceOf returns the locked principal of participant.
func (l *Ledger) BalanceOf(participant types.Address) *big.Int {
	return l.Get(participant).LockAmount
}

// Totals returns the principal locked and the reward pending across all stakes.
func (l *Ledger) Totals() (*big.Int, *big.Int) {
	return l.totals.get()
}

// Count returns the number of stakes.
func (l *Ledger) Count() int {
	return len(l.stakes)
}

//
// Setters - state change
//

// Stake locks amount for duration seconds, or tops up an existing lock.
func (l *Ledger) Stake(now uint64, participant types.Address, amount *big.Int, duration uint64) (*Staked, error) {
	logger.Debug("staking", "participant", participant, "amount", amount, "duration", duration, "now", now)

	if err := l.validateStake(amount, duration); err != nil {
		logger.Info("stake rejected", "participant", participant, "error", err)
		return nil, err
	}

	var (
		ev  *Staked
		err error
	)
	if existing, ok := l.stakes[participant]; ok {
		ev, err = l.topUp(now, participant, existing, amount)
	} else {
		ev, err = l.create(now, participant, amount, duration)
	}
	if err != nil {
		logger.Info("stake rejected", "participant", participant, "error", err)
		return nil, err
	}

	logger.Info("staked", "participant", participant, "kind", ev.Kind, "amount", amount, "reward", ev.Reward, "epochs", ev.Epochs)
	return ev, nil
}

func (l *Ledger) validateStake(amount *big.Int, duration uint64) error {
	if l.params.EmergencyPause() {
		return reverts.ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.WithMessage(reverts.ErrInvalidAmount, "lock amount must be positive")
	}
	if amount.Cmp(l.params.MaxLockAmount()) > 0 {
		return errors.WithMessagef(reverts.ErrInvalidAmount, "lock amount exceeds %s", l.params.MaxLockAmount())
	}
	if duration < epoch.Length {
		return errors.WithMessage(reverts.ErrInvalidDuration, "lock duration must be at least 1 epoch")
	}
	// duration > MaxLockEpochs * Length, without overflowing
	epochs, max := epoch.Count(duration), l.params.MaxLockEpochs()
	if epochs > max || (epochs == max && duration%epoch.Length != 0) {
		return errors.WithMessagef(reverts.ErrInvalidDuration, "lock duration exceeds %d epochs", l.params.MaxLockEpochs())
	}
	return nil
}

func (l *Ledger) create(now uint64, participant types.Address, amount *big.Int, duration uint64) (*Staked, error) {
	start, err := epoch.NextStart(now)
	if err != nil {
		return nil, err
	}
	epochs := epoch.Count(duration)
	accrued, err := l.accrue(amount, epochs)
	if err != nil {
		return nil, err
	}

	entry := &Stake{
		LockAmount:   new(big.Int).Set(amount),
		StartTime:    start,
		LockDuration: epochs * epoch.Length,
		Reward:       accrued,
	}
	l.stakes[participant] = entry
	l.totals.add(amount, accrued)

	return &Staked{
		Participant: participant,
		Kind:        KindCreated,
		Amount:      new(big.Int).Set(amount),
		Reward:      new(big.Int).Set(accrued),
		Epochs:      epochs,
		Stake:       entry.clone(),
	}, nil
}

// topUp adds to a running lock. The lock period is kept, so the added amount
// only earns for the whole epochs left.
func (l *Ledger) topUp(now uint64, participant types.Address, entry *Stake, amount *big.Int) (*Staked, error) {
	end := entry.EndTime()
	if now >= end || end-now <= epoch.Length {
		return nil, reverts.ErrStakeEnded
	}
	remaining := end - now
	if remaining > entry.LockDuration+epoch.Length {
		return nil, errors.WithMessagef(reverts.ErrInvalidRemainingTime, "remaining %d exceeds lock duration %d", remaining, entry.LockDuration)
	}

	epochs := epoch.Count(remaining)
	accrued, err := l.accrue(amount, epochs)
	if err != nil {
		return nil, err
	}

	entry.LockAmount.Add(entry.LockAmount, amount)
	entry.Reward.Add(entry.Reward, accrued)
	l.totals.add(amount, accrued)

	return &Staked{
		Participant: participant,
		Kind:        KindToppedUp,
		Amount:      new(big.Int).Set(amount),
		Reward:      new(big.Int).Set(accrued),
		Epochs:      epochs,
		Stake:       entry.clone(),
	}, nil
}

func (l *Ledger) accrue(amount *big.Int, epochs uint64) (*big.Int, error) {
	accrued, err := l.strategy.Accrue(reward.Input{
		Amount: amount,
		Epochs: epochs,
		Rate:   l.params.RewardRate(),
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "%s reward", l.strategy.Name())
	}
	return accrued, nil
}

// Unstake withdraws the whole stake of participant once its lock has ended.
// While paused with emergency withdrawal enabled, the principal is returned
// immediately and the reward is forfeited.
func (l *Ledger) Unstake(now uint64, participant types.Address) (*Unstaked, error) {
	logger.Debug("unstaking", "participant", participant, "now", now)

	paused, withdraw := l.params.EmergencyPause(), l.params.EmergencyWithdraw()
	if paused && !withdraw {
		return nil, reverts.ErrPaused
	}

	entry, ok := l.stakes[participant]
	if !ok {
		return nil, reverts.ErrNotFound
	}

	if paused && withdraw {
		l.remove(participant, entry)
		logger.Info("emergency withdrawal", "participant", participant, "principal", entry.LockAmount, "forfeited", entry.Reward)
		return &Unstaked{
			Participant: participant,
			Principal:   entry.LockAmount,
			Reward:      new(big.Int),
			Payout:      new(big.Int).Set(entry.LockAmount),
			Emergency:   true,
		}, nil
	}

	if now <= entry.EndTime() {
		logger.Info("unstake rejected", "participant", participant, "end", entry.EndTime())
		return nil, errors.WithMessagef(reverts.ErrLockActive, "lock ends at %d", entry.EndTime())
	}

	payout := new(big.Int).Add(entry.LockAmount, entry.Reward)
	ceiling := new(big.Int).Mul(entry.LockAmount, new(big.Int).SetUint64(l.params.WithdrawMultiplier()))
	if payout.Cmp(ceiling) > 0 {
		logger.Warn("payout capped", "participant", participant, "payout", payout, "ceiling", ceiling)
		payout = ceiling
	}
	l.remove(participant, entry)

	logger.Info("unstaked", "participant", participant, "payout", payout)
	return &Unstaked{
		Participant: participant,
		Principal:   entry.LockAmount,
		Reward:      new(big.Int).Sub(payout, entry.LockAmount),
		Payout:      payout,
	}, nil
}

func (l *Ledger) remove(participant types.Address, entry *Stake) {
	delete(l.stakes, participant)
	l.totals.remove(entry.LockAmount, entry.Reward)
}

// SetRewardRate changes the rate used by subsequent stakes.
func (l *Ledger) SetRewardRate(rate decimal.Decimal) error {
	if err := l.params.SetRewardRate(rate); err != nil {
		logger.Info("set reward rate rejected", "rate", rate, "error", err)
		return err
	}
	logger.Info("reward rate set", "rate", rate)
	return nil
}

// SetEmergencyPause pauses or resumes staking. It reports whether the flag changed.
func (l *Ledger) SetEmergencyPause(pause bool) bool {
	changed := l.params.SetEmergencyPause(pause)
	if changed {
		logger.Warn("emergency pause set", "pause", pause)
	}
	return changed
}

// SetEmergencyWithdraw allows principal only exits while paused. It reports whether the flag changed.
func (l *Ledger) SetEmergencyWithdraw(withdraw bool) bool {
	changed := l.params.SetEmergencyWithdraw(withdraw)
	if changed {
		logger.Warn("emergency withdraw set", "withdraw", withdraw)
	}
	return changed
}
