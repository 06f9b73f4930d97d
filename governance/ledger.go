// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governance implements the once per epoch governance reward grant
// and claim cycle.
package governance

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/epochstake/balances"
	"github.com/vechain/epochstake/epoch"
	"github.com/vechain/epochstake/log"
	"github.com/vechain/epochstake/params"
	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/reward"
	"github.com/vechain/epochstake/types"
)

var logger = log.WithContext("pkg", "governance")

// Ledger keeps one Governor per participant. The grant and claim gates are
// tracked separately.
type Ledger struct {
	params    *params.Governance
	oracle    balances.Oracle
	strategy  reward.Strategy
	governors map[types.Address]*Governor
}

// New creates a governance ledger. A nil strategy defaults to reward.Dampened.
func New(params *params.Governance, oracle balances.Oracle, strategy reward.Strategy) *Ledger {
	if strategy == nil {
		strategy = reward.NewDampened()
	}
	return &Ledger{
		params:    params,
		oracle:    oracle,
		strategy:  strategy,
		governors: make(map[types.Address]*Governor),
	}
}

//
// Getters - no state change
//

func (l *Ledger) Params() *params.Governance {
	return l.params
}

// Get returns a copy of the participant's record, or an empty record.
func (l *Ledger) Get(participant types.Address) *Governor {
	g, ok := l.governors[participant]
	if !ok {
		return newEmptyGovernor()
	}
	return g.clone()
}

// Count returns the number of registered participants.
func (l *Ledger) Count() int {
	return len(l.governors)
}

// Pending returns the sum of unclaimed rewards.
func (l *Ledger) Pending() *big.Int {
	sum := new(big.Int)
	for _, g := range l.governors {
		sum.Add(sum, g.Reward)
	}
	return sum
}

//
// Setters - state change
//

// AddReward registers participant on the first call. Afterwards it grants at
// most once per epoch length, sized from the participant's staking and
// reputation balances. now must be non-zero, zero marks an unregistered
// governor, so it fails with ErrInvalidTime.
func (l *Ledger) AddReward(now uint64, participant types.Address) (*Granted, error) {
	logger.Debug("adding governance reward", "participant", participant, "now", now)

	if l.params.EmergencyPause() {
		return nil, reverts.ErrPaused
	}
	if now == 0 {
		return nil, reverts.ErrInvalidTime
	}

	entry, ok := l.governors[participant]
	if !ok {
		entry = &Governor{
			InitTime:       now,
			LastRewardTime: now,
			Reward:         new(big.Int),
		}
		l.governors[participant] = entry
		logger.Info("governor registered", "participant", participant)
		return &Granted{
			Participant:       participant,
			Kind:              KindRegistered,
			StakingBalance:    new(big.Int),
			ReputationBalance: new(big.Int),
			Reward:            new(big.Int),
			Governor:          entry.clone(),
		}, nil
	}

	if elapsed(now, entry.LastRewardTime) < epoch.Length {
		return nil, errors.WithMessagef(reverts.ErrEpochNotElapsed, "last reward at %d", entry.LastRewardTime)
	}

	stakingBalance := l.oracle.BalanceOf(participant, l.params.StakingToken())
	reputationBalance := l.oracle.BalanceOf(participant, l.params.ReputationToken())
	granted, err := l.strategy.Accrue(reward.Input{
		Amount:     stakingBalance,
		Reputation: reputationBalance,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "%s reward", l.strategy.Name())
	}

	switch l.params.Accumulation() {
	case params.Accumulate:
		entry.Reward.Add(entry.Reward, granted)
	default:
		entry.Reward.Set(granted)
	}
	entry.LastRewardTime = now

	logger.Info("governance reward granted", "participant", participant, "reward", granted, "pending", entry.Reward)
	return &Granted{
		Participant:       participant,
		Kind:              KindGranted,
		StakingBalance:    stakingBalance,
		ReputationBalance: reputationBalance,
		Reward:            granted,
		Governor:          entry.clone(),
	}, nil
}

// ClaimReward pays out the pending reward of participant, at most once per
// epoch length.
func (l *Ledger) ClaimReward(now uint64, participant types.Address) (*Claimed, error) {
	logger.Debug("claiming governance reward", "participant", participant, "now", now)

	if l.params.EmergencyPause() {
		return nil, reverts.ErrPaused
	}
	entry, ok := l.governors[participant]
	if !ok {
		return nil, reverts.ErrNotFound
	}
	if elapsed(now, entry.LastClaimTime) < epoch.Length {
		return nil, errors.WithMessagef(reverts.ErrEpochNotElapsed, "last claim at %d", entry.LastClaimTime)
	}
	if entry.Reward.Sign() <= 0 {
		return nil, reverts.ErrNothingToClaim
	}

	amount := new(big.Int).Set(entry.Reward)
	entry.Reward.SetInt64(0)
	entry.LastClaimTime = now

	logger.Info("governance reward claimed", "participant", participant, "amount", amount)
	return &Claimed{Participant: participant, Amount: amount}, nil
}

// elapsed returns now - since, or zero when the clock is behind since.
func elapsed(now, since uint64) uint64 {
	if now < since {
		return 0
	}
	return now - since
}

// SetEmergencyPause pauses or resumes both gates. It reports whether the flag changed.
func (l *Ledger) SetEmergencyPause(pause bool) bool {
	changed := l.params.SetEmergencyPause(pause)
	if changed {
		logger.Warn("governance emergency pause set", "pause", pause)
	}
	return changed
}

func (l *Ledger) SetStakingToken(token types.Address) error {
	if err := l.params.SetStakingToken(token); err != nil {
		return err
	}
	logger.Info("staking token set", "token", token)
	return nil
}

func (l *Ledger) SetReputationToken(token types.Address) error {
	if err := l.params.SetReputationToken(token); err != nil {
		return err
	}
	logger.Info("reputation token set", "token", token)
	return nil
}

func (l *Ledger) SetGovernanceToken(token types.Address) error {
	if err := l.params.SetGovernanceToken(token); err != nil {
		return err
	}
	logger.Info("governance token set", "token", token)
	return nil
}
