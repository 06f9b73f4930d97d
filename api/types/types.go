// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package types holds the JSON shapes of the API. Amounts are encoded as hex
// and accepted as hex or decimal.
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/epochstake/engine"
	"github.com/vechain/epochstake/epoch"
	"github.com/vechain/epochstake/governance"
	"github.com/vechain/epochstake/staking"
	"github.com/vechain/epochstake/types"
)

func amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

type Clock struct {
	Now            uint64 `json:"now"`
	Epoch          uint64 `json:"epoch"`
	EpochStart     uint64 `json:"epochStart"`
	NextEpochStart uint64 `json:"nextEpochStart"`
}

func ConvertClock(now uint64) *Clock {
	c := &Clock{Now: now, Epoch: epoch.Index(now), EpochStart: epoch.Start(now)}
	if next, err := epoch.NextStart(now); err == nil {
		c.NextEpochStart = next
	}
	return c
}

// ClockRequest moves a manual clock. Exactly one field is set.
type ClockRequest struct {
	Advance *uint64 `json:"advance,omitempty"`
	Set     *uint64 `json:"set,omitempty"`
}

type Stake struct {
	LockAmount   *math.HexOrDecimal256 `json:"lockAmount"`
	StartTime    uint64                `json:"startTime"`
	LockDuration uint64                `json:"lockDuration"`
	EndTime      uint64                `json:"endTime"`
	Reward       *math.HexOrDecimal256 `json:"reward"`
}

func ConvertStake(s *staking.Stake) *Stake {
	out := &Stake{
		LockAmount:   amount(s.LockAmount),
		StartTime:    s.StartTime,
		LockDuration: s.LockDuration,
		Reward:       amount(s.Reward),
	}
	if !s.IsEmpty() {
		out.EndTime = s.EndTime()
	}
	return out
}

type StakeRequest struct {
	Amount   *math.HexOrDecimal256 `json:"amount"`
	Duration uint64                `json:"duration"`
}

type Totals struct {
	Locked  *math.HexOrDecimal256 `json:"locked"`
	Rewards *math.HexOrDecimal256 `json:"rewards"`
	Count   int                   `json:"count"`
}

func ConvertTotals(locked, rewards *big.Int, count int) *Totals {
	return &Totals{Locked: amount(locked), Rewards: amount(rewards), Count: count}
}

type Staked struct {
	Participant types.Address         `json:"participant"`
	Kind        string                `json:"kind"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	Reward      *math.HexOrDecimal256 `json:"reward"`
	Epochs      uint64                `json:"epochs"`
	Stake       *Stake                `json:"stake"`
}

func ConvertStaked(ev *staking.Staked) *Staked {
	return &Staked{
		Participant: ev.Participant,
		Kind:        string(ev.Kind),
		Amount:      amount(ev.Amount),
		Reward:      amount(ev.Reward),
		Epochs:      ev.Epochs,
		Stake:       ConvertStake(ev.Stake),
	}
}

type Unstaked struct {
	Participant types.Address         `json:"participant"`
	Principal   *math.HexOrDecimal256 `json:"principal"`
	Reward      *math.HexOrDecimal256 `json:"reward"`
	Payout      *math.HexOrDecimal256 `json:"payout"`
	Emergency   bool                  `json:"emergency"`
}

func ConvertUnstaked(ev *staking.Unstaked) *Unstaked {
	return &Unstaked{
		Participant: ev.Participant,
		Principal:   amount(ev.Principal),
		Reward:      amount(ev.Reward),
		Payout:      amount(ev.Payout),
		Emergency:   ev.Emergency,
	}
}

type Governor struct {
	InitTime       uint64                `json:"initTime"`
	LastRewardTime uint64                `json:"lastRewardTime"`
	LastClaimTime  uint64                `json:"lastClaimTime"`
	Reward         *math.HexOrDecimal256 `json:"reward"`
}

func ConvertGovernor(g *governance.Governor) *Governor {
	return &Governor{
		InitTime:       g.InitTime,
		LastRewardTime: g.LastRewardTime,
		LastClaimTime:  g.LastClaimTime,
		Reward:         amount(g.Reward),
	}
}

type Granted struct {
	Participant       types.Address         `json:"participant"`
	Kind              string                `json:"kind"`
	StakingBalance    *math.HexOrDecimal256 `json:"stakingBalance"`
	ReputationBalance *math.HexOrDecimal256 `json:"reputationBalance"`
	Reward            *math.HexOrDecimal256 `json:"reward"`
	Governor          *Governor             `json:"governor"`
}

func ConvertGranted(ev *governance.Granted) *Granted {
	return &Granted{
		Participant:       ev.Participant,
		Kind:              string(ev.Kind),
		StakingBalance:    amount(ev.StakingBalance),
		ReputationBalance: amount(ev.ReputationBalance),
		Reward:            amount(ev.Reward),
		Governor:          ConvertGovernor(ev.Governor),
	}
}

type Claimed struct {
	Participant types.Address         `json:"participant"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
}

func ConvertClaimed(ev *governance.Claimed) *Claimed {
	return &Claimed{Participant: ev.Participant, Amount: amount(ev.Amount)}
}

type ConfigChanged struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Settings struct {
	Staking struct {
		RewardRate         string                `json:"rewardRate"`
		MaxRewardRate      string                `json:"maxRewardRate"`
		MaxLockAmount      *math.HexOrDecimal256 `json:"maxLockAmount"`
		MaxLockEpochs      uint64                `json:"maxLockEpochs"`
		WithdrawMultiplier uint64                `json:"withdrawMultiplier"`
		UtilityToken       types.Address         `json:"utilityToken"`
		EmergencyPause     bool                  `json:"emergencyPause"`
		EmergencyWithdraw  bool                  `json:"emergencyWithdraw"`
	} `json:"staking"`
	Governance struct {
		GovernanceToken types.Address `json:"governanceToken"`
		StakingToken    types.Address `json:"stakingToken"`
		ReputationToken types.Address `json:"reputationToken"`
		Accumulation    string        `json:"accumulation"`
		EmergencyPause  bool          `json:"emergencyPause"`
	} `json:"governance"`
	EpochLength uint64 `json:"epochLength"`
}

func ConvertSettings(s *engine.Settings) *Settings {
	out := &Settings{EpochLength: epoch.Length}
	out.Staking.RewardRate = s.RewardRate.String()
	out.Staking.MaxRewardRate = s.MaxRewardRate.String()
	out.Staking.MaxLockAmount = amount(s.MaxLockAmount)
	out.Staking.MaxLockEpochs = s.MaxLockEpochs
	out.Staking.WithdrawMultiplier = s.WithdrawMultiplier
	out.Staking.UtilityToken = s.UtilityToken
	out.Staking.EmergencyPause = s.StakingPaused
	out.Staking.EmergencyWithdraw = s.EmergencyWithdraw
	out.Governance.GovernanceToken = s.GovernanceToken
	out.Governance.StakingToken = s.StakingToken
	out.Governance.ReputationToken = s.ReputationToken
	out.Governance.Accumulation = string(s.Accumulation)
	out.Governance.EmergencyPause = s.GovernancePaused
	return out
}

// StakingSettingsRequest changes the staking ledger. Unset fields are left alone.
type StakingSettingsRequest struct {
	RewardRate   *string        `json:"rewardRate,omitempty"`
	Pause        *bool          `json:"pause,omitempty"`
	Withdraw     *bool          `json:"withdraw,omitempty"`
	UtilityToken *types.Address `json:"utilityToken,omitempty"`
}

// GovernanceSettingsRequest changes the governance ledger. Unset fields are left alone.
type GovernanceSettingsRequest struct {
	Pause           *bool          `json:"pause,omitempty"`
	GovernanceToken *types.Address `json:"governanceToken,omitempty"`
	StakingToken    *types.Address `json:"stakingToken,omitempty"`
	ReputationToken *types.Address `json:"reputationToken,omitempty"`
}

// Event is a published record with its receipt.
type Event struct {
	Seq  uint64 `json:"seq"`
	Time uint64 `json:"time"`
	Name string `json:"name"`
	Data any    `json:"data"`
}

func ConvertEvent(rec *engine.Record) *Event {
	out := &Event{Seq: rec.Seq, Time: rec.Time, Name: rec.Name}
	switch ev := rec.Event.(type) {
	case *staking.Staked:
		out.Data = ConvertStaked(ev)
	case *staking.Unstaked:
		out.Data = ConvertUnstaked(ev)
	case *governance.Granted:
		out.Data = ConvertGranted(ev)
	case *governance.Claimed:
		out.Data = ConvertClaimed(ev)
	case *engine.ConfigChanged:
		out.Data = &ConfigChanged{Key: ev.Key, Value: ev.Value}
	}
	return out
}
