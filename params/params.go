// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package params holds the owner-settable parameters of the ledgers.
// Callers are expected to have authorised the owner before calling a setter.
package params

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/types"
)

// Defaults of the staking policy.
var (
	InitialRewardRate         = decimal.RequireFromString("0.1")                     // 10% per epoch
	InitialMaxRewardRate      = decimal.RequireFromString("0.1")                     // 10% per epoch
	InitialMaxLockAmount      = new(big.Int).Mul(big.NewInt(1e7), big.NewInt(1e18)) // 1e7 tokens of 18 decimals
	InitialMaxLockEpochs      = uint64(52)                                           // ~1 year
	InitialWithdrawMultiplier = uint64(3)                                            // payout cap, x lock amount
)

// Policy is the construction time configuration of a staking ledger.
type Policy struct {
	RewardRate         decimal.Decimal
	MaxRewardRate      decimal.Decimal
	MaxLockAmount      *big.Int
	MaxLockEpochs      uint64
	WithdrawMultiplier uint64
	UtilityToken       types.Address
}

// DefaultPolicy returns the policy of the reference deployment.
func DefaultPolicy() Policy {
	return Policy{
		RewardRate:         InitialRewardRate,
		MaxRewardRate:      InitialMaxRewardRate,
		MaxLockAmount:      new(big.Int).Set(InitialMaxLockAmount),
		MaxLockEpochs:      InitialMaxLockEpochs,
		WithdrawMultiplier: InitialWithdrawMultiplier,
	}
}

// Validate checks the policy bounds.
func (p Policy) Validate() error {
	if p.MaxRewardRate.IsNegative() {
		return errors.WithMessage(reverts.ErrInvalidConfig, "max reward rate must be non-negative")
	}
	if p.RewardRate.IsNegative() || p.RewardRate.GreaterThan(p.MaxRewardRate) {
		return errors.WithMessagef(reverts.ErrInvalidConfig, "reward rate %s out of [0, %s]", p.RewardRate, p.MaxRewardRate)
	}
	if p.MaxLockAmount == nil || p.MaxLockAmount.Sign() <= 0 {
		return errors.WithMessage(reverts.ErrInvalidConfig, "max lock amount must be positive")
	}
	if p.MaxLockEpochs == 0 {
		return errors.WithMessage(reverts.ErrInvalidConfig, "max lock epochs must be positive")
	}
	if p.WithdrawMultiplier == 0 {
		return errors.WithMessage(reverts.ErrInvalidConfig, "withdraw multiplier must be positive")
	}
	return nil
}

// Staking binds the mutable parameters of a staking ledger.
type Staking struct {
	policy            Policy
	emergencyPause    bool
	emergencyWithdraw bool
}

// NewStaking creates staking params from a validated policy.
func NewStaking(policy Policy) (*Staking, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	policy.MaxLockAmount = new(big.Int).Set(policy.MaxLockAmount)
	return &Staking{policy: policy}, nil
}

func (s *Staking) RewardRate() decimal.Decimal    { return s.policy.RewardRate }
func (s *Staking) MaxRewardRate() decimal.Decimal { return s.policy.MaxRewardRate }
func (s *Staking) MaxLockEpochs() uint64          { return s.policy.MaxLockEpochs }
func (s *Staking) WithdrawMultiplier() uint64     { return s.policy.WithdrawMultiplier }
func (s *Staking) UtilityToken() types.Address    { return s.policy.UtilityToken }
func (s *Staking) EmergencyPause() bool           { return s.emergencyPause }
func (s *Staking) EmergencyWithdraw() bool        { return s.emergencyWithdraw }

// MaxLockAmount returns a copy of the per participant principal ceiling.
func (s *Staking) MaxLockAmount() *big.Int {
	return new(big.Int).Set(s.policy.MaxLockAmount)
}

// SetRewardRate changes the rate applied to subsequent stakes. Existing
// rewards are not recomputed.
func (s *Staking) SetRewardRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(s.policy.MaxRewardRate) {
		return errors.WithMessagef(reverts.ErrInvalidConfig, "reward rate %s out of [0, %s]", rate, s.policy.MaxRewardRate)
	}
	s.policy.RewardRate = rate
	return nil
}

// SetUtilityToken sets the id of the staked token.
func (s *Staking) SetUtilityToken(token types.Address) error {
	if token.IsZero() {
		return errors.WithMessage(reverts.ErrInvalidConfig, "utility token must be set")
	}
	s.policy.UtilityToken = token
	return nil
}

// SetEmergencyPause toggles the pause. It reports whether the value changed.
func (s *Staking) SetEmergencyPause(pause bool) bool {
	changed := s.emergencyPause != pause
	s.emergencyPause = pause
	return changed
}

// SetEmergencyWithdraw toggles principal-only withdrawal while paused.
// It reports whether the value changed.
func (s *Staking) SetEmergencyWithdraw(withdraw bool) bool {
	changed := s.emergencyWithdraw != withdraw
	s.emergencyWithdraw = withdraw
	return changed
}
