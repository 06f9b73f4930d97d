// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"github.com/pkg/errors"

	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/types"
)

// Accumulation selects how a new governance grant combines with the pending reward.
type Accumulation string

const (
	// Overwrite replaces the pending reward with the new grant.
	Overwrite Accumulation = "overwrite"
	// Accumulate adds the new grant to the pending reward.
	Accumulate Accumulation = "accumulate"
)

// Valid returns true for a known mode.
func (a Accumulation) Valid() bool {
	return a == Overwrite || a == Accumulate
}

// Governance binds the parameters of a governance ledger.
type Governance struct {
	governanceToken types.Address
	stakingToken    types.Address
	reputationToken types.Address
	accumulation    Accumulation
	emergencyPause  bool
}

// NewGovernance creates governance params. The accumulation mode is fixed for
// the lifetime of the ledger.
func NewGovernance(stakingToken, reputationToken types.Address, accumulation Accumulation) (*Governance, error) {
	if accumulation == "" {
		accumulation = Overwrite
	}
	if !accumulation.Valid() {
		return nil, errors.WithMessagef(reverts.ErrInvalidConfig, "unknown accumulation mode %q", accumulation)
	}
	g := &Governance{accumulation: accumulation}
	if err := g.SetStakingToken(stakingToken); err != nil {
		return nil, err
	}
	if err := g.SetReputationToken(reputationToken); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Governance) GovernanceToken() types.Address { return g.governanceToken }
func (g *Governance) StakingToken() types.Address    { return g.stakingToken }
func (g *Governance) ReputationToken() types.Address { return g.reputationToken }
func (g *Governance) Accumulation() Accumulation     { return g.accumulation }
func (g *Governance) EmergencyPause() bool           { return g.emergencyPause }

// SetGovernanceToken sets the id of the token rewards are paid in.
func (g *Governance) SetGovernanceToken(token types.Address) error {
	if token.IsZero() {
		return errors.WithMessage(reverts.ErrInvalidConfig, "governance token must be set")
	}
	g.governanceToken = token
	return nil
}

// SetStakingToken sets the token whose balance sizes a grant.
func (g *Governance) SetStakingToken(token types.Address) error {
	if token.IsZero() {
		return errors.WithMessage(reverts.ErrInvalidConfig, "staking token must be set")
	}
	g.stakingToken = token
	return nil
}

// SetReputationToken sets the token whose balance dampens a grant.
func (g *Governance) SetReputationToken(token types.Address) error {
	if token.IsZero() {
		return errors.WithMessage(reverts.ErrInvalidConfig, "reputation token must be set")
	}
	g.reputationToken = token
	return nil
}

// SetEmergencyPause toggles the pause. It reports whether the value changed.
func (g *Governance) SetEmergencyPause(pause bool) bool {
	changed := g.emergencyPause != pause
	g.emergencyPause = pause
	return changed
}
