// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/vechain/epochstake/types"
)

// Governor is the governance record of one participant.
type Governor struct {
	InitTime       uint64
	LastRewardTime uint64
	LastClaimTime  uint64
	Reward         *big.Int
}

func newEmptyGovernor() *Governor {
	return &Governor{Reward: new(big.Int)}
}

// IsEmpty returns true if the participant was never registered.
func (g *Governor) IsEmpty() bool {
	return g.InitTime == 0
}

func (g *Governor) clone() *Governor {
	return &Governor{
		InitTime:       g.InitTime,
		LastRewardTime: g.LastRewardTime,
		LastClaimTime:  g.LastClaimTime,
		Reward:         new(big.Int).Set(g.Reward),
	}
}

type GrantKind string

const (
	KindRegistered GrantKind = "registered"
	KindGranted    GrantKind = "granted"
)

// Granted is emitted on every successful AddReward.
type Granted struct {
	Participant       types.Address
	Kind              GrantKind
	StakingBalance    *big.Int
	ReputationBalance *big.Int
	Reward            *big.Int // computed for this epoch, zero on registration
	Governor          *Governor
}

func (*Granted) EventName() string { return "granted" }

// Claimed is emitted on every successful ClaimReward.
type Claimed struct {
	Participant types.Address
	Amount      *big.Int
}

func (*Claimed) EventName() string { return "claimed" }
