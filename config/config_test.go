// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/epochstake/epoch"
	"github.com/vechain/epochstake/params"
	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/types"
)

const sample = `
staking:
  rewardRate: "0.05"
  maxLockEpochs: 26
  utilityToken: "0x0000000000000000000000000000000000000001"
governance:
  stakingToken: "0x0000000000000000000000000000000000000001"
  reputationToken: "0x0000000000000000000000000000000000000002"
  accumulation: accumulate
balances:
  "0x0000000000000000000000000000000000003333":
    "0x0000000000000000000000000000000000000002": "99"
genesisTime: 1714670000
apiAddr: "0.0.0.0:9000"
`

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "epochstake.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	sp, err := cfg.StakingParams()
	require.NoError(t, err)
	assert.True(t, sp.RewardRate().Equal(params.InitialRewardRate))
	assert.Equal(t, params.InitialMaxLockAmount.String(), sp.MaxLockAmount().String())
	assert.Equal(t, types.MustParseAddress(DefaultUtilityToken), sp.UtilityToken())

	gp, err := cfg.GovernanceParams()
	require.NoError(t, err)
	assert.Equal(t, params.Overwrite, gp.Accumulation())
	assert.Equal(t, types.MustParseAddress(DefaultGovernanceToken), gp.GovernanceToken())

	assert.IsType(t, epoch.SystemClock{}, cfg.Clock())
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeFile(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "0.05", cfg.Staking.RewardRate)
	assert.Equal(t, uint64(26), cfg.Staking.MaxLockEpochs)
	assert.Equal(t, params.InitialWithdrawMultiplier, cfg.Staking.WithdrawMultiplier, "unset keys keep defaults")
	assert.Equal(t, "0.0.0.0:9000", cfg.APIAddr)
	assert.Equal(t, "localhost:2112", cfg.MetricsAddr)

	gp, err := cfg.GovernanceParams()
	require.NoError(t, err)
	assert.Equal(t, params.Accumulate, gp.Accumulation())

	table, err := cfg.BalanceTable()
	require.NoError(t, err)
	assert.Equal(t, "99", table.BalanceOf(
		types.MustParseAddress("0x0000000000000000000000000000000000003333"),
		types.MustParseAddress("0x0000000000000000000000000000000000000002"),
	).String())

	clock := cfg.Clock()
	require.IsType(t, &epoch.ManualClock{}, clock)
	assert.Equal(t, uint64(1714670000), clock.Now())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EPOCHSTAKE_STAKING_REWARD_RATE", "0.02")
	t.Setenv("EPOCHSTAKE_API_ADDR", "127.0.0.1:1234")
	t.Setenv("EPOCHSTAKE_ENABLE_METRICS", "true")
	t.Setenv("EPOCHSTAKE_GOVERNANCE_ACCUMULATION", "overwrite")

	cfg, err := Load(writeFile(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "0.02", cfg.Staking.RewardRate)
	assert.Equal(t, uint64(26), cfg.Staking.MaxLockEpochs)
	assert.Equal(t, "127.0.0.1:1234", cfg.APIAddr)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, "overwrite", cfg.Governance.Accumulation)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	_, err = Load(writeFile(t, "unknown: 1\n"))
	assert.ErrorContains(t, err, "parse config file")

	tests := []struct {
		name    string
		content string
	}{
		{"rate above max", "staking:\n  rewardRate: \"0.5\"\n"},
		{"bad rate", "staking:\n  rewardRate: ten\n"},
		{"bad amount", "staking:\n  maxLockAmount: \"1e25\"\n"},
		{"zero epochs", "staking:\n  maxLockEpochs: 0\n"},
		{"bad token", "staking:\n  utilityToken: \"0x01\"\n"},
		{"zero reputation token", "governance:\n  reputationToken: \"0x0000000000000000000000000000000000000000\"\n"},
		{"unknown mode", "governance:\n  accumulation: mixed\n"},
		{"bad balance", "balances:\n  \"0x0000000000000000000000000000000000003333\":\n    \"0x0000000000000000000000000000000000000002\": \"1.5\"\n"},
		{"negative history", "historySize: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.ErrorIs(t, err, reverts.ErrInvalidConfig)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
