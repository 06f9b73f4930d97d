// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the service configuration from a YAML file with
// EPOCHSTAKE_ prefixed environment overrides.
package config

import (
	"bytes"
	"io"
	"math/big"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vechain/epochstake/balances"
	"github.com/vechain/epochstake/epoch"
	"github.com/vechain/epochstake/params"
	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/types"
)

// EnvPrefix prefixes every environment override, e.g. EPOCHSTAKE_STAKING_REWARD_RATE.
const EnvPrefix = "epochstake"

// Well known token ids, the token name right aligned in hex.
const (
	DefaultUtilityToken    = "0x0000000000000000000000000000456e65726779" // "Energy"
	DefaultReputationToken = "0x0000000000000000000052657075746174696f6e" // "Reputation"
	DefaultGovernanceToken = "0x00000000000000000000476f7665726e616e6365" // "Governance"
)

type StakingConfig struct {
	RewardRate         string `yaml:"rewardRate"         split_words:"true"`
	MaxRewardRate      string `yaml:"maxRewardRate"      split_words:"true"`
	MaxLockAmount      string `yaml:"maxLockAmount"      split_words:"true"`
	MaxLockEpochs      uint64 `yaml:"maxLockEpochs"      split_words:"true"`
	WithdrawMultiplier uint64 `yaml:"withdrawMultiplier" split_words:"true"`
	UtilityToken       string `yaml:"utilityToken"       split_words:"true"`
}

type GovernanceConfig struct {
	GovernanceToken string `yaml:"governanceToken" split_words:"true"`
	StakingToken    string `yaml:"stakingToken"    split_words:"true"`
	ReputationToken string `yaml:"reputationToken" split_words:"true"`
	Accumulation    string `yaml:"accumulation"`
}

type Config struct {
	Staking    StakingConfig    `yaml:"staking"`
	Governance GovernanceConfig `yaml:"governance"`
	// Balances maps participant to token to amount, all in hex and decimal strings.
	Balances map[string]map[string]string `yaml:"balances" ignored:"true"`
	// GenesisTime starts a manual clock. Zero follows the system clock.
	GenesisTime   uint64 `yaml:"genesisTime"   split_words:"true"`
	APIAddr       string `yaml:"apiAddr"       envconfig:"API_ADDR"`
	APICors       string `yaml:"apiCors"       envconfig:"API_CORS"`
	EnableMetrics bool   `yaml:"enableMetrics" split_words:"true"`
	MetricsAddr   string `yaml:"metricsAddr"   split_words:"true"`
	HistorySize   int    `yaml:"historySize"   split_words:"true"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	policy := params.DefaultPolicy()
	return &Config{
		Staking: StakingConfig{
			RewardRate:         policy.RewardRate.String(),
			MaxRewardRate:      policy.MaxRewardRate.String(),
			MaxLockAmount:      policy.MaxLockAmount.String(),
			MaxLockEpochs:      policy.MaxLockEpochs,
			WithdrawMultiplier: policy.WithdrawMultiplier,
			UtilityToken:       DefaultUtilityToken,
		},
		Governance: GovernanceConfig{
			GovernanceToken: DefaultGovernanceToken,
			StakingToken:    DefaultUtilityToken,
			ReputationToken: DefaultReputationToken,
			Accumulation:    string(params.Overwrite),
		},
		APIAddr:     "localhost:8669",
		APICors:     "",
		MetricsAddr: "localhost:2112",
		HistorySize: 256,
	}
}

// Load overlays the YAML file at path, if any, and the environment on the
// defaults, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := cfg.decode(buf); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse overlays buf on the defaults without reading the environment.
func Parse(buf []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(buf); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(buf []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return errors.Wrap(err, "parse config file")
	}
	return nil
}

// Validate checks every value can build its component.
func (c *Config) Validate() error {
	if _, err := c.StakingParams(); err != nil {
		return err
	}
	if _, err := c.GovernanceParams(); err != nil {
		return err
	}
	if _, err := c.BalanceTable(); err != nil {
		return errors.WithMessage(reverts.ErrInvalidConfig, err.Error())
	}
	if c.HistorySize < 0 {
		return errors.WithMessage(reverts.ErrInvalidConfig, "historySize must not be negative")
	}
	return nil
}

func invalid(field string, err error) error {
	return errors.WithMessagef(reverts.ErrInvalidConfig, "%s: %v", field, err)
}

func parseRate(field, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, invalid(field, err)
	}
	return d, nil
}

func parseToken(field, v string) (types.Address, error) {
	addr, err := types.ParseAddress(v)
	if err != nil {
		return types.Address{}, invalid(field, err)
	}
	return *addr, nil
}

// StakingParams builds fresh staking params.
func (c *Config) StakingParams() (*params.Staking, error) {
	rate, err := parseRate("staking.rewardRate", c.Staking.RewardRate)
	if err != nil {
		return nil, err
	}
	maxRate, err := parseRate("staking.maxRewardRate", c.Staking.MaxRewardRate)
	if err != nil {
		return nil, err
	}
	maxAmount, ok := new(big.Int).SetString(c.Staking.MaxLockAmount, 10)
	if !ok {
		return nil, errors.WithMessagef(reverts.ErrInvalidConfig, "staking.maxLockAmount: invalid amount %q", c.Staking.MaxLockAmount)
	}
	token, err := parseToken("staking.utilityToken", c.Staking.UtilityToken)
	if err != nil {
		return nil, err
	}
	return params.NewStaking(params.Policy{
		RewardRate:         rate,
		MaxRewardRate:      maxRate,
		MaxLockAmount:      maxAmount,
		MaxLockEpochs:      c.Staking.MaxLockEpochs,
		WithdrawMultiplier: c.Staking.WithdrawMultiplier,
		UtilityToken:       token,
	})
}

// GovernanceParams builds fresh governance params.
func (c *Config) GovernanceParams() (*params.Governance, error) {
	staking, err := parseToken("governance.stakingToken", c.Governance.StakingToken)
	if err != nil {
		return nil, err
	}
	reputation, err := parseToken("governance.reputationToken", c.Governance.ReputationToken)
	if err != nil {
		return nil, err
	}
	g, err := params.NewGovernance(staking, reputation, params.Accumulation(c.Governance.Accumulation))
	if err != nil {
		return nil, err
	}
	if c.Governance.GovernanceToken != "" {
		token, err := parseToken("governance.governanceToken", c.Governance.GovernanceToken)
		if err != nil {
			return nil, err
		}
		if err := g.SetGovernanceToken(token); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// BalanceTable builds the external balance table.
func (c *Config) BalanceTable() (*balances.Table, error) {
	return balances.ParseTable(c.Balances)
}

// Clock returns a manual clock at GenesisTime, or the system clock.
func (c *Config) Clock() epoch.Clock {
	if c.GenesisTime == 0 {
		return epoch.SystemClock{}
	}
	return epoch.NewManualClock(c.GenesisTime)
}
