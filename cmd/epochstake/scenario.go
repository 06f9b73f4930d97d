// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	apitypes "github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/config"
	"github.com/vechain/epochstake/engine"
	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/types"
)

// Scenario is a scripted sequence of operations run against a manual clock.
type Scenario struct {
	// Config is a configuration document. genesisTime is required.
	Config yaml.Node `yaml:"config"`
	Steps  []Step    `yaml:"steps"`
}

// Step is one operation. Only the fields used by Op are read.
type Step struct {
	Op          string `yaml:"op"`
	Participant string `yaml:"participant"`
	Amount      string `yaml:"amount"`
	Duration    uint64 `yaml:"duration"`
	Seconds     uint64 `yaml:"seconds"`
	Time        uint64 `yaml:"time"`
	Rate        string `yaml:"rate"`
	Value       bool   `yaml:"value"`
	Token       string `yaml:"token"`
	// Expect is the revert code the step must fail with.
	Expect reverts.Code `yaml:"expect"`
}

// Receipt is printed for every step, one JSON document per line.
type Receipt struct {
	Step  int             `json:"step"`
	Op    string          `json:"op"`
	Error reverts.Code    `json:"error,omitempty"`
	Event *apitypes.Event `json:"event,omitempty"`
}

// ParseScenario decodes a scenario document.
func ParseScenario(buf []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse scenario")
	}
	return &s, nil
}

func (s *Scenario) config() (*config.Config, error) {
	var raw []byte
	if !s.Config.IsZero() {
		buf, err := yaml.Marshal(&s.Config)
		if err != nil {
			return nil, errors.Wrap(err, "scenario config")
		}
		raw = buf
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		return nil, err
	}
	if cfg.GenesisTime == 0 {
		return nil, errors.WithMessage(reverts.ErrInvalidConfig, "scenario requires config.genesisTime")
	}
	return cfg, nil
}

// Run executes every step in order and writes receipts to w. It stops at the
// first step whose outcome differs from its expectation.
func (s *Scenario) Run(w io.Writer) error {
	cfg, err := s.config()
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	enc := json.NewEncoder(w)
	for i, step := range s.Steps {
		before := lastSeq(eng)
		err := step.apply(eng)
		receipt := &Receipt{Step: i, Op: step.Op}
		// the history is written before an operation returns
		if recent := eng.RecentEvents(1); len(recent) == 1 && recent[0].Seq > before {
			receipt.Event = apitypes.ConvertEvent(recent[0])
		}

		switch {
		case err != nil && !reverts.IsRevertErr(err):
			return errors.WithMessagef(err, "step %d (%s)", i, step.Op)
		case err != nil:
			receipt.Error = reverts.CodeOf(err)
		}
		if err := enc.Encode(receipt); err != nil {
			return errors.Wrap(err, "write receipt")
		}
		if receipt.Error != step.Expect {
			if step.Expect == "" {
				return errors.WithMessagef(err, "step %d (%s)", i, step.Op)
			}
			return errors.Errorf("step %d (%s): expected %q, got %q", i, step.Op, step.Expect, receipt.Error)
		}
	}
	return nil
}

func lastSeq(eng *engine.Engine) uint64 {
	if recent := eng.RecentEvents(1); len(recent) == 1 {
		return recent[0].Seq
	}
	return 0
}

func (s *Step) participant() (types.Address, error) {
	addr, err := types.ParseAddress(s.Participant)
	if err != nil {
		return types.Address{}, errors.Wrapf(err, "participant %q", s.Participant)
	}
	return *addr, nil
}

func (s *Step) token() (types.Address, error) {
	addr, err := types.ParseAddress(s.Token)
	if err != nil {
		return types.Address{}, errors.Wrapf(err, "token %q", s.Token)
	}
	return *addr, nil
}

func (s *Step) apply(eng *engine.Engine) error {
	switch s.Op {
	case "stake":
		p, err := s.participant()
		if err != nil {
			return err
		}
		amount, ok := new(big.Int).SetString(s.Amount, 10)
		if !ok {
			return errors.Errorf("invalid amount %q", s.Amount)
		}
		_, err = eng.Stake(p, amount, s.Duration)
		return err
	case "unstake":
		p, err := s.participant()
		if err != nil {
			return err
		}
		_, err = eng.Unstake(p)
		return err
	case "reward":
		p, err := s.participant()
		if err != nil {
			return err
		}
		_, err = eng.AddGovernanceReward(p)
		return err
	case "claim":
		p, err := s.participant()
		if err != nil {
			return err
		}
		_, err = eng.ClaimGovernanceReward(p)
		return err
	case "advance":
		_, err := eng.Advance(s.Seconds)
		return err
	case "set-time":
		_, err := eng.SetTime(s.Time)
		return err
	case "set-rate":
		rate, err := decimal.NewFromString(s.Rate)
		if err != nil {
			return errors.Wrapf(err, "rate %q", s.Rate)
		}
		_, err = eng.SetRewardRate(rate)
		return err
	case "pause-staking":
		eng.SetStakingPause(s.Value)
		return nil
	case "emergency-withdraw":
		eng.SetEmergencyWithdraw(s.Value)
		return nil
	case "pause-governance":
		eng.SetGovernancePause(s.Value)
		return nil
	case "set-utility-token", "set-governance-token", "set-staking-token", "set-reputation-token":
		token, err := s.token()
		if err != nil {
			return err
		}
		switch s.Op {
		case "set-utility-token":
			_, err = eng.SetUtilityToken(token)
		case "set-governance-token":
			_, err = eng.SetGovernanceToken(token)
		case "set-staking-token":
			_, err = eng.SetStakingToken(token)
		default:
			_, err = eng.SetReputationToken(token)
		}
		return err
	default:
		return errors.Errorf("unknown op %q", s.Op)
	}
}

func runAction(ctx *cli.Context) error {
	_, closeLogs, err := initLogger(ctx)
	if err != nil {
		return err
	}
	defer closeLogs()
	if ctx.NArg() != 1 {
		return errors.New("usage: run <scenario.yaml>")
	}
	buf, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "read scenario")
	}
	scenario, err := ParseScenario(buf)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if path := ctx.String(outputFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		out = f
	}
	return scenario.Run(out)
}
