// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine serializes access to the staking and governance ledgers.
// Each operation samples the clock once, runs against the ledgers under a
// single lock and records its receipt. Receipts are published to subscribers
// in the background.
package engine

import (
	"math/big"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vechain/epochstake/balances"
	"github.com/vechain/epochstake/co"
	"github.com/vechain/epochstake/epoch"
	"github.com/vechain/epochstake/governance"
	"github.com/vechain/epochstake/log"
	"github.com/vechain/epochstake/params"
	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/reward"
	"github.com/vechain/epochstake/staking"
	"github.com/vechain/epochstake/types"
)

var logger = log.WithContext("pkg", "engine")

const defaultHistorySize = 256

// Options configures an Engine.
type Options struct {
	Clock      epoch.Clock
	Staking    *params.Staking
	Governance *params.Governance
	// Balances answers every token the engine does not own. May be nil.
	Balances    balances.Oracle
	HistorySize int
}

// Engine is safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	clock      epoch.Clock
	staking    *staking.Ledger
	governance *governance.Ledger
	router     *balances.Router
	dampened   *reward.Dampened

	pubMu   sync.Mutex
	seq     uint64
	history *history
	pending []*Record

	feed      event.Feed
	scope     event.SubscriptionScope
	wake      chan struct{}
	done      chan struct{}
	goes      co.Goes
	closeOnce sync.Once
}

// New creates an engine. The staking ledger serves the utility token
// balance read by the governance ledger.
func New(opts Options) (*Engine, error) {
	if opts.Clock == nil {
		return nil, errors.WithMessage(reverts.ErrInvalidConfig, "clock is required")
	}
	if opts.Staking == nil || opts.Governance == nil {
		return nil, errors.WithMessage(reverts.ErrInvalidConfig, "staking and governance params are required")
	}
	size := opts.HistorySize
	if size == 0 {
		size = defaultHistorySize
	}

	e := &Engine{
		clock:    opts.Clock,
		staking:  staking.New(opts.Staking, reward.Linear{}),
		router:   balances.NewRouter(opts.Balances),
		dampened: reward.NewDampened(),
		history:  newHistory(size),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	e.governance = governance.New(opts.Governance, e.router, e.dampened)
	if token := opts.Staking.UtilityToken(); !token.IsZero() {
		e.router.Route(token, e.staking)
	}
	e.updateGauges()
	e.goes.Go(e.publishLoop)
	return e, nil
}

// Close unsubscribes all subscribers and stops publishing.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
		e.scope.Close()
		e.goes.Wait()
	})
}

// SubscribeEvents delivers every record committed after the call to ch, in
// sequence order. Operations never wait for subscribers: a subscriber that
// stops draining ch only delays its own and later deliveries.
func (e *Engine) SubscribeEvents(ch chan<- *Record) event.Subscription {
	return e.scope.Track(e.feed.Subscribe(ch))
}

// RecentEvents returns up to n of the latest records, oldest first. n <= 0
// returns all retained records.
func (e *Engine) RecentEvents(n int) []*Record {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()
	return e.history.last(n)
}

// commit records ev and queues it for publishing. It must be called with mu held.
func (e *Engine) commit(now uint64, ev Event) {
	e.pubMu.Lock()
	e.seq++
	rec := &Record{Seq: e.seq, Time: now, Name: ev.EventName(), Event: ev}
	e.history.add(rec)
	e.pending = append(e.pending, rec)
	e.pubMu.Unlock()

	e.updateGauges()
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// publishLoop sends queued records in order. A send blocks until every
// subscriber took the record or unsubscribed.
func (e *Engine) publishLoop() {
	for {
		select {
		case <-e.done:
			return
		case <-e.wake:
		}

		e.pubMu.Lock()
		batch := e.pending
		e.pending = nil
		e.pubMu.Unlock()

		for _, rec := range batch {
			logger.Debug("publishing event", "seq", rec.Seq, "name", rec.Name)
			e.feed.Send(rec)
			metricEvents().Add(1)
		}
	}
}

// run executes op under the lock with a single clock sample.
func run[T Event](e *Engine, name string, op func(now uint64) (T, error)) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	ev, err := op(now)
	observe(name, err)
	if err != nil {
		var zero T
		return zero, err
	}
	e.commit(now, ev)
	return ev, nil
}

//
// Clock
//

// Now returns the current clock time.
func (e *Engine) Now() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Now()
}

func (e *Engine) manualClock() (*epoch.ManualClock, error) {
	c, ok := e.clock.(*epoch.ManualClock)
	if !ok {
		return nil, errors.WithMessage(reverts.ErrInvalidConfig, "clock is not settable")
	}
	return c, nil
}

// SetTime moves a manual clock forward to now.
func (e *Engine) SetTime(now uint64) (*ConfigChanged, error) {
	return run(e, "set-time", func(uint64) (*ConfigChanged, error) {
		c, err := e.manualClock()
		if err != nil {
			return nil, err
		}
		if err := c.Set(now); err != nil {
			return nil, err
		}
		return &ConfigChanged{Key: "clock", Value: strconv.FormatUint(now, 10)}, nil
	})
}

// Advance moves a manual clock forward by d seconds.
func (e *Engine) Advance(d uint64) (*ConfigChanged, error) {
	return run(e, "advance", func(uint64) (*ConfigChanged, error) {
		c, err := e.manualClock()
		if err != nil {
			return nil, err
		}
		now, err := c.Advance(d)
		if err != nil {
			return nil, err
		}
		return &ConfigChanged{Key: "clock", Value: strconv.FormatUint(now, 10)}, nil
	})
}

//
// Staking
//

func (e *Engine) Stake(participant types.Address, amount *big.Int, duration uint64) (*staking.Staked, error) {
	return run(e, "stake", func(now uint64) (*staking.Staked, error) {
		return e.staking.Stake(now, participant, amount, duration)
	})
}

func (e *Engine) Unstake(participant types.Address) (*staking.Unstaked, error) {
	return run(e, "unstake", func(now uint64) (*staking.Unstaked, error) {
		return e.staking.Unstake(now, participant)
	})
}

// GetStake returns the stake of participant, empty if absent.
func (e *Engine) GetStake(participant types.Address) *staking.Stake {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.staking.Get(participant)
}

// StakeTotals returns the locked principal, the pending reward and the number of stakes.
func (e *Engine) StakeTotals() (*big.Int, *big.Int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	locked, rewards := e.staking.Totals()
	return locked, rewards, e.staking.Count()
}

//
// Governance
//

func (e *Engine) AddGovernanceReward(participant types.Address) (*governance.Granted, error) {
	return run(e, "add-governance-reward", func(now uint64) (*governance.Granted, error) {
		return e.governance.AddReward(now, participant)
	})
}

func (e *Engine) ClaimGovernanceReward(participant types.Address) (*governance.Claimed, error) {
	return run(e, "claim-governance-reward", func(now uint64) (*governance.Claimed, error) {
		return e.governance.ClaimReward(now, participant)
	})
}

// GetGovernor returns the governance record of participant, empty if absent.
func (e *Engine) GetGovernor(participant types.Address) *governance.Governor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.governance.Get(participant)
}

//
// Owner operations
//

func (e *Engine) SetRewardRate(rate decimal.Decimal) (*ConfigChanged, error) {
	return run(e, "set-reward-rate", func(uint64) (*ConfigChanged, error) {
		if err := e.staking.SetRewardRate(rate); err != nil {
			return nil, err
		}
		return &ConfigChanged{Key: "staking.rewardRate", Value: rate.String()}, nil
	})
}

// errUnchanged marks an idempotent setter call. Nothing is published for it.
var errUnchanged = errors.New("unchanged")

func (e *Engine) toggle(name, key string, set func(bool) bool, value bool) (bool, error) {
	_, err := run(e, name, func(uint64) (*ConfigChanged, error) {
		if !set(value) {
			return nil, errUnchanged
		}
		return &ConfigChanged{Key: key, Value: strconv.FormatBool(value)}, nil
	})
	if err == errUnchanged {
		return false, nil
	}
	return err == nil, err
}

// SetStakingPause reports whether the flag changed.
func (e *Engine) SetStakingPause(pause bool) bool {
	changed, _ := e.toggle("set-staking-pause", "staking.emergencyPause", e.staking.SetEmergencyPause, pause)
	return changed
}

// SetEmergencyWithdraw reports whether the flag changed.
func (e *Engine) SetEmergencyWithdraw(withdraw bool) bool {
	changed, _ := e.toggle("set-emergency-withdraw", "staking.emergencyWithdraw", e.staking.SetEmergencyWithdraw, withdraw)
	return changed
}

// SetGovernancePause reports whether the flag changed.
func (e *Engine) SetGovernancePause(pause bool) bool {
	changed, _ := e.toggle("set-governance-pause", "governance.emergencyPause", e.governance.SetEmergencyPause, pause)
	return changed
}

// SetUtilityToken changes the staked token id and routes its balance to the
// staking ledger. The previous token is answered by the balance table again.
func (e *Engine) SetUtilityToken(token types.Address) (*ConfigChanged, error) {
	return run(e, "set-utility-token", func(uint64) (*ConfigChanged, error) {
		old := e.staking.Params().UtilityToken()
		if err := e.staking.Params().SetUtilityToken(token); err != nil {
			return nil, err
		}
		e.router.Unroute(old)
		e.router.Route(token, e.staking)
		return &ConfigChanged{Key: "staking.utilityToken", Value: token.String()}, nil
	})
}

func (e *Engine) setGovernanceAddress(name, key string, set func(types.Address) error, token types.Address) (*ConfigChanged, error) {
	return run(e, name, func(uint64) (*ConfigChanged, error) {
		if err := set(token); err != nil {
			return nil, err
		}
		return &ConfigChanged{Key: key, Value: token.String()}, nil
	})
}

func (e *Engine) SetGovernanceToken(token types.Address) (*ConfigChanged, error) {
	return e.setGovernanceAddress("set-governance-token", "governance.governanceToken", e.governance.SetGovernanceToken, token)
}

func (e *Engine) SetStakingToken(token types.Address) (*ConfigChanged, error) {
	return e.setGovernanceAddress("set-staking-token", "governance.stakingToken", e.governance.SetStakingToken, token)
}

func (e *Engine) SetReputationToken(token types.Address) (*ConfigChanged, error) {
	return e.setGovernanceAddress("set-reputation-token", "governance.reputationToken", e.governance.SetReputationToken, token)
}

// Settings is a snapshot of the ledger parameters.
type Settings struct {
	RewardRate         decimal.Decimal
	MaxRewardRate      decimal.Decimal
	MaxLockAmount      *big.Int
	MaxLockEpochs      uint64
	WithdrawMultiplier uint64
	UtilityToken       types.Address
	StakingPaused      bool
	EmergencyWithdraw  bool

	GovernanceToken  types.Address
	StakingToken     types.Address
	ReputationToken  types.Address
	Accumulation     params.Accumulation
	GovernancePaused bool
}

func (e *Engine) Settings() *Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	sp, gp := e.staking.Params(), e.governance.Params()
	return &Settings{
		RewardRate:         sp.RewardRate(),
		MaxRewardRate:      sp.MaxRewardRate(),
		MaxLockAmount:      sp.MaxLockAmount(),
		MaxLockEpochs:      sp.MaxLockEpochs(),
		WithdrawMultiplier: sp.WithdrawMultiplier(),
		UtilityToken:       sp.UtilityToken(),
		StakingPaused:      sp.EmergencyPause(),
		EmergencyWithdraw:  sp.EmergencyWithdraw(),
		GovernanceToken:    gp.GovernanceToken(),
		StakingToken:       gp.StakingToken(),
		ReputationToken:    gp.ReputationToken(),
		Accumulation:       gp.Accumulation(),
		GovernancePaused:   gp.EmergencyPause(),
	}
}
