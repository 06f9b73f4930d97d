// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward sizes the reward owed for a stake or a governance grant.
//
// Amounts are integers in token base units. Intermediate values are exact
// decimals and the final reward is truncated toward zero to a whole base unit.
package reward

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vechain/epochstake/cache"
	"github.com/vechain/epochstake/reverts"
)

// Input carries every value a strategy may depend on. Strategies ignore the
// fields they do not use.
type Input struct {
	Amount     *big.Int        // principal, or base balance for governance grants
	Epochs     uint64          // whole epochs the amount is locked for
	Rate       decimal.Decimal // reward per epoch, as a fraction of Amount
	Reputation *big.Int        // reputation balance, clamped to >= 0
}

// Strategy is a pure reward formula.
type Strategy interface {
	Name() string
	Accrue(in Input) (*big.Int, error)
}

// Linear accrues Amount * Rate * Epochs.
type Linear struct{}

func (Linear) Name() string { return "linear" }

func (Linear) Accrue(in Input) (*big.Int, error) {
	if in.Amount == nil || in.Amount.Sign() < 0 {
		return nil, reverts.ErrInvalidAmount
	}
	if in.Rate.IsNegative() {
		return nil, errors.WithMessage(reverts.ErrInvalidConfig, "negative reward rate")
	}
	epochs := decimal.NewFromBigInt(new(big.Int).SetUint64(in.Epochs), 0)
	return decimal.NewFromBigInt(in.Amount, 0).Mul(in.Rate).Mul(epochs).BigInt(), nil
}

const (
	// lnPrecision is the number of decimal places ln is evaluated to.
	lnPrecision = 24
	// dampingCacheSize bounds the number of memoised factors.
	dampingCacheSize = 4096
)

var hundred = decimal.NewFromInt(100)

// Dampened accrues Amount * (1 + ln(Reputation + 1) / 100).
type Dampened struct {
	factors *cache.LRU
}

// NewDampened creates the reputation dampened formula.
func NewDampened() *Dampened {
	factors, _ := cache.NewLRU(dampingCacheSize)
	return &Dampened{factors: factors}
}

func (d *Dampened) Name() string { return "dampened" }

func (d *Dampened) Accrue(in Input) (*big.Int, error) {
	if in.Amount == nil || in.Amount.Sign() < 0 {
		return nil, reverts.ErrInvalidAmount
	}
	factor, err := d.Factor(in.Reputation)
	if err != nil {
		return nil, err
	}
	return decimal.NewFromBigInt(in.Amount, 0).Mul(factor).BigInt(), nil
}

// Factor returns 1 + ln(reputation + 1) / 100. Negative or nil reputation counts as zero.
func (d *Dampened) Factor(reputation *big.Int) (decimal.Decimal, error) {
	rep := new(big.Int)
	if reputation != nil && reputation.Sign() > 0 {
		rep.Set(reputation)
	}
	v, err := d.factors.GetOrLoad(rep.String(), func(any) (any, error) {
		ln, err := decimal.NewFromBigInt(rep, 0).Add(decimal.NewFromInt(1)).Ln(lnPrecision)
		if err != nil {
			return nil, errors.Wrap(err, "dampening factor")
		}
		return decimal.NewFromInt(1).Add(ln.DivRound(hundred, lnPrecision)), nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return v.(decimal.Decimal), nil
}

// CacheStats returns hits and misses of the factor cache, and whether the
// hit rate changed since the last call.
func (d *Dampened) CacheStats() (bool, int64, int64) {
	return d.factors.Stats()
}
