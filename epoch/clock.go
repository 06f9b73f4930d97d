// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/epochstake/reverts"
)

// Clock is the trusted source of the current time, in Unix seconds.
// Callers read it once per operation.
type Clock interface {
	Now() uint64
}

// SystemClock reads the local wall clock. Only suitable for development.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock is a settable, never decreasing clock, standing in for the
// timestamp of the block being executed.
type ManualClock struct {
	mu  sync.Mutex
	now uint64
}

// NewManualClock creates a clock at the given time.
func NewManualClock(now uint64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to now. Moving backwards is rejected.
func (c *ManualClock) Set(now uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now < c.now {
		return errors.WithMessagef(reverts.ErrInvalidTime, "clock cannot go back from %d to %d", c.now, now)
	}
	c.now = now
	return nil
}

// Advance moves the clock forward by d seconds and returns the new time.
func (c *ManualClock) Advance(d uint64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now+d < c.now {
		return 0, errors.WithMessage(reverts.ErrInvalidTime, "clock overflow")
	}
	c.now += d
	return c.now, nil
}
