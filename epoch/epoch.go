// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package epoch aligns timestamps to weekly epochs.
//
// Epochs start every Thursday at 00:00:00 UTC. The Unix epoch itself fell on
// a Thursday, so every boundary is a multiple of Length.
package epoch

import (
	"github.com/vechain/epochstake/reverts"
)

const (
	// DaySeconds is the length of a day.
	DaySeconds uint64 = 60 * 60 * 24
	// Length is the length of an epoch in seconds.
	Length uint64 = DaySeconds * 7
	// AnchorOffset is the remainder of every boundary modulo Length.
	AnchorOffset uint64 = 0
)

// NextStart returns the start of the first epoch boundary strictly after now.
func NextStart(now uint64) (uint64, error) {
	if now == 0 {
		return 0, reverts.ErrInvalidTime
	}
	days := now / DaySeconds
	dayOfWeek := days % 7 // 0: Thursday, 1: Friday, ..., 6: Wednesday
	sinceAnchor := dayOfWeek*DaySeconds + now%DaySeconds

	next := now + Length - sinceAnchor
	if next <= now {
		return 0, reverts.ErrInvalidTime
	}
	return next, nil
}

// Index returns the number of whole epochs elapsed at now.
func Index(now uint64) uint64 {
	return now / Length
}

// Start returns the start of the epoch containing now.
func Start(now uint64) uint64 {
	return now - now%Length
}

// Count returns the number of whole epochs in duration. Partial epochs are dropped.
func Count(duration uint64) uint64 {
	return duration / Length
}
