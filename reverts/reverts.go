// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts holds the caller-visible failure conditions of the ledgers.
// A revert never leaves a ledger half-updated: it is raised before the first write.
package reverts

import (
	"errors"
)

// Code is the stable identifier of a revert condition.
type Code string

const (
	CodePaused               Code = "paused"
	CodeInvalidAmount        Code = "invalid-amount"
	CodeInvalidDuration      Code = "invalid-duration"
	CodeInvalidConfig        Code = "invalid-config"
	CodeInvalidTime          Code = "invalid-time"
	CodeNotFound             Code = "not-found"
	CodeStakeEnded           Code = "stake-ended"
	CodeLockActive           Code = "lock-active"
	CodeEpochNotElapsed      Code = "epoch-not-elapsed"
	CodeNothingToClaim       Code = "nothing-to-claim"
	CodeInvalidRemainingTime Code = "invalid-remaining-time"
)

var (
	ErrPaused               = newRevert(CodePaused, "emergency pause is active")
	ErrInvalidAmount        = newRevert(CodeInvalidAmount, "lock amount is out of range")
	ErrInvalidDuration      = newRevert(CodeInvalidDuration, "lock duration is out of range")
	ErrInvalidConfig        = newRevert(CodeInvalidConfig, "invalid configuration value")
	ErrInvalidTime          = newRevert(CodeInvalidTime, "invalid time")
	ErrNotFound             = newRevert(CodeNotFound, "entry not found")
	ErrStakeEnded           = newRevert(CodeStakeEnded, "stake is nearing or past its end")
	ErrLockActive           = newRevert(CodeLockActive, "stake has not reached its end")
	ErrEpochNotElapsed      = newRevert(CodeEpochNotElapsed, "epoch has not elapsed")
	ErrNothingToClaim       = newRevert(CodeNothingToClaim, "no reward to claim")
	ErrInvalidRemainingTime = newRevert(CodeInvalidRemainingTime, "remaining lock time is out of range")
)

type ErrRevert struct {
	code    Code
	message string
}

func newRevert(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Code returns the stable identifier of the revert.
func (e *ErrRevert) Code() Code {
	return e.code
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// CodeOf returns the code of the revert wrapped by err, or an empty code.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code
	}
	return ""
}
