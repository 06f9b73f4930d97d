// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package balances provides read-only (participant, token) -> quantity lookups.
package balances

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/epochstake/types"
)

// Oracle looks up token balances. It never fails: unknown keys read as zero
// and negative quantities are clamped to zero.
type Oracle interface {
	BalanceOf(participant types.Address, token types.Address) *big.Int
}

// Source is a single token ledger, e.g. the staking ledger for the utility token.
type Source interface {
	BalanceOf(participant types.Address) *big.Int
}

func clamp(v *big.Int) *big.Int {
	if v == nil || v.Sign() <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// Table is a static balance table.
type Table struct {
	entries map[types.Address]map[types.Address]*big.Int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[types.Address]map[types.Address]*big.Int)}
}

// Set stores a balance. Stored values are copied.
func (t *Table) Set(participant, token types.Address, amount *big.Int) {
	row, ok := t.entries[participant]
	if !ok {
		row = make(map[types.Address]*big.Int)
		t.entries[participant] = row
	}
	row[token] = new(big.Int).Set(amount)
}

func (t *Table) BalanceOf(participant, token types.Address) *big.Int {
	return clamp(t.entries[participant][token])
}

// ParseTable builds a table from hex addresses and decimal amounts, the
// shape used by configuration files.
func ParseTable(raw map[string]map[string]string) (*Table, error) {
	t := NewTable()
	for p, row := range raw {
		participant, err := types.ParseAddress(p)
		if err != nil {
			return nil, errors.Wrapf(err, "participant %q", p)
		}
		for tk, v := range row {
			token, err := types.ParseAddress(tk)
			if err != nil {
				return nil, errors.Wrapf(err, "token %q", tk)
			}
			amount, ok := new(big.Int).SetString(v, 10)
			if !ok {
				return nil, errors.Errorf("balance of %s in %s: invalid amount %q", p, tk, v)
			}
			t.Set(*participant, *token, amount)
		}
	}
	return t, nil
}

// Router answers from a per-token source when one is registered and from
// the fallback oracle otherwise.
type Router struct {
	sources  map[types.Address]Source
	fallback Oracle
}

// NewRouter creates a router. fallback may be nil.
func NewRouter(fallback Oracle) *Router {
	return &Router{
		sources:  make(map[types.Address]Source),
		fallback: fallback,
	}
}

// Route registers src as the ledger of token.
func (r *Router) Route(token types.Address, src Source) {
	r.sources[token] = src
}

// Unroute removes the ledger of token. Its balances fall back again.
func (r *Router) Unroute(token types.Address) {
	delete(r.sources, token)
}

func (r *Router) BalanceOf(participant, token types.Address) *big.Int {
	if src, ok := r.sources[token]; ok {
		return clamp(src.BalanceOf(participant))
	}
	if r.fallback == nil {
		return new(big.Int)
	}
	return clamp(r.fallback.BalanceOf(participant, token))
}
