// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co manages the life-cycle of long running go routines.
package co

import (
	"sync"
)

// Goes runs go routines and waits for them. The first error reported by a
// routine started with GoErr is kept.
type Goes struct {
	wg   sync.WaitGroup
	once sync.Once
	err  error
}

// Go runs f in a go routine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// GoErr runs f in a go routine and records its error.
func (g *Goes) GoErr(f func() error) {
	g.Go(func() {
		if err := f(); err != nil {
			g.once.Do(func() { g.err = err })
		}
	})
}

// Wait waits for all go routines and returns the first error.
func (g *Goes) Wait() error {
	g.wg.Wait()
	return g.err
}

// Done returns a channel closed once all go routines have exited.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
