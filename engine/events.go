// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

// Event is the receipt of a successful mutation.
type Event interface {
	EventName() string
}

// ConfigChanged is emitted by owner operations and clock changes.
type ConfigChanged struct {
	Key   string
	Value string
}

func (*ConfigChanged) EventName() string { return "config-changed" }

// Record is an event as published to subscribers.
type Record struct {
	Seq   uint64
	Time  uint64
	Name  string
	Event Event
}

// history keeps the most recent records in a ring.
type history struct {
	items []*Record
	next  int
	full  bool
}

func newHistory(size int) *history {
	if size <= 0 {
		size = 1
	}
	return &history{items: make([]*Record, size)}
}

func (h *history) add(r *Record) {
	h.items[h.next] = r
	h.next = (h.next + 1) % len(h.items)
	if h.next == 0 {
		h.full = true
	}
}

// last returns up to n records, oldest first.
func (h *history) last(n int) []*Record {
	size := h.next
	if h.full {
		size = len(h.items)
	}
	if n <= 0 || n > size {
		n = size
	}
	out := make([]*Record, 0, n)
	for i := size - n; i < size; i++ {
		idx := i
		if h.full {
			idx = (h.next + i) % len(h.items)
		}
		out = append(out, h.items[idx])
	}
	return out
}
