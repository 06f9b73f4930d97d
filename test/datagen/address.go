// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/epochstake/types"
)

func RandAddress() (addr types.Address) {
	rand.Read(addr[:])
	return
}

func RandAddresses(n int) []types.Address {
	addrs := make([]types.Address, n)
	for i := range addrs {
		addrs[i] = RandAddress()
	}
	return addrs
}
