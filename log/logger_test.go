// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContextFollowsRoot(t *testing.T) {
	logger := WithContext("pkg", "staking")

	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelInfo)
	Install(&buf, &level, true, false)
	t.Cleanup(Discard)

	logger.Debug("hidden")
	logger.With("participant", "0x01").Info("staked", "amount", big.NewInt(1000))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"pkg":"staking"`)
	assert.Contains(t, out, `"participant":"0x01"`)
	assert.Contains(t, out, `"amount":"1000"`)

	buf.Reset()
	level.Set(LevelDebug)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelTrace, FromLegacyLevel(LegacyLevelTrace))
	assert.Equal(t, LevelCrit, FromLegacyLevel(LegacyLevelCrit))
}
