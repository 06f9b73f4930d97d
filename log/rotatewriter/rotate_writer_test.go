// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rotatewriter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWriter(t *testing.T, opts ...Option) *Writer {
	w, err := New(append([]Option{WithDir(t.TempDir()), WithFileBaseName("derp")}, opts...)...)
	require.NoError(t, err)

	tick := time.Unix(1714670000, 0)
	w.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	require.NoError(t, w.Start())
	t.Cleanup(func() { w.Close() })
	return w
}

func TestRotatingWriter(t *testing.T) {
	w := newWriter(t, WithFileMaxSize(1024), WithMaxNumberFiles(2))
	first := w.Name()

	data := bytes.Repeat([]byte{'a'}, 1000)
	_, err := w.Write(data)
	require.NoError(t, err)
	assert.Equal(t, first, w.Name(), "fits in the first file")

	_, err = w.Write(data)
	require.NoError(t, err)
	second := w.Name()
	assert.NotEqual(t, first, second)

	_, err = w.Write(data)
	require.NoError(t, err)
	assert.NotEqual(t, second, w.Name())

	files, err := filepath.Glob(filepath.Join(w.dir, "derp-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.NotContains(t, files, first, "the oldest file is pruned")
}

func TestOversizedWrite(t *testing.T) {
	w := newWriter(t, WithFileMaxSize(10))
	n, err := w.Write(bytes.Repeat([]byte{'a'}, 100))
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	info, err := os.Stat(w.Name())
	require.NoError(t, err)
	assert.Equal(t, int64(100), info.Size(), "an empty file takes a record larger than the cap")
}

func TestClosedWriter(t *testing.T) {
	w := newWriter(t)
	require.NoError(t, w.Close())
	_, err := w.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Empty(t, w.Name())
}

func TestInvalidOptions(t *testing.T) {
	_, err := New(WithFileMaxSize(0))
	assert.Error(t, err)
	_, err = New(WithMaxNumberFiles(-1))
	assert.Error(t, err)
	_, err = New(WithFileBaseName(""))
	assert.Error(t, err)
}
