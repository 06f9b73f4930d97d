// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rotatewriter writes logs to size capped files, keeping a bounded
// number of them.
package rotatewriter

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultBaseName    = "epochstake"
	defaultMaxFileSize = 64 * 1024 * 1024
	defaultMaxNumFiles = 8
)

// Writer is safe for concurrent use. Files are named <base>-<timestamp>.log.
type Writer struct {
	mu          sync.Mutex
	dir         string
	baseName    string
	maxFileSize int64
	maxNumFiles int
	file        *os.File
	size        int64
	now         func() time.Time
}

type Option func(*Writer)

func WithDir(dir string) Option { return func(w *Writer) { w.dir = dir } }

func WithFileBaseName(name string) Option { return func(w *Writer) { w.baseName = name } }

// WithFileMaxSize caps the size of one file in bytes.
func WithFileMaxSize(size int64) Option { return func(w *Writer) { w.maxFileSize = size } }

// WithMaxNumberFiles bounds the files kept on disk. Zero keeps all of them.
func WithMaxNumberFiles(n int) Option { return func(w *Writer) { w.maxNumFiles = n } }

// New creates a writer. Start must be called before the first write.
func New(opts ...Option) (*Writer, error) {
	w := &Writer{
		dir:         ".",
		baseName:    defaultBaseName,
		maxFileSize: defaultMaxFileSize,
		maxNumFiles: defaultMaxNumFiles,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.maxFileSize <= 0 {
		return nil, errors.New("max file size must be positive")
	}
	if w.maxNumFiles < 0 {
		return nil, errors.New("max number of files must not be negative")
	}
	if w.baseName == "" {
		return nil, errors.New("file base name is required")
	}
	return w, nil
}

// Start creates the log directory and opens the first file.
func (w *Writer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := os.MkdirAll(w.dir, 0o700); err != nil {
		return errors.Wrap(err, "create log dir")
	}
	return w.rotate()
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.maxFileSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the current file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Name returns the path of the file being written.
func (w *Writer) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return ""
	}
	return w.file.Name()
}

func (w *Writer) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return errors.Wrap(err, "close log file")
		}
		w.file = nil
	}

	path := w.path("2006-01-02T15-04-05")
	if _, err := os.Stat(path); err == nil {
		path = w.path("2006-01-02T15-04-05.000000")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	w.file, w.size = file, 0
	return w.prune()
}

func (w *Writer) path(layout string) string {
	return filepath.Join(w.dir, w.baseName+"-"+w.now().Format(layout)+".log")
}

// prune deletes the oldest files beyond maxNumFiles. Timestamps sort by name.
func (w *Writer) prune() error {
	if w.maxNumFiles == 0 {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(w.dir, w.baseName+"-*.log"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	for i := 0; i < len(files)-w.maxNumFiles; i++ {
		if err := os.Remove(files[i]); err != nil {
			return errors.Wrap(err, "remove old log file")
		}
	}
	return nil
}
