// Package script renders a move plan as a POSIX shell script.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/kballard/go-shellquote"

	"github.com/himanishpuri/DupeDNA/pkg/models"
	"github.com/himanishpuri/DupeDNA/pkg/utils"
)

// Header is the first line of every generated script.
const Header = "#!/bin/bash"

// ErrOutputNotWritable covers every failure to produce the script file,
// including another run holding the output lock.
var ErrOutputNotWritable = errors.New("output not writable")

// Writer serializes move plans. The zero value is usable.
type Writer struct {
	sourceRoot string
}

// Option configures a Writer.
type Option func(*Writer)

// WithSourceRoot prefixes every album-relative source with the collection
// root so the script can run from any directory.
func WithSourceRoot(dir string) Option {
	return func(w *Writer) {
		w.sourceRoot = dir
	}
}

// NewWriter returns a Writer with opts applied.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Render writes the script body to out.
func (w *Writer) Render(out io.Writer, plan []models.MoveEntry) error {
	bw := bufio.NewWriter(out)
	if _, err := fmt.Fprintf(bw, "%s\n\n", Header); err != nil {
		return err
	}
	for _, entry := range plan {
		if _, err := fmt.Fprintln(bw, w.command(entry)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (w *Writer) command(entry models.MoveEntry) string {
	src := entry.Source
	if w.sourceRoot != "" {
		src = filepath.Join(w.sourceRoot, src)
	}
	return "mv " + shellquote.Join(src, entry.Destination)
}

// Write renders plan into outputPath. The file appears atomically with mode
// 0755; concurrent writers to the same path are refused.
func (w *Writer) Write(plan []models.MoveEntry, outputPath string) (err error) {
	dir := filepath.Dir(outputPath)
	if err := utils.MakeDir(dir); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}

	lockPath := outputPath + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("%w: acquire lock %s: %w", ErrOutputNotWritable, lockPath, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s is being written by another run", ErrOutputNotWritable, outputPath)
	}
	// Never unlink the lock file; waiters may already hold its inode.
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+"-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			_ = utils.DeleteFile(tmp.Name())
		}
	}()

	if err = w.Render(tmp, plan); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrOutputNotWritable, tmp.Name(), err)
	}
	if err = tmp.Chmod(0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}
	if err = utils.MoveFile(tmp.Name(), outputPath); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}
	return nil
}
