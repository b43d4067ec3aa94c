package compact

import (
	"bufio"
	"fmt"
	"os"
)

// Writer appends fixed-size place records to the compact array file.
// Records are written to a temporary file and only renamed into place by
// Commit, so a failed run never leaves a truncated artifact behind.
//
// The record count at the moment of each Append equals the place's dense
// ordinal index; the caller must store the same index in the relational row.
type Writer struct {
	f         *os.File
	w         *bufio.Writer
	path      string
	tmpPath   string
	count     int
	committed bool
}

// NewWriter creates the compact array writer for the given output path
func NewWriter(path string) (*Writer, error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create compact array file: %w", err)
	}
	return &Writer{
		f:       f,
		w:       bufio.NewWriter(f),
		path:    path,
		tmpPath: tmpPath,
	}, nil
}

// Append encodes one place and appends it, returning its ordinal index
func (w *Writer) Append(lat, lon float64, population int64) (int, error) {
	rec := EncodeRecord(lat, lon, population)
	if _, err := w.w.Write(rec[:]); err != nil {
		return 0, fmt.Errorf("failed to append compact record: %w", err)
	}
	idx := w.count
	w.count++
	return idx, nil
}

// Count returns the number of records appended so far
func (w *Writer) Count() int {
	return w.count
}

// Commit flushes, syncs and renames the temporary file to the final path
func (w *Writer) Commit() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush compact array: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync compact array: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("failed to close compact array: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		return fmt.Errorf("failed to rename compact array into place: %w", err)
	}
	w.committed = true
	return nil
}

// Close aborts an uncommitted writer and removes the temporary file.
// Safe to call after Commit.
func (w *Writer) Close() error {
	if w.committed {
		return nil
	}
	w.f.Close()
	return os.Remove(w.tmpPath)
}
