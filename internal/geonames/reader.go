package geonames

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one tab-separated line of a geonames dump. Accessors are
// absent-safe: a malformed line with fewer fields than a caller expects
// yields blank or zero values, never an error, so a bad record degrades
// locally instead of aborting the stream.
type Row []string

// Field returns the i-th field, or "" when the line was too short
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Int parses the i-th field as an integer, 0 when absent or malformed
func (r Row) Int(i int) int64 {
	v, err := strconv.ParseInt(r.Field(i), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Float parses the i-th field as a float, 0 when absent or malformed
func (r Row) Float(i int) float64 {
	v, err := strconv.ParseFloat(r.Field(i), 64)
	if err != nil {
		return 0
	}
	return v
}

// Flag reports whether the i-th field is a set geonames boolean ("1")
func (r Row) Flag(i int) bool {
	return r.Field(i) == "1"
}

// Source streams rows from one geonames dump file, forward-only. The whole
// file is never materialized; the largest dump (alternateNamesV2) is read
// this way twice by the ingestion pipeline.
type Source struct {
	sc           *bufio.Scanner
	closers      []io.Closer
	skipComments bool
	row          Row
}

// Option configures a Source
type Option func(*Source)

// SkipComments makes the source drop blank lines and lines starting with
// '#'. Only the country dump carries a commented header.
func SkipComments() Option {
	return func(s *Source) { s.skipComments = true }
}

// maxLineSize bounds a single dump line; alternate-name rows stay well
// under this
const maxLineSize = 1 << 20

// NewSource streams rows from an arbitrary reader (used by tests)
func NewSource(r io.Reader, opts ...Option) *Source {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	s := &Source{sc: sc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenFile streams rows from a plain dump file
func OpenFile(path string, opts ...Option) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump %s: %w", path, err)
	}
	s := NewSource(f, opts...)
	s.closers = append(s.closers, f)
	return s, nil
}

// OpenZip streams rows from a named member of a zip archive without
// extracting it to disk
func OpenZip(path, member string, opts ...Option) (*Source, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	for _, f := range zr.File {
		if f.Name != member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, fmt.Errorf("failed to open %s in %s: %w", member, path, err)
		}
		s := NewSource(rc, opts...)
		s.closers = append(s.closers, rc, zr)
		return s, nil
	}

	zr.Close()
	return nil, fmt.Errorf("archive %s has no member %s", path, member)
}

// Scan advances to the next row, returning false at end of stream
func (s *Source) Scan() bool {
	for s.sc.Scan() {
		line := s.sc.Text()
		if s.skipComments && (line == "" || line[0] == '#') {
			continue
		}
		s.row = strings.Split(line, "\t")
		return true
	}
	return false
}

// Row returns the current row; valid until the next Scan
func (s *Source) Row() Row {
	return s.row
}

// Err returns the first error hit while reading the stream
func (s *Source) Err() error {
	return s.sc.Err()
}

// Close releases the underlying file handles
func (s *Source) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
