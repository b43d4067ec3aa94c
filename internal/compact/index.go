package compact

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Index is a read-only view over the compact array file. The file is
// memory-mapped, so many concurrent readers can scan it without copies.
// Record i belongs to the place whose relational row carries idx = i.
type Index struct {
	f    *os.File
	data mmap.MMap
}

// Open memory-maps an existing compact array file
func Open(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open compact array: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat compact array: %w", err)
	}
	if info.Size()%RecordSize != 0 {
		f.Close()
		return nil, fmt.Errorf("compact array size %d is not a multiple of %d", info.Size(), RecordSize)
	}
	if info.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("compact array %s is empty", path)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap compact array: %w", err)
	}

	return &Index{f: f, data: data}, nil
}

// Len returns the number of place records
func (ix *Index) Len() int {
	return len(ix.data) / RecordSize
}

// Record decodes the record at ordinal index i
func (ix *Index) Record(i int) (lat, lon, radiusKm float64) {
	off := i * RecordSize
	return DecodeRecord(ix.data[off : off+RecordSize])
}

// Close unmaps and closes the underlying file
func (ix *Index) Close() error {
	if err := ix.data.Unmap(); err != nil {
		ix.f.Close()
		return err
	}
	return ix.f.Close()
}
