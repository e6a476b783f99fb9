// Package shmregion provides scoped acquisition of a file-backed shared
// memory region: open-or-create the backing file, mmap it, and hand back a
// raw byte span plus metadata. Lifetime is bound to whoever holds the
// *Region; the mapping and file are released on Close.
package shmregion

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Region is a single contiguous mmap'd span backed by a regular file.
type Region struct {
	file     *os.File
	data     []byte
	pageSize int
}

// Create opens (or truncates and creates) the file at path, sizes it to
// size bytes, and maps it PROT_READ|PROT_WRITE, MAP_SHARED. size is rounded
// up to a multiple of the system page size by the caller (internal/ring
// does this as part of layout computation); Create itself does not round.
func Create(path string, size int) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("shmregion: create %s: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("shmregion: truncate %s to %d: %w", path, size, err)
	}
	return mapFile(f, size)
}

// Open maps an existing file at path read-write without truncating it.
// Callers (internal/ring.OpenReader) use this once they know the file's
// true size from its own header.
func Open(path string, size int) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("shmregion: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shmregion: stat %s: %w", path, err)
	}
	if info.Size() < int64(size) {
		f.Close()
		return nil, fmt.Errorf("shmregion: %s is %d bytes, want at least %d", path, info.Size(), size)
	}
	return mapFile(f, size)
}

func mapFile(f *os.File, size int) (*Region, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shmregion: mmap: %w", err)
	}
	return &Region{
		file:     f,
		data:     data,
		pageSize: os.Getpagesize(),
	}, nil
}

// Bytes returns the mapped span. The returned slice is valid until Close.
func (r *Region) Bytes() []byte { return r.data }

// Len returns the mapped span length in bytes.
func (r *Region) Len() int { return len(r.data) }

// PageSize returns the system page size used to size the mapping.
func (r *Region) PageSize() int { return r.pageSize }

// Close unmaps the region and closes the backing file descriptor. The file
// itself is left on disk so a subsequent run can reopen it.
func (r *Region) Close() error {
	var unmapErr error
	if r.data != nil {
		unmapErr = unix.Munmap(r.data)
		r.data = nil
	}
	closeErr := r.file.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}

// RoundUpToPage rounds size up to the next multiple of the system page
// size, since mmap only maps whole pages.
func RoundUpToPage(size int) int {
	pageSize := os.Getpagesize()
	if size%pageSize == 0 {
		return size
	}
	return ((size / pageSize) + 1) * pageSize
}
