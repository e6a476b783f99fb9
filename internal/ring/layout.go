// Package ring implements the single-producer/multi-consumer broadcast
// ring: a cache-line-padded header followed by a power-of-two array of
// seqlock-protected slots, mapped into a shmregion.Region.
package ring

import (
	"fmt"

	"github.com/aditya-git16/lithos/internal/wire"
)

const (
	// cacheLine is the assumed cache line size; both the header and each
	// slot are padded to this boundary to avoid false sharing.
	cacheLine = 64

	// HeaderSize is the fixed size of RingHeader, one cache line.
	HeaderSize = cacheLine

	// RecordSize is the size of the payload carried by each slot.
	RecordSize = wire.RecordSize

	// seqWordSize is the size of a slot's atomic sequence word.
	seqWordSize = 8

	// SlotSize is the fixed size of one RingSlot: sequence word + record,
	// padded to a full cache line.
	SlotSize = cacheLine

	// DefaultLayoutVersion is the layout_version Lithos ships; bump this
	// whenever RingSlot/RingHeader's on-disk shape changes incompatibly.
	DefaultLayoutVersion uint32 = 1
)

func init() {
	if seqWordSize+RecordSize > SlotSize {
		panic(fmt.Sprintf("ring: record size %d does not fit in a %d-byte slot", RecordSize, SlotSize))
	}
}

// Layout computes header and slot offsets for a capacity-parameterized ring.
type Layout struct {
	Capacity      uint64
	SlotSize      uint64
	HeaderSize    uint64
	LayoutVersion uint32
}

// NewLayout validates capacity (must be a power of two, > 0) and returns
// the resulting Layout.
func NewLayout(capacity uint64, layoutVersion uint32) (Layout, error) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		return Layout{}, fmt.Errorf("ring: capacity %d is not a power of two", capacity)
	}
	return Layout{
		Capacity:      capacity,
		SlotSize:      SlotSize,
		HeaderSize:    HeaderSize,
		LayoutVersion: layoutVersion,
	}, nil
}

// TotalSize returns the unpadded byte size of the region this layout needs:
// header + capacity*slotSize. Callers round this up to a page-size multiple
// before mapping.
func (l Layout) TotalSize() int64 {
	return int64(l.HeaderSize) + int64(l.Capacity)*int64(l.SlotSize)
}

// SlotOffset returns the byte offset, within the mapped region, of the slot
// that holds sequence i; i is reduced mod Capacity here.
func (l Layout) SlotOffset(i uint64) int64 {
	return int64(l.HeaderSize) + int64(i&(l.Capacity-1))*int64(l.SlotSize)
}
