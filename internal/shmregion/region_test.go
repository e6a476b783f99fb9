package shmregion

import (
	"path/filepath"
	"testing"
)

func TestCreateAndReopenShareBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")
	pageSize := RoundUpToPage(1)

	w, err := Create(path, pageSize)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w.Bytes()[0] = 0xAB
	if err := w.Close(); err != nil {
		t.Fatalf("Close (writer): %v", err)
	}

	r, err := Open(path, pageSize)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.Bytes()[0]; got != 0xAB {
		t.Fatalf("Bytes()[0] = %#x, want 0xab", got)
	}
	if r.Len() != pageSize {
		t.Fatalf("Len() = %d, want %d", r.Len(), pageSize)
	}
}

func TestOpenRejectsUndersizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.bin")
	pageSize := RoundUpToPage(1)

	w, err := Create(path, pageSize)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w.Close()

	if _, err := Open(path, pageSize*2); err == nil {
		t.Fatal("expected Open to reject a file smaller than the requested size")
	}
}

func TestRoundUpToPage(t *testing.T) {
	pageSize := RoundUpToPage(1)
	if RoundUpToPage(0) != 0 {
		t.Errorf("RoundUpToPage(0) = %d, want 0", RoundUpToPage(0))
	}
	if RoundUpToPage(pageSize) != pageSize {
		t.Errorf("RoundUpToPage(pageSize) should be a fixed point")
	}
	if got := RoundUpToPage(pageSize + 1); got != pageSize*2 {
		t.Errorf("RoundUpToPage(pageSize+1) = %d, want %d", got, pageSize*2)
	}
}
