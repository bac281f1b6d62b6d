package svctable

import (
	"encoding/binary"
	"testing"
)

func TestHUPEncoding(t *testing.T) {
	payload := HUP(0x0007, 0x11223344, ErrCodeOther)

	if len(payload) != 11 {
		t.Fatalf("TestHUPEncoding: len = %d, want 11", len(payload))
	}
	if payload[0] != byte(hupKind) {
		t.Fatalf("TestHUPEncoding: kind byte = %#x, want %#x", payload[0], hupKind)
	}
	if got := binary.BigEndian.Uint16(payload[1:3]); got != 0x0007 {
		t.Fatalf("TestHUPEncoding: control_msg_id = %#x, want 0x0007", got)
	}
	if got := binary.BigEndian.Uint32(payload[3:7]); got != 0x11223344 {
		t.Fatalf("TestHUPEncoding: session_id = %#x, want 0x11223344", got)
	}
	if got := binary.BigEndian.Uint32(payload[7:11]); got != ErrCodeOther {
		t.Fatalf("TestHUPEncoding: error_code = %#x, want %#x", got, ErrCodeOther)
	}
}

func TestAtomicIDAllocatorMonotonic(t *testing.T) {
	var alloc AtomicIDAllocator

	seen := make(map[uint16]bool)
	var prev uint16
	for i := 0; i < 100; i++ {
		id := alloc.Next()
		if seen[id] {
			t.Fatalf("TestAtomicIDAllocatorMonotonic: id %d repeated at iteration %d", id, i)
		}
		seen[id] = true
		if i > 0 && id != prev+1 {
			t.Fatalf("TestAtomicIDAllocatorMonotonic: id %d does not follow %d", id, prev)
		}
		prev = id
	}
}
