package watcher

import "testing"

func TestNewSourceDisabledOnZeroAddress(t *testing.T) {
	source := NewSource("AIOracle", "0x0000000000000000000000000000000000000000", nil, 0)
	if source.Enabled() {
		t.Fatalf("zero address source should be disabled")
	}

	source = NewSource("AIOracle", "not-an-address", nil, 0)
	if source.Enabled() {
		t.Fatalf("malformed address source should be disabled")
	}

	source = NewSource("AIOracle", "0x1111111111111111111111111111111111111111", nil, 0)
	if !source.Enabled() {
		t.Fatalf("valid address source should be enabled")
	}
}

func TestSourceDedup(t *testing.T) {
	source := NewSource("ProjectEscrow", "0x1111111111111111111111111111111111111111", nil, 0)

	if source.seen("0xaaa") {
		t.Fatalf("fresh hash should not be seen")
	}

	source.markProcessed("0xaaa")
	if !source.seen("0xaaa") {
		t.Fatalf("processed hash should be seen")
	}

	// Re-marking must not inflate the event count.
	source.markProcessed("0xaaa")
	if got := source.Stats().Events; got != 1 {
		t.Fatalf("event count mismatch: %d", got)
	}
}

func TestSourceDedupEviction(t *testing.T) {
	source := NewSource("ProjectEscrow", "0x1111111111111111111111111111111111111111", nil, 2)

	source.markProcessed("0xaaa")
	source.markProcessed("0xbbb")
	source.markProcessed("0xccc")

	if source.seen("0xaaa") {
		t.Fatalf("oldest hash should be evicted at cap")
	}
	if !source.seen("0xbbb") || !source.seen("0xccc") {
		t.Fatalf("recent hashes should survive eviction")
	}
	if got := source.Stats().Events; got != 3 {
		t.Fatalf("event count mismatch: %d", got)
	}
}

func TestSourceCursorMonotonic(t *testing.T) {
	source := NewSource("ProjectEscrow", "0x1111111111111111111111111111111111111111", nil, 0)
	source.initCursor(100, 5)
	if source.Cursor() != 95 {
		t.Fatalf("cold start cursor mismatch: %d", source.Cursor())
	}

	source.completeTick(110)
	if source.Cursor() != 110 {
		t.Fatalf("cursor should advance: %d", source.Cursor())
	}

	source.completeTick(90)
	if source.Cursor() != 110 {
		t.Fatalf("cursor must never decrease: %d", source.Cursor())
	}
}

func TestSourceInitCursorUnderflow(t *testing.T) {
	source := NewSource("ProjectEscrow", "0x1111111111111111111111111111111111111111", nil, 0)
	source.initCursor(3, 5)
	if source.Cursor() != 0 {
		t.Fatalf("cursor should clamp at zero: %d", source.Cursor())
	}
}

func TestSourceErrorStreakResetsOnSuccess(t *testing.T) {
	source := NewSource("ProjectEscrow", "0x1111111111111111111111111111111111111111", nil, 0)

	if streak := source.recordError(); streak != 1 {
		t.Fatalf("streak mismatch: %d", streak)
	}
	if streak := source.recordError(); streak != 2 {
		t.Fatalf("streak mismatch: %d", streak)
	}

	source.completeTick(10)
	if streak := source.recordError(); streak != 1 {
		t.Fatalf("streak should reset after a successful tick: %d", streak)
	}
}
