package engine

import (
	"testing"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

func TestTransTableRoundTrip(t *testing.T) {
	var tt = NewTransTable(1)
	var key = uint64(0x1234567890abcdef)
	var move = chess.Move(0x4321)

	tt.Update(key, 7, 123, -45, boundExact, move)

	var depth, score, eval, bound, gotMove, ok = tt.Read(key)
	if !ok {
		t.Fatal("expected a hit after Update")
	}
	if depth != 7 || score != 123 || eval != -45 || bound != boundExact || gotMove != move {
		t.Errorf("got (depth=%d score=%d eval=%d bound=%d move=%v), want (7 123 -45 %d %v)",
			depth, score, eval, bound, gotMove, boundExact, move)
	}
}

func TestTransTableMissOnWrongKey(t *testing.T) {
	var tt = NewTransTable(1)
	tt.Update(0x1000000000000001, 5, 10, 0, boundLower, chess.MoveEmpty)

	var _, _, _, _, _, ok = tt.Read(0x2000000000000002)
	if ok {
		t.Error("expected a miss for a key never written")
	}
}

func TestTransTableDeeperEntryReplacesShallower(t *testing.T) {
	var tt = NewTransTable(1)
	var key = uint64(0x300000000000002a)

	tt.Update(key, 3, 1, 0, boundLower, chess.MoveEmpty)
	tt.Update(key, 10, 2, 0, boundLower, chess.MoveEmpty)

	var depth, score, _, _, _, ok = tt.Read(key)
	if !ok || depth != 10 || score != 2 {
		t.Errorf("expected the deeper write to win, got depth=%d score=%d ok=%v", depth, score, ok)
	}
}

func TestTransTableClearRemovesEntries(t *testing.T) {
	var tt = NewTransTable(1)
	var key = uint64(0x4000000000000063)
	tt.Update(key, 4, 1, 0, boundExact, chess.MoveEmpty)
	tt.Clear()

	var _, _, _, _, _, ok = tt.Read(key)
	if ok {
		t.Error("expected Clear to remove previously stored entries")
	}
}

func TestRoundPowerOfTwo(t *testing.T) {
	var tests = []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 2}, {4, 4}, {5, 4}, {1023, 512}, {1024, 1024}, {1025, 1024},
	}
	for _, tt := range tests {
		if got := roundPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("roundPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
