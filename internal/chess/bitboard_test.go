package chess

import "testing"

func TestMoreThanOne(t *testing.T) {
	var tests = []struct {
		name  string
		value uint64
		want  bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"far one", 1 << 5, false},
		{"farthest one", 1 << 63, false},
		{"two ones", 3, true},
		{"two ones apart", 1<<6 | 1<<25, true},
		{"three ones apart", 1<<6 | 1<<25 | 1<<36, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoreThanOne(tt.value); got != tt.want {
				t.Errorf("MoreThanOne(%#x) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestPopCountAndFirstOne(t *testing.T) {
	var tests = []struct {
		value          uint64
		wantPopCount   int
		wantFirstOne   int
	}{
		{0, 0, 64},
		{1, 1, 0},
		{1 << 7, 1, 7},
		{FileAMask, 8, 0},
		{Rank1Mask, 8, 0},
		{FileAMask | Rank1Mask, 15, 0},
	}
	for _, tt := range tests {
		if got := PopCount(tt.value); got != tt.wantPopCount {
			t.Errorf("PopCount(%#x) = %d, want %d", tt.value, got, tt.wantPopCount)
		}
		if tt.value != 0 {
			if got := FirstOne(tt.value); got != tt.wantFirstOne {
				t.Errorf("FirstOne(%#x) = %d, want %d", tt.value, got, tt.wantFirstOne)
			}
		}
	}
}

// TestRookAttacksEmptyBoard checks a basic sanity property of the magic
// sliding-attack tables: a rook on an empty board attacks its whole
// file and rank, nothing else.
func TestRookAttacksEmptyBoard(t *testing.T) {
	var e4 = ParseSquare("e4")
	var attacks = RookAttacks(e4, 0)
	var want = FileMask[FileE] | Rank4Mask
	want &^= SquareMask(e4)
	if attacks != want {
		t.Errorf("RookAttacks(e4, empty) = %#x, want %#x", attacks, want)
	}
}

func TestBishopAttacksBlocked(t *testing.T) {
	var e4, f3, g2 = ParseSquare("e4"), ParseSquare("f3"), ParseSquare("g2")
	var occ = SquareMask(f3)
	var attacks = BishopAttacks(e4, occ)
	if attacks&SquareMask(g2) != 0 {
		t.Error("bishop attack should not see past a blocker on f3")
	}
	if attacks&SquareMask(f3) == 0 {
		t.Error("bishop attack should include the blocking square itself")
	}
}
