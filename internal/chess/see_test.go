package chess

import "testing"

// TestSeeGEMonotonic checks the property every caller in the search
// core relies on: if an exchange clears a threshold, it also clears
// every lower threshold.
func TestSeeGEMonotonic(t *testing.T) {
	for _, fen := range seeTestFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var buf [MaxMoves]OrderedMove
		var child Position
		for _, om := range p.GenerateMoves(buf[:]) {
			if !p.MakeMove(om.Move, &child) {
				continue
			}
			var move = om.Move
			if !move.Capture() {
				continue
			}
			for threshold := -12; threshold <= 12; threshold++ {
				if SeeGE(&p, move, threshold) && !SeeGE(&p, move, threshold-1) {
					t.Errorf("%s %s: SeeGE(%d)=true but SeeGE(%d)=false", fen, move.String(), threshold, threshold-1)
				}
			}
		}
	}
}

func TestSeeGEZeroMatchesThresholdZero(t *testing.T) {
	for _, fen := range seeTestFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var buf [MaxMoves]OrderedMove
		for _, om := range p.GenerateMoves(buf[:]) {
			if SeeGEZero(&p, om.Move) != SeeGE(&p, om.Move, 0) {
				t.Errorf("%s %s: SeeGEZero disagrees with SeeGE(_, 0)", fen, om.Move.String())
			}
		}
	}
}

var seeTestFENs = []string{
	InitialPositionFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1",
	"1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1",
	"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
}
