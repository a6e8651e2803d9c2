package engine

import (
	"testing"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

// TestUpdateHistorySaturates checks the gravity rule converges toward
// historyMax without ever overshooting it, no matter how many times a
// move keeps raising alpha.
func TestUpdateHistorySaturates(t *testing.T) {
	var v int16
	for i := 0; i < 10000; i++ {
		updateHistory(&v, 400, true)
		if v > historyMax || v < -historyMax {
			t.Fatalf("iteration %d: v=%d escaped [-%d, %d]", i, v, historyMax, historyMax)
		}
	}
	if v != historyMax {
		t.Errorf("v = %d after repeated good bonuses, want convergence to %d", v, historyMax)
	}
}

func TestUpdateHistoryConvergesBothWays(t *testing.T) {
	var v int16 = historyMax
	for i := 0; i < 10000; i++ {
		updateHistory(&v, 400, false)
	}
	if v != -historyMax {
		t.Errorf("v = %d after repeated bad bonuses, want convergence to %d", v, -historyMax)
	}
}

func TestUpdateHistoryDeltaClamps(t *testing.T) {
	var v int16
	for i := 0; i < 10000; i++ {
		updateHistoryDelta(&v, historyMax)
		if v > historyMax || v < -historyMax {
			t.Fatalf("iteration %d: v=%d escaped [-%d, %d]", i, v, historyMax, historyMax)
		}
	}
	if v != historyMax {
		t.Errorf("v = %d after repeated max-delta updates, want convergence to %d", v, historyMax)
	}
}

func TestUpdateHistoryDeltaNegative(t *testing.T) {
	var v int16
	for i := 0; i < 10000; i++ {
		updateHistoryDelta(&v, -historyMax)
	}
	if v != -historyMax {
		t.Errorf("v = %d after repeated negative-max-delta updates, want convergence to %d", v, -historyMax)
	}
}

// TestCorrectionRoundTrip checks that correcting a static eval toward a
// search result and then reading it back moves the correction in the
// right direction and never past the win/loss bound.
func TestCorrectionRoundTrip(t *testing.T) {
	var p, err = chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if err != nil {
		t.Fatal(err)
	}
	var h historyTables
	var cc = correctionContext{
		h:     &h,
		side:  p.WhiteMove,
		pawn:  pawnKeyIndex(&p),
		white: nonPawnMaterialIndex(&p, true),
		black: nonPawnMaterialIndex(&p, false),
		cont:  -1,
	}

	var staticEval = 20
	if corrected := cc.Correct(staticEval, 0); corrected != staticEval {
		t.Errorf("Correct on a fresh table = %d, want the uncorrected eval %d", corrected, staticEval)
	}

	for i := 0; i < 64; i++ {
		cc.Update(8, staticEval+300, staticEval, 0)
	}
	var corrected = cc.Correct(staticEval, 0)
	if corrected <= staticEval {
		t.Errorf("Correct after repeated upward updates = %d, want > %d", corrected, staticEval)
	}
	if corrected >= valueWin {
		t.Errorf("Correct = %d, want it clamped below valueWin (%d)", corrected, valueWin)
	}
}

// TestHistoryContextReadsPawnAndLowPlyTables checks that ReadQuiet
// actually sees what UpdateQuiets wrote into the pawn-structure and
// low-ply stripes, not just the main table, and that a node past
// lowPlyHistorySize never touches the low-ply stripe at all.
func TestHistoryContextReadsPawnAndLowPlyTables(t *testing.T) {
	var p, err = chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if err != nil {
		t.Fatal(err)
	}
	var move = firstQuietMove(t, &p)

	var h historyTables
	var hc = historyContext{h: &h, sideToMove: p.WhiteMove, cont1: -1, cont2: -1,
		pawnIdx: pawnHistoryIndex(&p), ply: 0}

	var before = hc.ReadQuiet(move)
	hc.UpdateQuiets([]chess.Move{move}, move, 6)
	var after = hc.ReadQuiet(move)
	if after <= before {
		t.Errorf("ReadQuiet after a good update = %d, want > %d", after, before)
	}
	if h.pawn[hc.pawnIdx][pieceToIndex(move)] == 0 {
		t.Error("UpdateQuiets never wrote into the pawn-history stripe")
	}
	if h.lowPly[0][fromToIndex(move)] == 0 {
		t.Error("UpdateQuiets never wrote into the low-ply stripe at ply 0")
	}

	var h2 historyTables
	var deepHc = historyContext{h: &h2, sideToMove: p.WhiteMove, cont1: -1, cont2: -1,
		pawnIdx: pawnHistoryIndex(&p), ply: lowPlyHistorySize}
	deepHc.UpdateQuiets([]chess.Move{move}, move, 6)
	for i := range h2.lowPly {
		for j := range h2.lowPly[i] {
			if h2.lowPly[i][j] != 0 {
				t.Fatalf("UpdateQuiets at ply %d wrote into the low-ply stripe, which only covers plies < %d",
					lowPlyHistorySize, lowPlyHistorySize)
			}
		}
	}
}

func firstQuietMove(t *testing.T, p *chess.Position) chess.Move {
	for _, m := range p.GenerateLegalMoves() {
		if !m.CaptureStage() {
			return m
		}
	}
	t.Fatal("expected the starting position to have a quiet legal move")
	return chess.MoveEmpty
}

func TestHistoryTablesClearResetsEverything(t *testing.T) {
	var h historyTables
	h.main[0] = 100
	h.capture[0] = 100
	h.pawn[0][0] = 100
	h.lowPly[0][0] = 100
	h.continuation[0][0] = 100
	h.pawnCorrection[0][0] = 100
	h.nonPawnCorrection[0][0][0] = 100
	h.contCorrection[0][0] = 100

	h.clear()

	if h.main[0] != 0 || h.capture[0] != 0 || h.pawn[0][0] != 0 || h.lowPly[0][0] != 0 || h.continuation[0][0] != 0 ||
		h.pawnCorrection[0][0] != 0 || h.nonPawnCorrection[0][0][0] != 0 || h.contCorrection[0][0] != 0 {
		t.Error("clear left a nonzero entry behind")
	}
}
