package engine

import "github.com/mvaleev/zobrist-core/internal/chess"

// historyMax bounds every saturating counter in this file; gravity
// updates pull a counter toward +historyMax or -historyMax but never
// let it overshoot.
const historyMax = 1 << 14

// updateHistory applies the "gravity rule": move v toward newVal by an
// amount proportional to bonus, shrinking faster the closer v already
// is to newVal so repeated identical bonuses saturate instead of
// diverging.
func updateHistory(v *int16, bonus int, good bool) {
	var newVal int
	if good {
		newVal = historyMax
	} else {
		newVal = -historyMax
	}
	var delta = (newVal - int(*v)) * bonus / 512
	if delta == 0 && bonus > 0 && int(*v) != newVal {
		// the proportional step truncates to zero one short of the
		// limit; take that last step so the counter reaches it.
		if newVal > int(*v) {
			delta = 1
		} else {
			delta = -1
		}
	}
	*v += int16(delta)
}

func updateHistoryDelta(v *int16, delta int) {
	var clamped = delta - int(*v)*abs(delta)/historyMax
	*v += int16(clamped)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// historyTables is one search thread's private move-ordering memory.
// Every store here is read and written only by the owning thread, so
// no synchronization is needed even though threads share the
// transposition table.
const lowPlyHistorySize = 4

type historyTables struct {
	main         [1 << 13]int16            // side<<12 | from<<6 | to
	capture      [7 * 64 * 7]int16
	pawn         [1 << 11][7 * 64]int16    // [pawnStructureIndex][pieceToIndex]
	lowPly       [lowPlyHistorySize][1 << 12]int16 // [ply][from<<6|to]
	continuation [1 << 10][1 << 10]int16   // [prevPieceTo][pieceTo]

	pawnCorrection    [2][1 << 13]int16    // [side][pawnKeyIndex]
	nonPawnCorrection [2][2][1 << 13]int16 // [side][pieceColor][materialKeyIndex]
	contCorrection    [1 << 10][1 << 10]int16
}

func (h *historyTables) clear() {
	for i := range h.main {
		h.main[i] = 0
	}
	for i := range h.capture {
		h.capture[i] = 0
	}
	for i := range h.pawn {
		for j := range h.pawn[i] {
			h.pawn[i][j] = 0
		}
	}
	for i := range h.lowPly {
		for j := range h.lowPly[i] {
			h.lowPly[i][j] = 0
		}
	}
	for i := range h.continuation {
		for j := range h.continuation[i] {
			h.continuation[i][j] = 0
		}
	}
	for s := range h.pawnCorrection {
		for i := range h.pawnCorrection[s] {
			h.pawnCorrection[s][i] = 0
		}
	}
	for s := range h.nonPawnCorrection {
		for c := range h.nonPawnCorrection[s] {
			for i := range h.nonPawnCorrection[s][c] {
				h.nonPawnCorrection[s][c][i] = 0
			}
		}
	}
	for i := range h.contCorrection {
		for j := range h.contCorrection[i] {
			h.contCorrection[i][j] = 0
		}
	}
}

func sideFromToIndex(side bool, m chess.Move) int {
	var result = (m.From() << 6) | m.To()
	if side {
		result |= 1 << 12
	}
	return result
}

func pieceToIndex(m chess.Move) int {
	return (m.MovingPiece() << 6) | m.To()
}

func captureIndex(m chess.Move) int {
	return (m.MovingPiece()*64+m.To())*7 + m.CapturedPiece()
}

func pawnKeyIndex(p *chess.Position) int {
	return int(p.PawnKey() & (1<<13 - 1))
}

// pawnHistoryIndex buckets positions by pawn structure alone, separate
// from pawnKeyIndex's correction-history bucketing, since the two
// tables are sized differently.
func pawnHistoryIndex(p *chess.Position) int {
	return int(p.PawnKey() & (1<<11 - 1))
}

func fromToIndex(m chess.Move) int {
	return (m.From() << 6) | m.To()
}

func nonPawnMaterialIndex(p *chess.Position, white bool) int {
	return int(p.NonPawnKey(white) & (1<<13 - 1))
}

// historyContext bundles the indices needed to read/update one move's
// history contributions at a given stack height: the side to move and
// up to two continuation-history parents (the moves made one and two
// plies earlier).
type historyContext struct {
	h          *historyTables
	sideToMove bool
	cont1      int
	cont2      int
	pawnIdx    int
	ply        int
}

func (t *thread) getHistoryContext(height int) historyContext {
	var sideToMove = t.stack[height].position.WhiteMove
	var cont1, cont2 = -1, -1
	var prev1 = t.stack[height].position.LastMove
	if prev1 != chess.MoveEmpty {
		cont1 = pieceToIndex(prev1)
	}
	if height >= 1 {
		var prev2 = t.stack[height-1].position.LastMove
		if prev2 != chess.MoveEmpty {
			cont2 = pieceToIndex(prev2)
		}
	}
	return historyContext{
		h:          &t.history,
		sideToMove: sideToMove,
		cont1:      cont1,
		cont2:      cont2,
		pawnIdx:    pawnHistoryIndex(&t.stack[height].position),
		ply:        height,
	}
}

func (hc *historyContext) ReadQuiet(m chess.Move) int {
	var score = int(hc.h.main[sideFromToIndex(hc.sideToMove, m)])
	var pti = pieceToIndex(m)
	score += int(hc.h.pawn[hc.pawnIdx][pti])
	if hc.cont1 != -1 {
		score += int(hc.h.continuation[hc.cont1][pti])
	}
	if hc.cont2 != -1 {
		score += int(hc.h.continuation[hc.cont2][pti])
	}
	if hc.ply < lowPlyHistorySize {
		score += int(hc.h.lowPly[hc.ply][fromToIndex(m)])
	}
	return score
}

func (hc *historyContext) ReadCapture(m chess.Move) int {
	return int(hc.h.capture[captureIndex(m)])
}

// UpdateQuiets applies the stats-update gravity rule to every quiet
// move tried at this node: the move that raised alpha gets a positive
// bonus, all the quiets tried before it get an equal negative malus,
// scaled by depth so deeper, more trustworthy cutoffs move history
// further.
func (hc *historyContext) UpdateQuiets(quietsSearched []chess.Move, bestMove chess.Move, depth int) {
	var bonus = min(depth*depth, 400)
	for _, m := range quietsSearched {
		var good = m == bestMove
		updateHistory(&hc.h.main[sideFromToIndex(hc.sideToMove, m)], bonus, good)
		var pti = pieceToIndex(m)
		updateHistory(&hc.h.pawn[hc.pawnIdx][pti], bonus, good)
		if hc.cont1 != -1 {
			updateHistory(&hc.h.continuation[hc.cont1][pti], bonus, good)
		}
		if hc.cont2 != -1 {
			updateHistory(&hc.h.continuation[hc.cont2][pti], bonus, good)
		}
		if hc.ply < lowPlyHistorySize {
			updateHistory(&hc.h.lowPly[hc.ply][fromToIndex(m)], bonus, good)
		}
		if good {
			break
		}
	}
}

func (hc *historyContext) UpdateCaptures(capturesSearched []chess.Move, bestMove chess.Move, depth int) {
	var bonus = min(depth*depth, 400)
	for _, m := range capturesSearched {
		updateHistory(&hc.h.capture[captureIndex(m)], bonus, m == bestMove)
		if m == bestMove {
			break
		}
	}
}

// correctionContext reads and updates the three static-eval
// correction stripes: a pawn-structure stripe, a non-pawn-material
// stripe split by the material's own color, and a continuation stripe
// keyed the same way as quiet-move continuation history. Each stripe
// nudges the raw static eval toward what the search has learned that
// kind of position actually evaluates to after a full search.
type correctionContext struct {
	h     *historyTables
	side  bool
	pawn  int
	white int
	black int
	cont  int
}

func (t *thread) getCorrectionContext(height int) correctionContext {
	var p = &t.stack[height].position
	var cont = -1
	if height >= 1 {
		var prev = t.stack[height-1].position.LastMove
		if prev != chess.MoveEmpty {
			cont = pieceToIndex(prev)
		}
	}
	return correctionContext{
		h:     &t.history,
		side:  p.WhiteMove,
		pawn:  pawnKeyIndex(p),
		white: nonPawnMaterialIndex(p, true),
		black: nonPawnMaterialIndex(p, false),
		cont:  cont,
	}
}

const correctionScale = 1024

func (cc *correctionContext) Correct(staticEval int, currentPieceTo int) int {
	var sideIdx = 0
	if cc.side {
		sideIdx = 1
	}
	var correction = int(cc.h.pawnCorrection[sideIdx][cc.pawn]) +
		int(cc.h.nonPawnCorrection[sideIdx][0][cc.white]) +
		int(cc.h.nonPawnCorrection[sideIdx][1][cc.black])
	if cc.cont != -1 {
		correction += int(cc.h.contCorrection[cc.cont][currentPieceTo])
	}
	var corrected = staticEval + correction/correctionScale
	return clampValue(corrected, -valueWin+1, valueWin-1)
}

func (cc *correctionContext) Update(depth, bestValue, staticEval int, currentPieceTo int) {
	var delta = clampValue((bestValue-staticEval)*depth, -historyMax, historyMax)
	var sideIdx = 0
	if cc.side {
		sideIdx = 1
	}
	updateHistoryDelta(&cc.h.pawnCorrection[sideIdx][cc.pawn], delta)
	updateHistoryDelta(&cc.h.nonPawnCorrection[sideIdx][0][cc.white], delta)
	updateHistoryDelta(&cc.h.nonPawnCorrection[sideIdx][1][cc.black], delta)
	if cc.cont != -1 {
		updateHistoryDelta(&cc.h.contCorrection[cc.cont][currentPieceTo], delta)
	}
}

func clampValue(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
