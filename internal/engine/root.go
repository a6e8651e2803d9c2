package engine

import "github.com/mvaleev/zobrist-core/internal/chess"

const aspirationWindowSize = 25

// aspirationWindow narrows the root search's alpha/beta window around
// the previous iteration's score once the search is deep enough to
// trust it, re-widening on either side whenever the narrow window
// fails rather than re-searching from scratch at full width.
func aspirationWindow(t *thread, ml []chess.Move, depth, prevScore int) int {
	t.rootDepth = depth
	if t.engine.Options.Tuning.AspirationWindows &&
		depth >= 5 && prevScore > valueLoss && prevScore < valueWin {
		var alpha = max(-valueInfinity, prevScore-aspirationWindowSize)
		var beta = min(valueInfinity, prevScore+aspirationWindowSize)
		var score = searchRoot(t, ml, alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
		if score >= beta {
			beta = valueInfinity
		}
		if score <= alpha {
			alpha = -valueInfinity
		}
		score = searchRoot(t, ml, alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
	}
	return searchRoot(t, ml, -valueInfinity, valueInfinity, depth)
}

func searchRoot(t *thread, ml []chess.Move, alpha, beta, depth int) int {
	const height = 0
	return t.alphaBeta(alpha, beta, depth, height, chess.MoveEmpty, false)
}
