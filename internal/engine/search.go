package engine

import (
	"github.com/mvaleev/zobrist-core/internal/chess"
	"github.com/mvaleev/zobrist-core/internal/tablebase"
)

const pawnValue = 100

var capturedPieceValue = [...]int{chess.Empty: 0, chess.Pawn: 100, chess.Knight: 320,
	chess.Bishop: 330, chess.Rook: 500, chess.Queen: 900, chess.King: 0}

// alphaBeta is the main negamax search. height is the ply from the
// search root (not to be confused with depth, which counts down
// remaining search effort); skipMove excludes one move from
// consideration, used only by the singular-extension probe below.
// cutNode is a hint from the parent that this node is expected to
// produce a fail-high (beta cutoff) rather than a new best line; it
// enables null-move pruning, an extra internal iterative reduction,
// larger late-move reductions, the singular negative extension and a
// smaller reverse-futility margin at this node.
func (t *thread) alphaBeta(alpha, beta, depth, height int, skipMove chess.Move, cutNode bool) int {
	if depth <= 0 {
		return t.quiescence(alpha, beta, height)
	}
	t.stack[height].pv.clear()

	var rootNode = height == 0
	var pvNode = beta != alpha+1
	var position = &t.stack[height].position
	var isCheck = position.IsCheck()
	var ttMoveIsSingular = false
	var singularExtension = 0
	var options = &t.engine.Options.Tuning

	if !rootNode {
		if height >= maxHeight {
			return t.evaluate(height)
		}
		if t.isRepeat(height) || position.IsRuleDraw() {
			return valueDraw
		}
		if winIn(height+1) <= alpha {
			return alpha
		}
		if lossIn(height+2) >= beta && !isCheck {
			return beta
		}
	}

	var (
		ttDepth, ttValue, ttEval, ttBound int
		ttMove                            chess.Move
		ttHit                             bool
	)
	if skipMove == chess.MoveEmpty {
		ttDepth, ttValue, ttEval, ttBound, ttMove, ttHit = t.engine.transTable.Read(position.Key)
	}
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttDepth >= depth && !pvNode && position.LastMove != chess.MoveEmpty {
			if ttValue >= beta && (ttBound&boundLower) != 0 {
				if ttMove != chess.MoveEmpty && !ttMove.CaptureStage() {
					t.updateKiller(ttMove, height)
				}
				return ttValue
			}
			if ttValue <= alpha && (ttBound&boundUpper) != 0 {
				return ttValue
			}
		}
	}

	if wdl, hit := tablebase.ProbeWDL(t.engine.Options.Tablebase, position.PieceCount()); hit {
		var value int
		switch wdl {
		case tablebase.WDLWin:
			value = valueWin - 1
		case tablebase.WDLLoss:
			value = valueLoss + 1
		default:
			value = valueDraw
		}
		t.engine.transTable.Update(position.Key, depth, valueToTT(value, height), 0, boundExact, chess.MoveEmpty)
		return value
	}

	var correction = t.getCorrectionContext(height)
	var rawEval int
	if ttHit && ttEval != 0 {
		rawEval = ttEval
	} else {
		rawEval = t.evaluator.Evaluate(position)
	}
	var currentPieceTo = 0
	if position.LastMove != chess.MoveEmpty {
		currentPieceTo = pieceToIndex(position.LastMove)
	}
	var staticEval = correction.Correct(rawEval, currentPieceTo)
	t.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > t.stack[height-2].staticEval
	var opponentWorsening = height >= 1 && staticEval+t.stack[height-1].staticEval > 0

	if height+2 <= maxHeight {
		t.stack[height+2].killer1 = chess.MoveEmpty
		t.stack[height+2].killer2 = chess.MoveEmpty
	}
	var child = &t.stack[height+1].position
	var historyContext = t.getHistoryContext(height)

	if !rootNode && skipMove == chess.MoveEmpty {

		// razoring: hopeless low-depth nodes drop straight to
		// quiescence instead of spending a full ply on them.
		if options.Razoring && !pvNode && !isCheck && depth <= 3 &&
			staticEval+pawnValue*depth < alpha {
			var value = t.quiescence(alpha, beta, height)
			if value < alpha {
				return value
			}
		}

		// reverse futility pruning: the margin required to prune
		// shrinks at a cut node with no TT hit, since we already
		// expect this node to fail high.
		if options.ReverseFutility && !pvNode && depth <= 8 && !isCheck {
			var marginPerPly = pawnValue
			if !ttHit && cutNode {
				marginPerPly -= 20
			}
			var margin = staticEval - marginPerPly*depth
			if improving {
				margin += pawnValue / 2
			}
			if opponentWorsening {
				margin += marginPerPly / 3
			}
			if margin >= beta {
				return staticEval
			}
		}

		// null-move pruning, with a shallow verification search on
		// the fail-high side so zugzwang doesn't get pruned away.
		// Only tried at a cut node: elsewhere the null-window guess
		// that we're about to fail high isn't trustworthy enough.
		if options.NullMovePruning && !pvNode && cutNode && depth >= 2 && !isCheck &&
			position.LastMove != chess.MoveEmpty &&
			beta < valueWin &&
			!(ttHit && ttValue < beta && (ttBound&boundUpper) != 0) &&
			!isLateEndgame(position, position.WhiteMove) &&
			staticEval >= beta {
			var reduction = 4 + depth/6 + min(2, (staticEval-beta)/200)
			t.makeMove(chess.MoveEmpty, height)
			var score = -t.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1, chess.MoveEmpty, true)
			t.unmakeMove()
			if score >= beta {
				if score >= valueWin {
					score = beta
				}
				if depth < 12 {
					return score
				}
				var verify = t.alphaBeta(beta-1, beta, depth-reduction, height, chess.MoveEmpty, false)
				if verify >= beta {
					return score
				}
			}
		}

		// internal iterative reduction: with no TT move to seed
		// ordering, shave a ply so we don't waste depth on a
		// poorly-ordered node; cut nodes get a second ply off since
		// we're more confident the position is going to fail high
		// anyway.
		if options.Iir && !ttHit && depth >= 4 {
			depth--
			if cutNode {
				depth--
			}
		}

		var probcutBeta = min(valueWin-1, beta+150)
		if options.Probcut && !pvNode && depth >= 5 && !isCheck &&
			beta > valueLoss && beta < valueWin &&
			!(ttHit && ttDepth >= depth-4 && ttValue < probcutBeta && (ttBound&boundUpper) != 0) {
			var mi = moveIteratorQS{position: position, buffer: t.stack[height].moveList[:]}
			mi.Init()
			for mi.Reset(); ; {
				var move = mi.Next()
				if move == chess.MoveEmpty {
					break
				}
				if !chess.SeeGEZero(position, move) {
					continue
				}
				if !t.makeMove(move, height) {
					continue
				}
				var score = -t.quiescence(-probcutBeta, -probcutBeta+1, height+1)
				if score >= probcutBeta {
					score = -t.alphaBeta(-probcutBeta, -probcutBeta+1, depth-4, height+1, chess.MoveEmpty, !cutNode)
				}
				t.unmakeMove()
				if score >= probcutBeta {
					// a capture that beats even this inflated beta
					// earns the same trust a regular beta cutoff
					// would, and the result is stored at the
					// shallower depth the verification actually ran.
					historyContext.UpdateCaptures([]chess.Move{move}, move, depth)
					var stored = score
					if score < valueWin {
						stored -= probcutBeta - beta
					}
					t.engine.transTable.Update(position.Key, depth-3, valueToTT(stored, height), rawEval, boundLower, move)
					return stored
				}
			}
		}

		// singular extension: verify the TT move is uniquely good at
		// a reduced depth before trusting it enough to extend it. A
		// move that still beats beta at the reduced depth is good
		// enough to cut here outright (multi-cut); one that falls
		// short of beta but was already trusted by the TT, or that
		// we only reached via a cut-node guess, earns a shrink
		// instead of a stretch.
		if options.SingularExt && depth >= 8 &&
			ttHit && ttMove != chess.MoveEmpty &&
			(ttBound&boundLower) != 0 && ttDepth >= depth-3 &&
			ttValue > valueLoss && ttValue < valueWin {
			var singularBeta = max(-valueInfinity, ttValue-depth)
			var value = t.alphaBeta(singularBeta-1, singularBeta, depth/2, height, ttMove, cutNode)
			if value < singularBeta {
				ttMoveIsSingular = true
			} else if singularBeta >= beta {
				return singularBeta
			} else if ttValue >= beta {
				singularExtension = -3
			} else if cutNode {
				singularExtension = -2
			}
		}
	}

	var mi = t.initMoveIterator(height, ttMove)
	var killer1 = t.stack[height].killer1
	var killer2 = t.stack[height].killer2

	var movesSearched = 0
	var hasLegalMove = false
	var quietsSeen = 0
	var quietsSearched = t.stack[height].quietsSearched[:0]
	var capturesSearched []chess.Move
	var bestMove chess.Move

	// movecount threshold: at a fixed depth, once this many quiets
	// have been tried with no sign of improvement, stop generating
	// new ones and fall through to captures only.
	var movecountDivisor = 2
	if improving {
		movecountDivisor = 1
	}
	var futilityMoveCount = (3 + depth*depth) / movecountDivisor

	var best = -valueInfinity
	var oldAlpha = alpha

	for mi.Reset(); ; {
		var move = mi.Next()
		if move == chess.MoveEmpty {
			break
		}
		if move == skipMove {
			continue
		}
		if rootNode && containsMove(t.excludedRootMoves, move) {
			continue
		}
		var isNoisy = move.CaptureStage()
		if !isNoisy {
			quietsSeen++
		}

		if depth <= 8 && best > valueLoss && hasLegalMove && !isCheck && !rootNode {
			if options.Lmp && !(isNoisy || move == killer1 || move == killer2) && quietsSeen > futilityMoveCount {
				mi.SkipQuiets()
				continue
			}
			if options.Futility && !(isNoisy || move == killer1 || move == killer2) &&
				staticEval+100+pawnValue*depth <= alpha {
				continue
			}
			if options.See {
				var seeMargin int
				if isNoisy {
					seeMargin = max(depth, (staticEval+pawnValue-alpha)/pawnValue)
				} else {
					seeMargin = depth / 2
				}
				if !chess.SeeGE(position, move, -seeMargin) {
					continue
				}
			}
		}

		if !t.makeMove(move, height) {
			continue
		}
		hasLegalMove = true
		movesSearched++

		var extension, reduction int
		if options.CheckExt && child.IsCheck() && depth >= 3 {
			extension = 1
		}
		if move == ttMove {
			if ttMoveIsSingular {
				extension = 1
				if !pvNode && t.stack[height].doubleExt < 4 {
					extension = 2
					t.stack[height+1].doubleExt = t.stack[height].doubleExt + 1
				}
			} else {
				extension = singularExtension
			}
		}

		if depth >= 3 && movesSearched > 1 && !isNoisy {
			reduction = options.Lmr(depth, movesSearched)
			if move == killer1 || move == killer2 {
				reduction--
			}
			if !isCheck {
				var history = historyContext.ReadQuiet(move)
				reduction -= max(-2, min(2, history/5000))
				if !improving {
					reduction++
				}
				if opponentWorsening {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if isCheck || child.IsCheck() {
				reduction--
			}
			if cutNode {
				reduction += 2
				if ttHit && ttDepth >= depth {
					reduction--
				}
			}
			reduction = max(reduction, 0) + extension
			reduction = max(0, min(depth-2, reduction))
		}

		if isNoisy {
			capturesSearched = append(capturesSearched, move)
		} else {
			quietsSearched = append(quietsSearched, move)
		}

		var newDepth = depth - 1 + extension
		var score = alpha + 1

		if reduction > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1, chess.MoveEmpty, true)
		}
		if score > alpha && beta != alpha+1 && movesSearched > 1 && newDepth > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1, chess.MoveEmpty, !cutNode)
		}
		if score > alpha {
			var childCutNode = !cutNode
			if pvNode {
				childCutNode = false
			}
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1, chess.MoveEmpty, childCutNode)
		}

		t.unmakeMove()

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.stack[height].pv.assign(move, &t.stack[height+1].pv)
			if alpha >= beta {
				break
			}
		}
	}

	if !hasLegalMove {
		if !isCheck && skipMove == chess.MoveEmpty {
			return valueDraw
		}
		return lossIn(height)
	}

	t.updateAllStats(height, historyContext, quietsSearched, capturesSearched, bestMove, alpha, oldAlpha, depth, isCheck)

	if depth >= 3 && !isCheck && (bestMove == chess.MoveEmpty || !bestMove.CaptureStage()) &&
		!(best >= beta && best <= staticEval) && !(best < alpha && best >= staticEval) {
		correction.Update(depth, best, rawEval, currentPieceTo)
	}

	if skipMove == chess.MoveEmpty {
		ttBound = 0
		if best > oldAlpha {
			ttBound |= boundLower
		}
		if best < beta {
			ttBound |= boundUpper
		}
		if !(rootNode && ttBound == boundUpper) {
			t.engine.transTable.Update(position.Key, depth, valueToTT(best, height), rawEval, ttBound, bestMove)
		}
	}

	return best
}

// updateAllStats applies the gravity-rule bonus/malus to every table
// (quiet history, capture history, killers) once a node's best move
// is known, matching the "update_all_stats" step that follows the
// move loop.
func (t *thread) updateAllStats(height int, hc historyContext,
	quietsSearched, capturesSearched []chess.Move, bestMove chess.Move,
	alpha, oldAlpha, depth int, isCheck bool) {

	if alpha <= oldAlpha || bestMove == chess.MoveEmpty {
		return
	}
	if bestMove.CaptureStage() {
		hc.UpdateCaptures(capturesSearched, bestMove, depth)
		return
	}
	hc.UpdateQuiets(quietsSearched, bestMove, depth)
	hc.UpdateCaptures(capturesSearched, chess.MoveEmpty, depth)
	t.updateKiller(bestMove, height)
}

func (t *thread) quiescence(alpha, beta, height int) int {
	t.stack[height].pv.clear()
	var position = &t.stack[height].position

	if position.IsRuleDraw() {
		return valueDraw
	}
	if height >= maxHeight {
		return t.evaluate(height)
	}
	if t.isRepeat(height) {
		return valueDraw
	}

	var _, ttValue, _, ttBound, _, ttHit = t.engine.transTable.Read(position.Key)
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttBound == boundExact ||
			(ttBound == boundLower && ttValue >= beta) ||
			(ttBound == boundUpper && ttValue <= alpha) {
			return ttValue
		}
	}

	var isCheck = position.IsCheck()
	var best = -valueInfinity
	var standPat int
	if !isCheck {
		standPat = t.evaluate(height)
		best = standPat
		if standPat > alpha {
			alpha = standPat
			if alpha >= beta {
				return alpha
			}
		}
	}

	var mi = moveIteratorQS{position: position, buffer: t.stack[height].moveList[:]}
	mi.Init()
	var hasLegalMove = false
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == chess.MoveEmpty {
			break
		}
		if !isCheck {
			if standPat+pawnValue+capturedPieceValue[move.CapturedPiece()] < alpha {
				continue
			}
			if !chess.SeeGEZero(position, move) {
				continue
			}
		}
		if !t.makeMove(move, height) {
			continue
		}
		hasLegalMove = true
		var score = -t.quiescence(-beta, -alpha, height+1)
		t.unmakeMove()
		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
			t.stack[height].pv.assign(move, &t.stack[height+1].pv)
			if alpha >= beta {
				break
			}
		}
	}
	if isCheck && !hasLegalMove {
		return lossIn(height)
	}
	return best
}

func (t *thread) evaluate(height int) int {
	var correction = t.getCorrectionContext(height)
	var raw = t.evaluator.Evaluate(&t.stack[height].position)
	var currentPieceTo = 0
	if t.stack[height].position.LastMove != chess.MoveEmpty {
		currentPieceTo = pieceToIndex(t.stack[height].position.LastMove)
	}
	return correction.Correct(raw, currentPieceTo)
}

func (t *thread) incNodes() {
	t.nodes++
	if t.nodes&1023 == 0 {
		if t.engine.Options.Threads == 1 {
			t.engine.timeManager.onNodesChanged(int(t.engine.mainLine.nodes + t.nodes))
		}
		if t.engine.timeManager.isDone() {
			panic(errSearchTimeout)
		}
	}
}

func (t *thread) isRepeat(height int) bool {
	var p = &t.stack[height].position
	if p.Rule50 == 0 || p.LastMove == chess.MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var ancestor = &t.stack[i].position
		if ancestor.SameRepetition(p) {
			return true
		}
		if ancestor.Rule50 == 0 || ancestor.LastMove == chess.MoveEmpty {
			return false
		}
	}
	return t.engine.historyKeys[p.Key] >= 2
}

func isLateEndgame(p *chess.Position, white bool) bool {
	var own = p.PiecesByColor(white)
	return ((p.Rooks|p.Queens)&own) == 0 && !chess.MoreThanOne((p.Knights|p.Bishops)&own)
}

func (t *thread) updateKiller(move chess.Move, height int) {
	if t.stack[height].killer1 != move {
		t.stack[height].killer2 = t.stack[height].killer1
		t.stack[height].killer1 = move
	}
}

func (t *thread) makeMove(move chess.Move, height int) bool {
	var pos = &t.stack[height].position
	var child = &t.stack[height+1].position
	if move == chess.MoveEmpty {
		pos.MakeNullMove(child)
	} else if !pos.MakeMove(move, child) {
		return false
	}
	t.incNodes()
	if height+1 > t.selDepth {
		t.selDepth = height + 1
	}
	return true
}

func (t *thread) unmakeMove() {}
