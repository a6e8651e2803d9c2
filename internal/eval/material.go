// Package eval implements the static positional evaluator the search
// core treats as a black box: a centipawn-scale score for the side to
// move. Deliberately a plain material + piece-square-table evaluator,
// grounded on pkg/eval/material and pkg/eval/pesto's tapered-PST
// idiom, not a tuned NNUE.
package eval

import "github.com/mvaleev/zobrist-core/internal/chess"

var pieceValue = [7]int{chess.Empty: 0, chess.Pawn: 100, chess.Knight: 320,
	chess.Bishop: 330, chess.Rook: 500, chess.Queen: 900, chess.King: 0}

// pst[piece][square] holds a single untapered bonus from white's point
// of view, mirrored for black at evaluation time via FlipSquare.
var pst = buildPST()

// Evaluator implements internal/engine.Evaluator, returning a
// centipawn score for the side to move.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

func (e *Evaluator) Evaluate(p *chess.Position) int {
	var score = evaluateSide(p, true) - evaluateSide(p, false)
	if !p.WhiteMove {
		score = -score
	}
	return score
}

func evaluateSide(p *chess.Position, white bool) int {
	var own uint64
	if white {
		own = p.White
	} else {
		own = p.Black
	}
	var score int
	for bb := p.Pawns & own; bb != 0; bb &= bb - 1 {
		score += pieceValue[chess.Pawn] + pstAt(chess.Pawn, chess.FirstOne(bb), white)
	}
	for bb := p.Knights & own; bb != 0; bb &= bb - 1 {
		score += pieceValue[chess.Knight] + pstAt(chess.Knight, chess.FirstOne(bb), white)
	}
	for bb := p.Bishops & own; bb != 0; bb &= bb - 1 {
		score += pieceValue[chess.Bishop] + pstAt(chess.Bishop, chess.FirstOne(bb), white)
	}
	for bb := p.Rooks & own; bb != 0; bb &= bb - 1 {
		score += pieceValue[chess.Rook] + pstAt(chess.Rook, chess.FirstOne(bb), white)
	}
	for bb := p.Queens & own; bb != 0; bb &= bb - 1 {
		score += pieceValue[chess.Queen] + pstAt(chess.Queen, chess.FirstOne(bb), white)
	}
	for bb := p.Kings & own; bb != 0; bb &= bb - 1 {
		score += pstAt(chess.King, chess.FirstOne(bb), white)
	}
	return score
}

func pstAt(piece, sq int, white bool) int {
	if !white {
		sq = chess.FlipSquare(sq)
	}
	return pst[piece][sq]
}

// buildPST constructs small, hand-legible piece-square tables
// (centralisation bonus, pawn advance bonus) good enough to drive
// search decisions in tests without claiming any tuned playing
// strength — the evaluator's internals are explicitly out of scope.
func buildPST() [7][64]int {
	var t [7][64]int
	for sq := 0; sq < 64; sq++ {
		var file, rank = chess.File(sq), chess.Rank(sq)
		var centerFile = 3 - abs(file-3)
		var centerRank = 3 - abs(rank-3)
		t[chess.Knight][sq] = 4 * (centerFile + centerRank)
		t[chess.Bishop][sq] = 3 * (centerFile + centerRank)
		t[chess.Queen][sq] = 1 * (centerFile + centerRank)
		t[chess.Pawn][sq] = 4 * rank
		t[chess.King][sq] = -2 * (centerFile + centerRank)
	}
	return t
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
