package engine

import "github.com/mvaleev/zobrist-core/internal/chess"

const sortKeyImportant = 100000

var mvvValue = [...]int{chess.Empty: 0, chess.Pawn: 1, chess.Knight: 2,
	chess.Bishop: 3, chess.Rook: 4, chess.Queen: 5, chess.King: 6}

func mvvlva(m chess.Move) int {
	return 8*(mvvValue[m.CapturedPiece()]+mvvValue[m.Promotion()]) - mvvValue[m.MovingPiece()]
}

// moveIteratorQS drives quiescence's move generation: captures and
// queen promotions only, or every evasion when in check, sorted once
// up front by MVV/LVA since quiescence never needs to skip quiets.
type moveIteratorQS struct {
	position *chess.Position
	buffer   []chess.OrderedMove
	count    int
	index    int
}

func (mi *moveIteratorQS) Init() {
	if mi.position.IsCheck() {
		mi.count = len(mi.position.GenerateMoves(mi.buffer))
	} else {
		mi.count = len(mi.position.GenerateCaptures(mi.buffer))
	}
	for i := 0; i < mi.count; i++ {
		var m = mi.buffer[i].Move
		var score int
		if m.Capture() || m.Promotion() != chess.Empty {
			score = sortKeyImportant + mvvlva(m)
		}
		mi.buffer[i].Key = int32(score)
	}
	sortMoves(mi.buffer[:mi.count])
}

func (mi *moveIteratorQS) Reset() { mi.index = 0 }

func (mi *moveIteratorQS) Next() chess.Move {
	if mi.index >= mi.count {
		return chess.MoveEmpty
	}
	var m = mi.buffer[mi.index].Move
	mi.index++
	return m
}

// moveIterator drives the main search's staged move ordering: the TT
// move first, then winning captures, then killers, then quiet history
// order, then losing captures — matching the classic "next_move /
// skip_quiet_moves" staging without materializing separate stages.
type moveIterator struct {
	position  *chess.Position
	buffer    []chess.OrderedMove
	history   historyContext
	transMove chess.Move
	killer1   chess.Move
	killer2   chess.Move
	count     int
	index     int
	skipQuiet bool
}

func (mi *moveIterator) Init() {
	mi.count = len(mi.position.GenerateMoves(mi.buffer))
	for i := 0; i < mi.count; i++ {
		var m = mi.buffer[i].Move
		var score int
		switch {
		case m == mi.transMove:
			score = sortKeyImportant + 4000
		case m.Capture() || m.Promotion() != chess.Empty:
			if chess.SeeGEZero(mi.position, m) {
				score = sortKeyImportant + 2000 + mvvlva(m)
			} else {
				score = sortKeyImportant/2 + mvvlva(m)
			}
			score += mi.history.ReadCapture(m)
		case m == mi.killer1:
			score = sortKeyImportant + 1001
		case m == mi.killer2:
			score = sortKeyImportant + 1000
		default:
			score = mi.history.ReadQuiet(m)
		}
		mi.buffer[i].Key = int32(score)
	}
}

func (mi *moveIterator) Reset() { mi.index = 0 }

func (mi *moveIterator) SkipQuiets() { mi.skipQuiet = true }

func (mi *moveIterator) Next() chess.Move {
	for {
		if mi.index >= mi.count {
			return chess.MoveEmpty
		}
		const sortMovesIndex = 1
		if mi.index <= sortMovesIndex {
			if mi.index == sortMovesIndex {
				sortMoves(mi.buffer[mi.index:mi.count])
			} else {
				moveToTop(mi.buffer[mi.index:mi.count])
			}
		}
		var m = mi.buffer[mi.index].Move
		mi.index++
		if mi.skipQuiet && !m.Capture() && m.Promotion() == chess.Empty {
			continue
		}
		return m
	}
}

func sortMoves(moves []chess.OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}

func (t *thread) initMoveIterator(height int, transMove chess.Move) *moveIterator {
	var mi = &moveIterator{
		position:  &t.stack[height].position,
		buffer:    t.stack[height].moveList[:],
		history:   t.getHistoryContext(height),
		transMove: transMove,
		killer1:   t.stack[height].killer1,
		killer2:   t.stack[height].killer2,
	}
	mi.Init()
	return mi
}

func moveToTop(ml []chess.OrderedMove) {
	var best = 0
	for i := 1; i < len(ml); i++ {
		if ml[i].Key > ml[best].Key {
			best = i
		}
	}
	if best != 0 {
		ml[0], ml[best] = ml[best], ml[0]
	}
}
