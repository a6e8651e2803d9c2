package engine

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

// errSearchTimeout is recovered at the top of each worker's search
// loop: alphaBeta panics with it instead of threading a deadline
// check through every return path, matching how deeply the check in
// incNodes would otherwise have to be plumbed.
var errSearchTimeout = errors.New("search timeout")

// thread is one lazy-SMP search worker. Each owns a private move
// stack and history tables; only the transposition table and the
// engine's running best line are shared across threads.
type thread struct {
	engine    *Engine
	history   historyTables
	evaluator Evaluator
	nodes     int64
	rootDepth int
	selDepth  int
	stack     [stackSize]stackEntry

	// rootMoves holds the current MultiPV lines, best first.
	// excludedRootMoves is the set of moves a MultiPV pass has
	// already claimed for an earlier, better-scoring line: the root
	// node of alphaBeta skips them so the next pass finds the best
	// line among what's left.
	rootMoves         []RootMove
	excludedRootMoves []chess.Move
}

func containsMove(moves []chess.Move, m chess.Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}

type searchTask struct {
	depth         int
	startingMove  chess.Move
	startingScore int
}

// runSearchThreads fans the configured thread count out over a shared
// channel of iterative-deepening tasks, joined through an errgroup:
// each worker pulls the next depth to search. The group carries no
// context; every worker stops once the time manager's context is
// cancelled, which incNodes notices and unwinds with errSearchTimeout.
func runSearchThreads(e *Engine) {
	var ml = e.genRootMoves()
	if len(ml) != 0 {
		e.mainLine = mainLine{depth: 0, score: 0, moves: []chess.Move{ml[0]}}
	}
	if len(ml) <= 1 {
		return
	}

	var tasks = make(chan searchTask)
	var results = make(chan mainLine)

	var group errgroup.Group
	for i := range e.threads {
		var t = &e.threads[i]
		var moves = cloneMoves(ml)
		group.Go(func() error {
			searchWorker(t, moves, tasks, results)
			return nil
		})
	}

	go func() {
		_ = group.Wait()
		close(results)
	}()

	iterativeDeepening(e, tasks, results)
}

func iterativeDeepening(e *Engine, tasks chan<- searchTask, results <-chan mainLine) {
	var searchCountByDepth [stackSize]int
	for {
		var task = searchTask{
			depth:         e.mainLine.depth + 1,
			startingMove:  e.mainLine.moves[0],
			startingScore: e.mainLine.score,
		}
		if task.depth < len(searchCountByDepth) &&
			searchCountByDepth[task.depth] >= (e.Options.Threads+1)/2 &&
			e.timeManager.shouldIncreaseDepth() {
			task.depth = e.mainLine.depth + 2
		}

		if task.depth > maxHeight || e.timeManager.isDone() {
			if tasks != nil {
				close(tasks)
				tasks = nil
			}
		}

		select {
		case result, ok := <-results:
			if !ok {
				return
			}
			e.nodes += result.nodes
			if result.depth > e.mainLine.depth {
				e.onIterationComplete(result)
			}
		case tasks <- task:
			if task.depth < len(searchCountByDepth) {
				searchCountByDepth[task.depth]++
			}
		}
	}
}

func searchWorker(t *thread, ml []chess.Move, tasks <-chan searchTask, results chan<- mainLine) {
	defer func() {
		if r := recover(); r != nil {
			if r == errSearchTimeout {
				return
			}
			panic(r)
		}
	}()

	for h := 0; h <= 2; h++ {
		t.stack[h].killer1 = chess.MoveEmpty
		t.stack[h].killer2 = chess.MoveEmpty
	}

	const height = 0
	var multiPV = t.engine.Options.MultiPV
	if multiPV > len(ml) {
		multiPV = len(ml)
	}
	if multiPV < 1 {
		multiPV = 1
	}
	t.rootMoves = make([]RootMove, multiPV)

	for task := range tasks {
		if task.startingMove != chess.MoveEmpty {
			if idx := findMoveIndex(ml, task.startingMove); idx >= 0 {
				moveToBegin(ml, idx)
			}
		}

		t.excludedRootMoves = t.excludedRootMoves[:0]
		for pvIdx := 0; pvIdx < multiPV; pvIdx++ {
			var startingScore = task.startingScore
			if pvIdx > 0 {
				startingScore = t.rootMoves[pvIdx].Score
			}
			var nodesBefore = t.nodes
			var score = aspirationWindow(t, ml, task.depth, startingScore)
			var pv = t.stack[height].pv.toSlice()
			var move = chess.MoveEmpty
			if len(pv) != 0 {
				move = pv[0]
			}
			t.rootMoves[pvIdx] = RootMove{Move: move, Score: score, PV: pv, Effort: t.nodes - nodesBefore}
			if move != chess.MoveEmpty {
				t.excludedRootMoves = append(t.excludedRootMoves, move)
			}
		}
		t.excludedRootMoves = t.excludedRootMoves[:0]

		results <- mainLine{
			depth: task.depth,
			score: t.rootMoves[0].Score,
			moves: t.rootMoves[0].PV,
			nodes: t.nodes,
			lines: append([]RootMove(nil), t.rootMoves...),
		}
		t.nodes = 0
	}
}

func (e *Engine) genRootMoves() []chess.Move {
	var t = &e.threads[0]
	const height = 0
	var p = &t.stack[height].position
	_, _, _, _, transMove, _ := e.transTable.Read(p.Key)

	var mi = t.initMoveIterator(height, transMove)
	var result []chess.Move
	var child = &t.stack[height+1].position
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == chess.MoveEmpty {
			break
		}
		if p.MakeMove(move, child) {
			result = append(result, move)
		}
	}
	return result
}

func findMoveIndex(ml []chess.Move, move chess.Move) int {
	for i := range ml {
		if ml[i] == move {
			return i
		}
	}
	return -1
}

func moveToBegin(ml []chess.Move, index int) {
	if index == 0 {
		return
	}
	var item = ml[index]
	copy(ml[1:index+1], ml[:index])
	ml[0] = item
}

func cloneMoves(ml []chess.Move) []chess.Move {
	var result = make([]chess.Move, len(ml))
	copy(result, ml)
	return result
}
