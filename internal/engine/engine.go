package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

// Engine is the top-level search coordinator the protocol layer
// drives: it owns the shared transposition table, builds one thread
// per configured search worker, and runs lazy-SMP iterative deepening
// across them for each "go" command.
type Engine struct {
	Options Options

	evalBuilder func() Evaluator
	transTable  *TransTable
	timeManager *timeManager
	threads     []thread
	historyKeys map[uint64]int

	progress func(SearchInfo)
	mainLine mainLine
	start    time.Time
	nodes    int64
}

func NewEngine(evalBuilder func() Evaluator) *Engine {
	return &Engine{
		Options:     NewOptions(),
		evalBuilder: evalBuilder,
	}
}

// Prepare (re)allocates the transposition table and thread pool to
// match Options, called on UCI "isready" and lazily before the first
// search.
func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Size() != e.Options.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = NewTransTable(e.Options.Hash)
	}
	if len(e.threads) != e.Options.Threads {
		e.threads = make([]thread, e.Options.Threads)
		for i := range e.threads {
			var t = &e.threads[i]
			t.engine = e
			t.evaluator = e.evalBuilder()
		}
	}
}

func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for i := range e.threads {
		e.threads[i].history.clear()
	}
}

// Search runs one complete iterative-deepening search and blocks
// until the time manager or ctx says stop. Progress snapshots are
// delivered through searchParams.Progress as the main line improves.
func (e *Engine) Search(ctx context.Context, searchParams SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()

	var p = &searchParams.Positions[len(searchParams.Positions)-1]
	var ply = len(searchParams.Positions) - 1
	e.timeManager = newTimeManager(ctx, e.start, searchParams.Limits, p, ply, &e.Options)
	defer e.timeManager.close()

	e.transTable.NewSearch()
	e.historyKeys = historyKeysFromPositions(searchParams.Positions)
	e.nodes = 0
	e.mainLine = mainLine{}
	for i := range e.threads {
		var t = &e.threads[i]
		t.nodes = 0
		t.selDepth = 0
		t.stack[0].position = *p
	}
	e.progress = searchParams.Progress

	runSearchThreads(e)

	for i := range e.threads {
		e.nodes += e.threads[i].nodes
		e.threads[i].nodes = 0
	}
	return e.currentSearchResult()
}

func historyKeysFromPositions(positions []chess.Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

func (e *Engine) currentSearchResult() SearchInfo {
	return e.searchInfoForLine(0)
}

// searchInfoForLine builds the UCI-facing snapshot for one MultiPV
// line, numbered from 1 as the protocol expects. Only the top line
// (idx 0) goes through the skill handicap: reporting a deliberately
// weakened move as a lower-ranked MultiPV line would be misleading.
func (e *Engine) searchInfoForLine(idx int) SearchInfo {
	var rm RootMove
	if idx < len(e.mainLine.lines) {
		rm = e.mainLine.lines[idx]
	} else {
		rm = RootMove{Score: e.mainLine.score, PV: e.mainLine.moves}
	}
	var si = SearchInfo{
		Depth:   e.mainLine.depth,
		MultiPV: idx + 1,
		Score:   newUciScore(rm.Score),
		Nodes:   e.nodes,
		Time:    time.Since(e.start),
	}
	if idx == 0 && (e.Options.SkillLevel < 20 || e.Options.LimitStrength) {
		si.MainLine = applySkill(e, rm.PV)
	} else {
		si.MainLine = rm.PV
	}
	return si
}

func (e *Engine) onIterationComplete(line mainLine) {
	line.nodes = e.nodes
	e.mainLine = line
	e.timeManager.onIterationComplete(line)
	if e.progress == nil || e.nodes < int64(e.Options.ProgressMinNodes) {
		return
	}
	var lineCount = len(line.lines)
	if lineCount == 0 {
		lineCount = 1
	}
	for i := 0; i < lineCount; i++ {
		e.progress(e.searchInfoForLine(i))
	}
}
