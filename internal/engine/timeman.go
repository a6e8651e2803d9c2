package engine

import (
	"context"
	"math"
	"time"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

// timeManager derives a soft (optimum) and hard (maximum) time budget
// from the clock state at the start of a search and decides, after
// every completed iteration, whether the soft budget has effectively
// been reached given how the score and best move have been behaving.
// The hard budget is enforced by canceling ctx, which every search
// thread observes through incNodes.
type timeManager struct {
	start       time.Time
	limits      LimitsType
	threadCount int
	optimum     time.Duration
	maximum     time.Duration
	cancel      context.CancelFunc
	ctx         context.Context

	prevTimeReduction  float64
	totBestMoveChanges float64
	lastBestMove       chess.Move
	lastBestMoveDepth  int
	scoreHistory       [4]float64
	scoreCount         int
	increaseDepth      bool
}

func newTimeManager(ctx context.Context, start time.Time, limits LimitsType,
	p *chess.Position, ply int, opts *Options) *timeManager {

	var tm = &timeManager{
		start:             start,
		limits:            limits,
		threadCount:       opts.Threads,
		prevTimeReduction: 1,
		increaseDepth:     true,
	}

	var overhead = time.Duration(opts.MoveOverheadMs) * time.Millisecond

	if limits.MoveTime > 0 {
		tm.maximum = time.Duration(limits.MoveTime)*time.Millisecond - overhead
		tm.optimum = tm.maximum
	} else if limits.WhiteTime > 0 || limits.BlackTime > 0 {
		var main, inc time.Duration
		if p.WhiteMove {
			main = time.Duration(limits.WhiteTime) * time.Millisecond
			inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
		} else {
			main = time.Duration(limits.BlackTime) * time.Millisecond
			inc = time.Duration(limits.BlackIncrement) * time.Millisecond
		}
		tm.optimum, tm.maximum = calcTimeLimits(main, inc, limits.MovesToGo, ply, overhead, opts.SlowMoverPercent)
		if opts.Ponder {
			tm.optimum += tm.optimum / 4
		}
		var adjustment = moveTimeAdjustment(opts.Tuning.UseMoveTimeNetwork, p)
		tm.optimum = time.Duration(float64(tm.optimum) * adjustment)
	}

	var cancelCtx context.CancelFunc
	if tm.maximum != 0 {
		ctx, cancelCtx = context.WithDeadline(ctx, start.Add(tm.maximum))
	} else {
		ctx, cancelCtx = context.WithCancel(ctx)
	}
	tm.ctx = ctx
	tm.cancel = cancelCtx
	return tm
}

func (tm *timeManager) onNodesChanged(nodes int) {
	if tm.limits.Nodes > 0 && nodes >= tm.limits.Nodes {
		tm.cancel()
	}
}

// onIterationComplete is the per-depth stop decision: a hard limit
// (depth limit, mate limit, or a mate score already found) cancels
// immediately (the node limit is checked by onNodesChanged instead);
// otherwise the optimum budget is scaled by score stability (falling
// eval, best-move churn across recent iterations) to decide whether
// the next iteration is worth starting.
func (tm *timeManager) onIterationComplete(line mainLine) {
	if tm.limits.Infinite {
		return
	}
	if tm.limits.Depth != 0 && line.depth >= tm.limits.Depth {
		tm.cancel()
		return
	}
	if tm.limits.Mate != 0 &&
		(line.score >= winIn(2*tm.limits.Mate) || line.score <= lossIn(2*tm.limits.Mate)) {
		tm.cancel()
		return
	}
	if line.score >= winIn(line.depth-5) || line.score <= lossIn(line.depth-5) {
		tm.cancel()
		return
	}
	if tm.optimum == 0 {
		return
	}

	var totalTime, nodesEffort = tm.updateEffort(line)
	var elapsed = time.Since(tm.start)
	tm.increaseDepth = elapsed >= time.Duration(0.506*float64(totalTime))

	if float64(elapsed) > totalTime {
		tm.cancel()
		return
	}
	if line.depth >= 10 && nodesEffort >= 97 && float64(elapsed) > 0.739*totalTime {
		tm.cancel()
	}
}

// updateEffort folds the just-completed iteration into the rolling
// score/best-move-change history and returns the scaled soft budget
// (in nanoseconds, as a float64 to match totalTime's formula) plus
// this iteration's nodesEffort, both needed by the stop decision.
func (tm *timeManager) updateEffort(line mainLine) (totalTime, nodesEffort float64) {
	var bestMove = chess.MoveEmpty
	var effort int64
	if len(line.lines) != 0 {
		bestMove = line.lines[0].Move
		effort = line.lines[0].Effort
	}
	if line.nodes > 0 {
		nodesEffort = float64(effort) * 100 / float64(line.nodes)
	}

	tm.totBestMoveChanges /= 2
	if bestMove != chess.MoveEmpty && bestMove != tm.lastBestMove {
		tm.totBestMoveChanges++
		tm.lastBestMove = bestMove
		tm.lastBestMoveDepth = line.depth
	}

	var bestValue = float64(line.score)
	var slot = tm.scoreCount % len(tm.scoreHistory)
	var iterValue = bestValue
	var prevAvgScore = bestValue
	if tm.scoreCount >= len(tm.scoreHistory) {
		iterValue = tm.scoreHistory[slot]
	}
	if tm.scoreCount >= 2 {
		var a = tm.scoreHistory[(tm.scoreCount-1)%len(tm.scoreHistory)]
		var b = tm.scoreHistory[(tm.scoreCount-2)%len(tm.scoreHistory)]
		prevAvgScore = (a + b) / 2
	}
	tm.scoreHistory[slot] = bestValue
	tm.scoreCount++

	var fallingEval = clampFloat((11+2*(prevAvgScore-bestValue)+(iterValue-bestValue))/100, 0.58, 1.67)

	var timeReduction = 0.687
	if tm.lastBestMoveDepth+8 < line.depth {
		timeReduction = 1.495
	}
	var reduction = (1.48 + tm.prevTimeReduction) / (2.17 * timeReduction)
	tm.prevTimeReduction = timeReduction

	var instability = 1 + 1.88*tm.totBestMoveChanges/float64(max(1, tm.threadCount))

	totalTime = float64(tm.optimum) * fallingEval * reduction * instability
	return totalTime, nodesEffort
}

// shouldIncreaseDepth reports whether a helper thread that has
// already searched the current depth enough times should jump ahead
// to the next one instead of piling onto the same depth: only once
// the search has burned through a majority of its budget.
func (tm *timeManager) shouldIncreaseDepth() bool {
	return tm.increaseDepth
}

func (tm *timeManager) isDone() bool {
	select {
	case <-tm.ctx.Done():
		return true
	default:
		return false
	}
}

func (tm *timeManager) close() { tm.cancel() }

// calcTimeLimits implements §4.7's two initial-budget shapes: sudden
// death (no movestogo) scales the optimum by how many plies into the
// game we are, moves-in-time divides what's left by the moves
// remaining. ply is the game ply at the search root (used only to
// taper the sudden-death budget as the game goes long).
func calcTimeLimits(main, inc time.Duration, movesToGo, ply int,
	overhead time.Duration, slowMoverPercent int) (optimum, maximum time.Duration) {

	// a1: the assumed moves-to-go when none is given by the GUI.
	const a1 = 50.0
	// b1-b4: the increment-dependent multiplier on the base scale.
	const b1, b2, b3, b4 = 100.0, 12.0, 100.0, 112.0
	// c1-c5, d1-d3: sudden-death optScale/maxScale tuning.
	const c1, c2, c3, c4, c5 = 120.0, 300.0, 45.0, 39.0, 20.0
	const d1, d2, d3 = 700.0, 400.0, 1200.0
	// e1-e3, f1-f3: moves-in-time optScale/maxScale tuning.
	const e1, e2, e3 = 88.0, 11640.0, 88.0
	const f1, f2, f3 = 630.0, 150.0, 11.0

	var mainMs = float64(main.Milliseconds())
	if mainMs < 1 {
		mainMs = 1
	}
	var incMs = float64(inc.Milliseconds())
	var overheadMs = float64(overhead.Milliseconds())

	var mtg = a1
	if movesToGo > 0 && float64(movesToGo) < a1 {
		mtg = float64(movesToGo)
	}

	var timeLeft = mainMs + incMs*(mtg-1) - overheadMs*(2+mtg)
	if timeLeft < 1 {
		timeLeft = 1
	}

	var optExtra = clampFloat(b1/100+b2/100*incMs/mainMs, b3/100, b4/100)

	var slowMover = float64(slowMoverPercent)
	if slowMover <= 0 {
		slowMover = 100
	}
	timeLeft = slowMover * timeLeft / 100

	var optScale, maxScale float64
	if movesToGo == 0 {
		optScale = minFloat(c1/10000+math.Pow(float64(ply)+c2/100, c3/100)*c4/10000,
			c5/100*mainMs/timeLeft) * optExtra
		maxScale = minFloat(d1/100, d2/100+float64(ply)/(d3/100))
	} else {
		optScale = minFloat((e1/100+float64(ply)/(e2/100))/mtg, e3/100*mainMs/timeLeft)
		maxScale = minFloat(f1/100, f2/100+f3/100*mtg)
	}

	var optimumMs = optScale * timeLeft
	var maximumMs = minFloat(0.84*mainMs-overheadMs, maxScale*optimumMs) - 10
	if maximumMs < optimumMs {
		maximumMs = optimumMs
	}
	if maximumMs < 1 {
		maximumMs = 1
	}

	optimum = time.Duration(optimumMs) * time.Millisecond
	maximum = time.Duration(maximumMs) * time.Millisecond
	return
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
