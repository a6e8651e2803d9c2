package engine

import (
	"context"
	"testing"
	"time"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

func TestCalcTimeLimitsSuddenDeathScalesWithClock(t *testing.T) {
	var lowOptimum, lowMaximum = calcTimeLimits(10*time.Second, 0, 0, 0, 0, 100)
	var highOptimum, highMaximum = calcTimeLimits(60*time.Second, 0, 0, 0, 0, 100)

	if lowOptimum <= 0 || lowMaximum <= 0 {
		t.Fatalf("expected positive budgets, got optimum=%v maximum=%v", lowOptimum, lowMaximum)
	}
	if lowOptimum >= highOptimum {
		t.Errorf("expected more main time to grow the optimum budget: %v vs %v", lowOptimum, highOptimum)
	}
	if lowMaximum < lowOptimum || highMaximum < highOptimum {
		t.Errorf("maximum should never be tighter than optimum: low(%v,%v) high(%v,%v)",
			lowOptimum, lowMaximum, highOptimum, highMaximum)
	}
}

func TestCalcTimeLimitsMovesToGoDividesRemainingTime(t *testing.T) {
	var fewMoves, _ = calcTimeLimits(30*time.Second, 0, 5, 10, 0, 100)
	var manyMoves, _ = calcTimeLimits(30*time.Second, 0, 40, 10, 0, 100)

	if fewMoves <= manyMoves {
		t.Errorf("fewer moves to go should claim a bigger share of the clock: %v vs %v", fewMoves, manyMoves)
	}
}

func TestCalcTimeLimitsIncrementGrowsOptimum(t *testing.T) {
	var noInc, _ = calcTimeLimits(20*time.Second, 0, 0, 0, 0, 100)
	var withInc, _ = calcTimeLimits(20*time.Second, 2*time.Second, 0, 0, 0, 100)

	if withInc <= noInc {
		t.Errorf("increment should inflate optExtra and raise the optimum: %v vs %v", noInc, withInc)
	}
}

func TestTimeManagerStopsOnceElapsedPassesTotalTime(t *testing.T) {
	var tm = &timeManager{
		optimum:           10 * time.Millisecond,
		prevTimeReduction: 1,
		increaseDepth:     true,
		start:             time.Now().Add(-time.Second),
	}
	tm.ctx, tm.cancel = context.WithCancel(context.Background())

	tm.onIterationComplete(mainLine{
		depth: 6,
		score: 20,
		nodes: 1000,
		lines: []RootMove{{Move: chess.Move(1), Score: 20, Effort: 1000}},
	})

	if !tm.isDone() {
		t.Error("expected the time manager to cancel once elapsed time exceeds the scaled budget")
	}
}

func TestTimeManagerBestMoveChurnRaisesInstability(t *testing.T) {
	var tm = &timeManager{optimum: time.Second, prevTimeReduction: 1, threadCount: 1}

	tm.updateEffort(mainLine{depth: 1, score: 10, nodes: 100, lines: []RootMove{{Move: chess.Move(1), Effort: 100}}})
	var stableTotal, _ = tm.updateEffort(mainLine{depth: 2, score: 10, nodes: 100, lines: []RootMove{{Move: chess.Move(1), Effort: 100}}})

	var churnTm = &timeManager{optimum: time.Second, prevTimeReduction: 1, threadCount: 1}
	churnTm.updateEffort(mainLine{depth: 1, score: 10, nodes: 100, lines: []RootMove{{Move: chess.Move(1), Effort: 100}}})
	var churnTotal, _ = churnTm.updateEffort(mainLine{depth: 2, score: 10, nodes: 100, lines: []RootMove{{Move: chess.Move(2), Effort: 100}}})

	if churnTotal <= stableTotal {
		t.Errorf("a changed best move should raise instability and inflate totalTime: stable=%v churn=%v",
			stableTotal, churnTotal)
	}
}

func TestTimeManagerShouldIncreaseDepthDefersUntilHalfBudget(t *testing.T) {
	var tm = &timeManager{
		optimum:           time.Second,
		prevTimeReduction: 1,
		increaseDepth:     true,
		start:             time.Now(),
	}
	tm.ctx, tm.cancel = context.WithCancel(context.Background())

	tm.onIterationComplete(mainLine{depth: 1, score: 0, nodes: 1, lines: []RootMove{{Move: chess.Move(1), Effort: 1}}})

	if tm.shouldIncreaseDepth() {
		t.Error("expected shouldIncreaseDepth to be false right after starting a fresh search, before half the budget is spent")
	}
}
