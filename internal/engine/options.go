package engine

import "math"

// Tuning holds the search stack's adjustable settings: an on/off
// switch per pruning and extension technique, the move-time network
// switch and the late-move reduction table. The numeric margins and
// depth thresholds the search uses are constants in search.go, not
// fields here.
type Tuning struct {
	AspirationWindows bool
	NullMovePruning   bool
	Probcut           bool
	SingularExt       bool
	CheckExt          bool
	Razoring          bool
	ReverseFutility   bool
	Futility          bool
	Lmp               bool
	See               bool
	Iir               bool

	// UseMoveTimeNetwork switches on the small feed-forward network
	// that nudges the soft time limit per position instead of using
	// the plain clock-state formula. Off by default: the formula
	// alone is what every position at the root has actually been
	// tuned against.
	UseMoveTimeNetwork bool

	reductions [64][64]int
}

func NewTuning() Tuning {
	var t = Tuning{
		AspirationWindows: true,
		NullMovePruning:   true,
		Probcut:           true,
		SingularExt:       true,
		CheckExt:          true,
		Razoring:          true,
		ReverseFutility:   true,
		Futility:          true,
		Lmp:               true,
		See:               true,
		Iir:               true,
	}
	t.initLmr()
	return t
}

func (t *Tuning) Lmr(depth, moveNumber int) int {
	return t.reductions[min(depth, 63)][min(moveNumber, 63)]
}

func (t *Tuning) initLmr() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			t.reductions[d][m] = int(lmrFormula(float64(d), float64(m)))
		}
	}
}

func lmrFormula(d, m float64) float64 {
	return lirp(math.Log(d)*math.Log(m), math.Log(5)*math.Log(22), math.Log(63)*math.Log(63), 3, 8)
}

func lirp(x, x1, x2, y1, y2 float64) float64 {
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}

// Options gathers the UCI-exposed knobs the protocol layer sets via
// "setoption" before a search starts.
type Options struct {
	Hash              int
	Threads           int
	MultiPV           int
	SkillLevel        int
	LimitStrength     bool
	UCIElo            int
	ShowWDL           bool
	MoveOverheadMs    int
	SlowMoverPercent  int
	NodesTime         int
	Ponder            bool
	ProgressMinNodes  int
	Tablebase         TablebaseConfig
	Tuning            Tuning
}

func NewOptions() Options {
	return Options{
		Hash:             16,
		Threads:          1,
		MultiPV:          1,
		SkillLevel:       20,
		UCIElo:           2850,
		MoveOverheadMs:   300,
		SlowMoverPercent: 100,
		ProgressMinNodes: 1_000_000,
		Tuning:           NewTuning(),
	}
}
