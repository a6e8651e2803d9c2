package engine

import (
	"math"
	"math/rand"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

// skillLevelFromElo anchors a UCI_Elo rating to the 0-20 skill level
// scale with the same cubic curve a strong engine uses to map its
// internal handicap knob onto a human-meaningful rating: the lowest
// Elo maps to level 0, the highest to about 18.4, and the curve bows
// away from a straight line in between, since playing strength doesn't
// scale linearly with how much search is thrown away.
func skillLevelFromElo(elo int) float64 {
	const eloMin, eloMax = 1320.0, 3190.0
	var e = (float64(elo) - eloMin) / (eloMax - eloMin)
	var level = ((37.2473*e-40.8525)*e+22.2943)*e - 0.311438
	if level < 0 {
		level = 0
	}
	if level > 20 {
		level = 20
	}
	return level
}

// applySkill implements the handicap: instead of always returning the
// single best root move, it samples among the top MultiPV candidates
// of the last completed iteration with a level-dependent random push
// toward weaker moves, so a low skill level plays noticeably less
// accurately rather than just "thinking less".
func applySkill(e *Engine, best []chess.Move) []chess.Move {
	var level = float64(e.Options.SkillLevel)
	if e.Options.LimitStrength {
		level = skillLevelFromElo(e.Options.UCIElo)
	}
	if level >= 20 || len(best) == 0 {
		return best
	}

	var candidates = e.rootMoveCandidates()
	if len(candidates) <= 1 {
		return best
	}

	var weakness = 120 - 2*level
	var topScore = candidates[0].Score
	var delta = max(0, min(topScore-candidates[len(candidates)-1].Score, pawnValue))
	var bestMove = candidates[0].Move
	var maxPush = -valueInfinity

	for i, rm := range candidates {
		var push = rm.Score
		if i > 0 {
			push += int(weakness * math.Abs(float64(rm.Score-topScore)) / 128)
		}
		push += delta * rand.Intn(int(weakness)) / 128
		if push > maxPush {
			maxPush = push
			bestMove = rm.Move
		}
	}
	if bestMove == best[0] {
		return best
	}
	return []chess.Move{bestMove}
}

// rootMoveCandidates reads the last completed iteration's MultiPV
// lines. A single-PV search only ever has one line, so applySkill
// naturally becomes a no-op (len(candidates) <= 1) without needing a
// special case here.
func (e *Engine) rootMoveCandidates() []RootMove {
	return e.mainLine.lines
}
