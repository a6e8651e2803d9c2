package engine

import "github.com/mvaleev/zobrist-core/internal/chess"

// moveTimeFeatures is the width of the board fingerprint the optional
// move-time network reads: one plane per (color, piece type) pair over
// all 64 squares (2*6*64=768) minus the eight squares no pawn can
// occupy on either back rank for either color's pawn plane (2*8*2=32).
// No scalar features are added on top — the board planes alone are
// the network's entire input.
const moveTimeFeatures = 768 - 32

// moveTimeHidden is the hidden layer width — deliberately tiny, since
// this network only has to nudge a time allocation, not evaluate a
// position.
const moveTimeHidden = 2

// moveTimeNet is a minimal feed-forward network: one hidden layer of
// moveTimeHidden units with a ReLU, one linear output unit producing
// a multiplicative adjustment to the soft time limit. Weights here
// are a fixed, untrained placeholder — wiring the structure in is the
// point; training it is a separate offline step this module does not
// perform.
type moveTimeNet struct {
	w1 [moveTimeHidden][moveTimeFeatures]float32
	b1 [moveTimeHidden]float32
	w2 [moveTimeHidden]float32
	b2 float32
}

var defaultMoveTimeNet = newIdentityMoveTimeNet()

// newIdentityMoveTimeNet builds a network whose output is always 1.0
// regardless of input: it contributes no adjustment, and nothing in
// this package loads other weights, so turning UseMoveTimeNetwork on
// behaves like turning it off.
func newIdentityMoveTimeNet() *moveTimeNet {
	return &moveTimeNet{b2: 1}
}

// moveTimeFeatureVector encodes the board from the side-to-move's own
// orientation: identity for white, a 180-degree rotation for black, so
// the same feature index always means "the square two ranks in front
// of my own back rank" regardless of which side is moving.
func moveTimeFeatureVector(p *chess.Position) [moveTimeFeatures]float32 {
	var f [moveTimeFeatures]float32
	var idx int
	for _, piece := range [...]int{chess.Pawn, chess.Knight, chess.Bishop, chess.Rook, chess.Queen, chess.King} {
		for _, white := range [...]bool{true, false} {
			var bb = p.PiecesByColor(white) & pieceBBOf(p, piece)
			var lo, hi = 0, 64
			if piece == chess.Pawn {
				lo, hi = 8, 56
			}
			for sq := lo; sq < hi; sq++ {
				var boardSq = sq
				if !p.WhiteMove {
					boardSq = 63 - sq
				}
				if bb&chess.SquareMask(boardSq) != 0 {
					f[idx] = 1
				}
				idx++
			}
		}
	}
	return f
}

func pieceBBOf(p *chess.Position, piece int) uint64 {
	switch piece {
	case chess.Pawn:
		return p.Pawns
	case chess.Knight:
		return p.Knights
	case chess.Bishop:
		return p.Bishops
	case chess.Rook:
		return p.Rooks
	case chess.Queen:
		return p.Queens
	default:
		return p.Kings
	}
}

// Eval runs the forward pass and returns a multiplier meant to scale
// the soft time limit: >1 spends longer on this position, <1 moves
// on faster.
func (net *moveTimeNet) Eval(p *chess.Position) float64 {
	var features = moveTimeFeatureVector(p)
	var out = net.b2
	for h := 0; h < moveTimeHidden; h++ {
		var sum = net.b1[h]
		for i, x := range features {
			sum += net.w1[h][i] * x
		}
		if sum < 0 {
			sum = 0 // ReLU
		}
		out += net.w2[h] * sum
	}
	return float64(out)
}

// moveTimeAdjustment applies the network's multiplier to the time
// manager's soft limit when Tuning.UseMoveTimeNetwork is set; callers
// should treat a disabled network as a no-op multiplier of 1.
func moveTimeAdjustment(enabled bool, p *chess.Position) float64 {
	if !enabled {
		return 1
	}
	var out = defaultMoveTimeNet.Eval(p)
	if out < 0.4 {
		return 0.4
	}
	if out > 2.0 {
		return 2.0
	}
	return out
}
