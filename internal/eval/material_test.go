package eval

import (
	"testing"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

func TestEvaluateMaterialImbalance(t *testing.T) {
	var e = New()

	var white, err = chess.NewPositionFromFEN("4k3/8/8/8/8/3Q4/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if score := e.Evaluate(&white); score <= 0 {
		t.Errorf("white to move with an extra queen evaluated to %d, want > 0", score)
	}

	var black, err2 = chess.NewPositionFromFEN("4k3/8/8/8/8/3Q4/8/4K3 b - - 0 1")
	if err2 != nil {
		t.Fatal(err2)
	}
	if score := e.Evaluate(&black); score >= 0 {
		t.Errorf("black to move facing an extra white queen evaluated to %d, want < 0", score)
	}
}

func TestEvaluateStartingPositionIsSymmetric(t *testing.T) {
	var e = New()
	var p, err = chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if err != nil {
		t.Fatal(err)
	}
	if score := e.Evaluate(&p); score != 0 {
		t.Errorf("starting position evaluated to %d, want 0", score)
	}
}

func TestPstAtMirrorsBetweenColors(t *testing.T) {
	for sq := 0; sq < 64; sq++ {
		for _, piece := range [...]int{chess.Pawn, chess.Knight, chess.Bishop, chess.Rook, chess.Queen, chess.King} {
			var white = pstAt(piece, sq, true)
			var black = pstAt(piece, chess.FlipSquare(sq), false)
			if white != black {
				t.Fatalf("pstAt(%d, %d, white) = %d, pstAt(%d, %d, black) = %d, want equal",
					piece, sq, white, piece, chess.FlipSquare(sq), black)
			}
		}
	}
}
