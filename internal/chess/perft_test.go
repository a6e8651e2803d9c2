package chess

import "testing"

// https://www.chessprogramming.org/Perft_Results
func TestPerft(t *testing.T) {
	var tests = []struct {
		fen   string
		depth int
		nodes int
	}{
		{InitialPositionFEN, 4, 197281},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 3, 62379},
	}
	for i, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(err)
		}
		var nodes = perft(&p, test.depth)
		if nodes != test.nodes {
			t.Errorf("test %d (%s): got %d nodes at depth %d, want %d", i, test.fen, nodes, test.depth, test.nodes)
		}
	}
}

func perft(p *Position, depth int) int {
	var buf [MaxMoves]OrderedMove
	var child Position
	var result = 0
	for _, om := range p.GenerateMoves(buf[:]) {
		if !p.MakeMove(om.Move, &child) {
			continue
		}
		if depth > 1 {
			result += perft(&child, depth-1)
		} else {
			result++
		}
	}
	return result
}
