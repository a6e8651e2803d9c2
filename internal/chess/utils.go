package chess

// GivesCheck reports whether making move from p would check the
// opponent. The engine's search does not call it: its check extension
// tests the child position's IsCheck instead.
func (p *Position) GivesCheck(move Move) bool {
	var child Position
	if !p.MakeMove(move, &child) {
		return false
	}
	return child.IsCheck()
}

// Capture reports whether move is a normal capture or en passant. It
// excludes promotions that don't also capture.
func (m Move) Capture() bool { return m.CapturedPiece() != Empty }

// CaptureStage matches Stockfish's capture_stage: captures and
// queen promotions are treated as "noisy" by move ordering and
// quiescence, minor promotions are not.
func (m Move) CaptureStage() bool {
	return m.CapturedPiece() != Empty || m.Promotion() == Queen
}

func Let(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}
