package chess

// Move packs from/to/moving-piece/captured-piece/promotion into a
// 32-bit int, wide enough that movegen and SEE read MovingPiece and
// CapturedPiece on every hot-loop move without a board lookup. See
// DESIGN.md for the tradeoff against a tighter 16-bit encoding.
type Move int32

const MoveEmpty Move = 0

// OrderedMove pairs a pseudo-legal move with a move-ordering score so
// the move picker (internal/engine) can sort in place without a
// separate score slice.
type OrderedMove struct {
	Move Move
	Key  int32
}

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15))
}

func makePawnMove(from, to, capturedPiece, promotion int) Move {
	return Move(from ^ (to << 6) ^ (Pawn << 12) ^ (capturedPiece << 15) ^ (promotion << 18))
}

func (m Move) From() int          { return int(m & 63) }
func (m Move) To() int            { return int((m >> 6) & 63) }
func (m Move) MovingPiece() int   { return int((m >> 12) & 7) }
func (m Move) CapturedPiece() int { return int((m >> 15) & 7) }
func (m Move) Promotion() int     { return int((m >> 18) & 7) }

func (m Move) IsCaptureOrPromotion() bool {
	return m.CapturedPiece() != Empty || m.Promotion() != Empty
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var promo = ""
	if m.Promotion() != Empty {
		promo = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + promo
}
