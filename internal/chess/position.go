package chess

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"unicode"
)

// Position is the mutable-by-copy board state the search stack holds
// one of per ply, stored in an array indexed by a ply cursor: MakeMove
// writes a fresh Position into the next stack slot rather than
// mutating in place, so "undo" is simply moving the cursor back one
// slot.
type Position struct {
	Pawns, Knights, Bishops, Rooks, Queens, Kings uint64
	White, Black, Checkers                        uint64
	WhiteMove                                     bool
	CastleRights, Rule50, EpSquare                int
	Key                                            uint64
	LastMove                                       Move
}

type coloredPiece struct {
	Type int
	Side bool
}

var castleMask [64]int

func NewPositionFromFEN(fen string) (Position, error) {
	var tokens = strings.Split(strings.TrimSpace(fen), " ")
	if len(tokens) < 4 {
		return Position{}, fmt.Errorf("chess: bad fen %q", fen)
	}

	var board [64]coloredPiece
	var sq = 0
	for _, ch := range tokens[0] {
		switch {
		case ch == '/':
			continue
		case unicode.IsDigit(ch):
			sq += int(ch - '0')
		default:
			board[FlipSquare(sq)] = parsePieceChar(ch)
			sq++
		}
	}

	var whiteMove = tokens[1] == "w"

	var cr int
	if strings.Contains(tokens[2], "K") {
		cr |= WhiteKingSide
	}
	if strings.Contains(tokens[2], "Q") {
		cr |= WhiteQueenSide
	}
	if strings.Contains(tokens[2], "k") {
		cr |= BlackKingSide
	}
	if strings.Contains(tokens[2], "q") {
		cr |= BlackQueenSide
	}

	var ep = ParseSquare(tokens[3])

	var rule50 = 0
	if len(tokens) > 4 {
		rule50, _ = strconv.Atoi(tokens[4])
	}

	var p, ok = newPosition(board, whiteMove, cr, ep, rule50)
	if !ok {
		return Position{}, fmt.Errorf("chess: illegal fen %q", fen)
	}
	return p, nil
}

func newPosition(board [64]coloredPiece, whiteMove bool, castleRights, ep, rule50 int) (Position, bool) {
	var p = Position{
		WhiteMove:    whiteMove,
		CastleRights: castleRights,
		EpSquare:     ep,
		Rule50:       rule50,
		LastMove:     MoveEmpty,
	}
	for sq, piece := range board {
		if piece.Type != Empty {
			xorPiece(&p, piece.Type, piece.Side, sq)
		}
	}
	p.Key = p.computeKey()
	p.Checkers = p.computeCheckers()
	if p.isAttackedBy(FirstOne(p.Kings&p.colorBB(!p.WhiteMove)), p.WhiteMove) {
		return Position{}, false
	}
	return p, true
}

func parsePieceChar(ch rune) coloredPiece {
	var side = unicode.IsUpper(ch)
	var idx = strings.IndexRune("pnbrqk", unicode.ToLower(ch))
	if idx < 0 {
		return coloredPiece{Empty, false}
	}
	return coloredPiece{idx + Pawn, side}
}

func (p *Position) colorBB(white bool) uint64 {
	if white {
		return p.White
	}
	return p.Black
}

// PieceOn returns the piece type occupying sq, or Empty.
func (p *Position) PieceOn(sq int) int {
	var bb = SquareMask(sq)
	if (p.White|p.Black)&bb == 0 {
		return Empty
	}
	switch {
	case p.Pawns&bb != 0:
		return Pawn
	case p.Knights&bb != 0:
		return Knight
	case p.Bishops&bb != 0:
		return Bishop
	case p.Rooks&bb != 0:
		return Rook
	case p.Queens&bb != 0:
		return Queen
	default:
		return King
	}
}

// SideToMove returns the side-to-move color (white=true).
func (p *Position) SideToMove() bool { return p.WhiteMove }

func (p *Position) AllPieces() uint64 { return p.White | p.Black }

func (p *Position) NonPawnMaterial(white bool) uint64 {
	return (p.Knights | p.Bishops | p.Rooks | p.Queens) & p.colorBB(white)
}

// PiecesByColor returns the bitboard of all pieces of one side.
func (p *Position) PiecesByColor(white bool) uint64 { return p.colorBB(white) }

func (p *Position) PieceCount() int { return PopCount(p.AllPieces()) }

func (p *Position) IsCheck() bool { return p.Checkers != 0 }

func (p *Position) Rule50Count() int { return p.Rule50 }

func (p *Position) IsChess960() bool { return false }

func xorPiece(p *Position, piece int, white bool, sq int) {
	var bb = SquareMask(sq)
	if white {
		p.White ^= bb
	} else {
		p.Black ^= bb
	}
	switch piece {
	case Pawn:
		p.Pawns ^= bb
	case Knight:
		p.Knights ^= bb
	case Bishop:
		p.Bishops ^= bb
	case Rook:
		p.Rooks ^= bb
	case Queen:
		p.Queens ^= bb
	case King:
		p.Kings ^= bb
	}
	p.Key ^= pieceSquareKeyAt(piece, white, sq)
}

func movePiece(p *Position, piece int, white bool, from, to int) {
	var bb = SquareMask(from) ^ SquareMask(to)
	if white {
		p.White ^= bb
	} else {
		p.Black ^= bb
	}
	switch piece {
	case Pawn:
		p.Pawns ^= bb
	case Knight:
		p.Knights ^= bb
	case Bishop:
		p.Bishops ^= bb
	case Rook:
		p.Rooks ^= bb
	case Queen:
		p.Queens ^= bb
	case King:
		p.Kings ^= bb
	}
	p.Key ^= pieceSquareKeyAt(piece, white, from) ^ pieceSquareKeyAt(piece, white, to)
}

// MakeMove applies move to src, writing the resulting position into
// dst, and reports whether the move was legal (the moving side's king
// is not left in check). Illegal results leave dst undefined; callers
// must not use dst when MakeMove returns false.
func (src *Position) MakeMove(move Move, dst *Position) bool {
	var from, to = move.From(), move.To()
	var movingPiece, capturedPiece = move.MovingPiece(), move.CapturedPiece()

	dst.Pawns, dst.Knights, dst.Bishops = src.Pawns, src.Knights, src.Bishops
	dst.Rooks, dst.Queens, dst.Kings = src.Rooks, src.Queens, src.Kings
	dst.White, dst.Black = src.White, src.Black

	dst.WhiteMove = !src.WhiteMove
	dst.Key = src.Key ^ sideToMoveKey

	dst.CastleRights = src.CastleRights & castleMask[from] & castleMask[to]
	dst.Key ^= castlingKey[dst.CastleRights^src.CastleRights]

	if movingPiece == Pawn || capturedPiece != Empty {
		dst.Rule50 = 0
	} else {
		dst.Rule50 = src.Rule50 + 1
	}

	dst.EpSquare = SquareNone
	if src.EpSquare != SquareNone {
		dst.Key ^= enPassantKey[File(src.EpSquare)]
	}

	if capturedPiece != Empty {
		if capturedPiece == Pawn && to == src.EpSquare {
			var capSq = to - 8
			if !src.WhiteMove {
				capSq = to + 8
			}
			xorPiece(dst, Pawn, !src.WhiteMove, capSq)
		} else {
			xorPiece(dst, capturedPiece, !src.WhiteMove, to)
		}
	}

	movePiece(dst, movingPiece, src.WhiteMove, from, to)

	switch movingPiece {
	case Pawn:
		if src.WhiteMove {
			if to == from+16 {
				dst.EpSquare = from + 8
				dst.Key ^= enPassantKey[File(from+8)]
			}
			if Rank(to) == Rank8 {
				xorPiece(dst, Pawn, true, to)
				xorPiece(dst, move.Promotion(), true, to)
			}
		} else {
			if to == from-16 {
				dst.EpSquare = from - 8
				dst.Key ^= enPassantKey[File(from-8)]
			}
			if Rank(to) == Rank1 {
				xorPiece(dst, Pawn, false, to)
				xorPiece(dst, move.Promotion(), false, to)
			}
		}
	case King:
		if src.WhiteMove {
			if from == SquareE1 && to == SquareG1 {
				movePiece(dst, Rook, true, SquareH1, SquareF1)
			} else if from == SquareE1 && to == SquareC1 {
				movePiece(dst, Rook, true, SquareA1, SquareD1)
			}
		} else {
			if from == SquareE8 && to == SquareG8 {
				movePiece(dst, Rook, false, SquareH8, SquareF8)
			} else if from == SquareE8 && to == SquareC8 {
				movePiece(dst, Rook, false, SquareA8, SquareD8)
			}
		}
	}

	if dst.isAttackedBy(FirstOne(dst.Kings&dst.colorBB(!dst.WhiteMove)), dst.WhiteMove) {
		return false
	}
	dst.Checkers = dst.computeCheckers()
	dst.LastMove = move
	return true
}

// MakeNullMove applies the null move used by null-move pruning: the
// side to move passes.
func (src *Position) MakeNullMove(dst *Position) {
	dst.Pawns, dst.Knights, dst.Bishops = src.Pawns, src.Knights, src.Bishops
	dst.Rooks, dst.Queens, dst.Kings = src.Rooks, src.Queens, src.Kings
	dst.White, dst.Black = src.White, src.Black
	dst.CastleRights = src.CastleRights
	dst.Rule50 = src.Rule50 + 1

	dst.WhiteMove = !src.WhiteMove
	dst.Key = src.Key ^ sideToMoveKey
	dst.EpSquare = SquareNone
	if src.EpSquare != SquareNone {
		dst.Key ^= enPassantKey[File(src.EpSquare)]
	}
	dst.Checkers = 0
	dst.LastMove = MoveEmpty
}

func (p *Position) isAttackedBy(sq int, byWhite bool) bool {
	var attackers = p.colorBB(byWhite)
	var occ = p.AllPieces()
	if PawnAttacks(sq, !byWhite)&p.Pawns&attackers != 0 {
		return true
	}
	if KnightAttacks[sq]&p.Knights&attackers != 0 {
		return true
	}
	if KingAttacks[sq]&p.Kings&attackers != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(p.Bishops|p.Queens)&attackers != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(p.Rooks|p.Queens)&attackers != 0 {
		return true
	}
	return false
}

func (p *Position) attackersTo(sq int, occ uint64) uint64 {
	return (blackPawnAttacks[sq] & p.Pawns & p.White) |
		(whitePawnAttacks[sq] & p.Pawns & p.Black) |
		(KnightAttacks[sq] & p.Knights) |
		(KingAttacks[sq] & p.Kings) |
		(BishopAttacks(sq, occ) & (p.Bishops | p.Queens)) |
		(RookAttacks(sq, occ) & (p.Rooks | p.Queens))
}

func (p *Position) computeCheckers() uint64 {
	var occ = p.AllPieces()
	if p.WhiteMove {
		return p.attackersTo(FirstOne(p.Kings&p.White), occ) & p.Black
	}
	return p.attackersTo(FirstOne(p.Kings&p.Black), occ) & p.White
}

// IsRuleDraw reports drawn-by-rule positions: the 50-move rule and
// insufficient material. Threefold repetition is handled separately
// by the search stack (it needs the move history, which a lone
// Position does not retain) using SameRepetition below to compare
// candidate ancestor positions.
func (p *Position) IsRuleDraw() bool {
	if p.Rule50 >= 100 {
		return true
	}
	if (p.Pawns|p.Rooks|p.Queens) == 0 && !MoreThanOne(p.Knights|p.Bishops) {
		return true
	}
	return false
}

// SameRepetition reports whether p and other are the same position
// for repetition-detection purposes: same piece placement, side to
// move, castling rights and en-passant square. The search stack walks
// its ancestor positions looking for a SameRepetition match within the
// last Rule50 plies to detect a repetition of an earlier position;
// upcoming repetitions (reachable in one move) are not detected.
func (p *Position) SameRepetition(other *Position) bool {
	return p.White == other.White && p.Black == other.Black &&
		p.Pawns == other.Pawns && p.Knights == other.Knights &&
		p.Bishops == other.Bishops && p.Rooks == other.Rooks &&
		p.Queens == other.Queens && p.Kings == other.Kings &&
		p.WhiteMove == other.WhiteMove &&
		p.CastleRights == other.CastleRights &&
		p.EpSquare == other.EpSquare
}

func (p *Position) CanCastle(rights int) bool { return p.CastleRights&rights != 0 }

var (
	sideToMoveKey  uint64
	enPassantKey   [8]uint64
	castlingKey    [16]uint64
	pieceSquareKey [7 * 2 * 64]uint64
)

func pieceIndex(pieceType int, white bool) int {
	if white {
		return pieceType
	}
	return pieceType + 7
}

func pieceSquareKeyAt(pieceType int, white bool, sq int) uint64 {
	return pieceSquareKey[pieceIndex(pieceType, white)*64+sq]
}

func (p *Position) computeKey() uint64 {
	var result uint64
	if p.WhiteMove {
		result ^= sideToMoveKey
	}
	result ^= castlingKey[p.CastleRights]
	if p.EpSquare != SquareNone {
		result ^= enPassantKey[File(p.EpSquare)]
	}
	for sq := 0; sq < 64; sq++ {
		var piece = p.PieceOn(sq)
		if piece != Empty {
			result ^= pieceSquareKeyAt(piece, (p.White&SquareMask(sq)) != 0, sq)
		}
	}
	return result
}

// PawnKey hashes only pawn placement, used by the search core's
// static-eval correction history to key on pawn structure regardless
// of everything else on the board.
func (p *Position) PawnKey() uint64 {
	var result uint64
	for bb := p.Pawns & p.White; bb != 0; bb &= bb - 1 {
		result ^= pieceSquareKeyAt(Pawn, true, FirstOne(bb))
	}
	for bb := p.Pawns & p.Black; bb != 0; bb &= bb - 1 {
		result ^= pieceSquareKeyAt(Pawn, false, FirstOne(bb))
	}
	return result
}

// NonPawnKey hashes the piece placement of one color's non-pawn
// material, used by the search core's correction history. The exact
// square of every hashed piece is part of the key.
func (p *Position) NonPawnKey(white bool) uint64 {
	var own uint64
	if white {
		own = p.White
	} else {
		own = p.Black
	}
	var result uint64
	for _, piece := range [...]int{Knight, Bishop, Rook, Queen, King} {
		for bb := p.pieceBB(piece) & own; bb != 0; bb &= bb-1 {
			result ^= pieceSquareKeyAt(piece, white, FirstOne(bb))
		}
	}
	return result
}

func (p *Position) pieceBB(piece int) uint64 {
	switch piece {
	case Pawn:
		return p.Pawns
	case Knight:
		return p.Knights
	case Bishop:
		return p.Bishops
	case Rook:
		return p.Rooks
	case Queen:
		return p.Queens
	case King:
		return p.Kings
	default:
		return 0
	}
}

func init() {
	var r = rand.New(rand.NewSource(20260806))
	sideToMoveKey = r.Uint64()
	for i := range enPassantKey {
		enPassantKey[i] = r.Uint64()
	}
	for i := range pieceSquareKey {
		pieceSquareKey[i] = r.Uint64()
	}
	var castleBits [4]uint64
	for i := range castleBits {
		castleBits[i] = r.Uint64()
	}
	for i := range castlingKey {
		for j := 0; j < 4; j++ {
			if i&(1<<uint(j)) != 0 {
				castlingKey[i] ^= castleBits[j]
			}
		}
	}

	for i := range castleMask {
		castleMask[i] = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	}
	castleMask[SquareA1] &^= WhiteQueenSide
	castleMask[SquareE1] &^= WhiteQueenSide | WhiteKingSide
	castleMask[SquareH1] &^= WhiteKingSide
	castleMask[SquareA8] &^= BlackQueenSide
	castleMask[SquareE8] &^= BlackQueenSide | BlackKingSide
	castleMask[SquareH8] &^= BlackKingSide
}

func (p *Position) String() string {
	var sb strings.Builder
	var empty = 0
	for i := 0; i < 64; i++ {
		var sq = FlipSquare(i)
		var piece = p.PieceOn(sq)
		if piece == Empty {
			empty++
		} else {
			if empty != 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			var white = (p.White & SquareMask(sq)) != 0
			sb.WriteString(pieceChar(piece, white))
		}
		if File(sq) == FileH {
			if empty != 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			if Rank(sq) != Rank1 {
				sb.WriteString("/")
			}
		}
	}
	sb.WriteString(" ")
	if p.WhiteMove {
		sb.WriteString("w")
	} else {
		sb.WriteString("b")
	}
	sb.WriteString(" ")
	if p.CastleRights == 0 {
		sb.WriteString("-")
	} else {
		if p.CastleRights&WhiteKingSide != 0 {
			sb.WriteString("K")
		}
		if p.CastleRights&WhiteQueenSide != 0 {
			sb.WriteString("Q")
		}
		if p.CastleRights&BlackKingSide != 0 {
			sb.WriteString("k")
		}
		if p.CastleRights&BlackQueenSide != 0 {
			sb.WriteString("q")
		}
	}
	sb.WriteString(" ")
	sb.WriteString(SquareName(p.EpSquare))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.Rule50))
	sb.WriteString(" 1")
	return sb.String()
}

func pieceChar(pieceType int, white bool) string {
	var s = string("pnbrqk"[pieceType-Pawn])
	if white {
		s = strings.ToUpper(s)
	}
	return s
}
