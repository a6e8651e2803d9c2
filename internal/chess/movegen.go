package chess

var (
	whiteKingSideCastle  = makeMove(SquareE1, SquareG1, King, Empty)
	whiteQueenSideCastle = makeMove(SquareE1, SquareC1, King, Empty)
	blackKingSideCastle  = makeMove(SquareE8, SquareG8, King, Empty)
	blackQueenSideCastle = makeMove(SquareE8, SquareC8, King, Empty)
)

var (
	f1g1Mask = uint64(1)<<SquareF1 | uint64(1)<<SquareG1
	b1d1Mask = uint64(1)<<SquareB1 | uint64(1)<<SquareC1 | uint64(1)<<SquareD1
	f8g8Mask = uint64(1)<<SquareF8 | uint64(1)<<SquareG8
	b8d8Mask = uint64(1)<<SquareB8 | uint64(1)<<SquareC8 | uint64(1)<<SquareD8
)

func addPromotions(ml []OrderedMove, move Move) int {
	ml[0] = OrderedMove{Move: move ^ Move(Queen<<18)}
	ml[1] = OrderedMove{Move: move ^ Move(Rook<<18)}
	ml[2] = OrderedMove{Move: move ^ Move(Bishop<<18)}
	ml[3] = OrderedMove{Move: move ^ Move(Knight<<18)}
	return 4
}

// GenerateMoves fills buf with every pseudo-legal quiet and noisy move
// (captures, promotions, castling, en passant) for the side to move,
// restricting the target set to check-evasion squares when in check.
// Callers must filter the result through MakeMove's legality check.
func (p *Position) GenerateMoves(buf []OrderedMove) []OrderedMove {
	var n = 0
	var ownPieces, oppPieces uint64
	if p.WhiteMove {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}

	var target = ^ownPieces
	if p.Checkers != 0 {
		var kingSq = FirstOne(p.Kings & ownPieces)
		target = p.Checkers | BetweenBB(FirstOne(p.Checkers), kingSq)
	}

	var allPieces = p.White | p.Black
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB := PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			buf[n] = OrderedMove{Move: makeMove(from, p.EpSquare, Pawn, Pawn)}
			n++
		}
	}

	if p.WhiteMove {
		for fromBB := ownPawns & ^Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			if (SquareMask(from+8) & allPieces) == 0 {
				buf[n] = OrderedMove{Move: makeMove(from, from+8, Pawn, Empty)}
				n++
				if Rank(from) == Rank2 && (SquareMask(from+16)&allPieces) == 0 {
					buf[n] = OrderedMove{Move: makeMove(from, from+16, Pawn, Empty)}
					n++
				}
			}
			if File(from) > FileA && (SquareMask(from+7)&oppPieces) != 0 {
				buf[n] = OrderedMove{Move: makeMove(from, from+7, Pawn, p.PieceOn(from+7))}
				n++
			}
			if File(from) < FileH && (SquareMask(from+9)&oppPieces) != 0 {
				buf[n] = OrderedMove{Move: makeMove(from, from+9, Pawn, p.PieceOn(from+9))}
				n++
			}
		}
		for fromBB := ownPawns & Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			if (SquareMask(from+8) & allPieces) == 0 {
				n += addPromotions(buf[n:], makeMove(from, from+8, Pawn, Empty))
			}
			if File(from) > FileA && (SquareMask(from+7)&oppPieces) != 0 {
				n += addPromotions(buf[n:], makeMove(from, from+7, Pawn, p.PieceOn(from+7)))
			}
			if File(from) < FileH && (SquareMask(from+9)&oppPieces) != 0 {
				n += addPromotions(buf[n:], makeMove(from, from+9, Pawn, p.PieceOn(from+9)))
			}
		}
	} else {
		for fromBB := ownPawns & ^Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			if (SquareMask(from-8) & allPieces) == 0 {
				buf[n] = OrderedMove{Move: makeMove(from, from-8, Pawn, Empty)}
				n++
				if Rank(from) == Rank7 && (SquareMask(from-16)&allPieces) == 0 {
					buf[n] = OrderedMove{Move: makeMove(from, from-16, Pawn, Empty)}
					n++
				}
			}
			if File(from) > FileA && (SquareMask(from-9)&oppPieces) != 0 {
				buf[n] = OrderedMove{Move: makeMove(from, from-9, Pawn, p.PieceOn(from-9))}
				n++
			}
			if File(from) < FileH && (SquareMask(from-7)&oppPieces) != 0 {
				buf[n] = OrderedMove{Move: makeMove(from, from-7, Pawn, p.PieceOn(from-7))}
				n++
			}
		}
		for fromBB := ownPawns & Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			if (SquareMask(from-8) & allPieces) == 0 {
				n += addPromotions(buf[n:], makeMove(from, from-8, Pawn, Empty))
			}
			if File(from) > FileA && (SquareMask(from-9)&oppPieces) != 0 {
				n += addPromotions(buf[n:], makeMove(from, from-9, Pawn, p.PieceOn(from-9)))
			}
			if File(from) < FileH && (SquareMask(from-7)&oppPieces) != 0 {
				n += addPromotions(buf[n:], makeMove(from, from-7, Pawn, p.PieceOn(from-7)))
			}
		}
	}

	for fromBB := p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := KnightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			buf[n] = OrderedMove{Move: makeMove(from, to, Knight, p.PieceOn(to))}
			n++
		}
	}
	for fromBB := p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			buf[n] = OrderedMove{Move: makeMove(from, to, Bishop, p.PieceOn(to))}
			n++
		}
	}
	for fromBB := p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			buf[n] = OrderedMove{Move: makeMove(from, to, Rook, p.PieceOn(to))}
			n++
		}
	}
	for fromBB := p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			buf[n] = OrderedMove{Move: makeMove(from, to, Queen, p.PieceOn(to))}
			n++
		}
	}

	var kingFrom = FirstOne(p.Kings & ownPieces)
	for toBB := KingAttacks[kingFrom] &^ ownPieces; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		buf[n] = OrderedMove{Move: makeMove(kingFrom, to, King, p.PieceOn(to))}
		n++
	}

	if p.WhiteMove {
		if (p.CastleRights&WhiteKingSide) != 0 && (allPieces&f1g1Mask) == 0 &&
			!p.isAttackedBy(SquareE1, false) && !p.isAttackedBy(SquareF1, false) {
			buf[n] = OrderedMove{Move: whiteKingSideCastle}
			n++
		}
		if (p.CastleRights&WhiteQueenSide) != 0 && (allPieces&b1d1Mask) == 0 &&
			!p.isAttackedBy(SquareE1, false) && !p.isAttackedBy(SquareD1, false) {
			buf[n] = OrderedMove{Move: whiteQueenSideCastle}
			n++
		}
	} else {
		if (p.CastleRights&BlackKingSide) != 0 && (allPieces&f8g8Mask) == 0 &&
			!p.isAttackedBy(SquareE8, true) && !p.isAttackedBy(SquareF8, true) {
			buf[n] = OrderedMove{Move: blackKingSideCastle}
			n++
		}
		if (p.CastleRights&BlackQueenSide) != 0 && (allPieces&b8d8Mask) == 0 &&
			!p.isAttackedBy(SquareE8, true) && !p.isAttackedBy(SquareD8, true) {
			buf[n] = OrderedMove{Move: blackQueenSideCastle}
			n++
		}
	}

	return buf[:n]
}

// GenerateCaptures fills buf with tactical moves only: captures,
// queen promotions (minor promotions are left out), and (when in
// check) every evasion — used by quiescence.
func (p *Position) GenerateCaptures(buf []OrderedMove) []OrderedMove {
	if p.Checkers != 0 {
		return p.GenerateMoves(buf)
	}

	var n = 0
	var ownPieces, oppPieces uint64
	if p.WhiteMove {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}
	var allPieces = p.White | p.Black
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB := PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			buf[n] = OrderedMove{Move: makeMove(from, p.EpSquare, Pawn, Pawn)}
			n++
		}
	}

	if p.WhiteMove {
		for fromBB := (AllBlackPawnAttacks(oppPieces) | Rank7Mask) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			var promo = Empty
			if Rank(from) == Rank7 {
				promo = Queen
			}
			if Rank(from) == Rank7 && (SquareMask(from+8)&allPieces) == 0 {
				buf[n] = OrderedMove{Move: makePawnMove(from, from+8, Empty, promo)}
				n++
			}
			if File(from) > FileA && (SquareMask(from+7)&oppPieces) != 0 {
				buf[n] = OrderedMove{Move: makePawnMove(from, from+7, p.PieceOn(from+7), promo)}
				n++
			}
			if File(from) < FileH && (SquareMask(from+9)&oppPieces) != 0 {
				buf[n] = OrderedMove{Move: makePawnMove(from, from+9, p.PieceOn(from+9), promo)}
				n++
			}
		}
	} else {
		for fromBB := (AllWhitePawnAttacks(oppPieces) | Rank2Mask) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			var promo = Empty
			if Rank(from) == Rank2 {
				promo = Queen
			}
			if Rank(from) == Rank2 && (SquareMask(from-8)&allPieces) == 0 {
				buf[n] = OrderedMove{Move: makePawnMove(from, from-8, Empty, promo)}
				n++
			}
			if File(from) > FileA && (SquareMask(from-9)&oppPieces) != 0 {
				buf[n] = OrderedMove{Move: makePawnMove(from, from-9, p.PieceOn(from-9), promo)}
				n++
			}
			if File(from) < FileH && (SquareMask(from-7)&oppPieces) != 0 {
				buf[n] = OrderedMove{Move: makePawnMove(from, from-7, p.PieceOn(from-7), promo)}
				n++
			}
		}
	}

	for fromBB := p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := KnightAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			buf[n] = OrderedMove{Move: makeMove(from, to, Knight, p.PieceOn(to))}
			n++
		}
	}
	for fromBB := p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := BishopAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			buf[n] = OrderedMove{Move: makeMove(from, to, Bishop, p.PieceOn(to))}
			n++
		}
	}
	for fromBB := p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := RookAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			buf[n] = OrderedMove{Move: makeMove(from, to, Rook, p.PieceOn(to))}
			n++
		}
	}
	for fromBB := p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := QueenAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			buf[n] = OrderedMove{Move: makeMove(from, to, Queen, p.PieceOn(to))}
			n++
		}
	}
	var kingFrom = FirstOne(p.Kings & ownPieces)
	for toBB := KingAttacks[kingFrom] & oppPieces; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		buf[n] = OrderedMove{Move: makeMove(kingFrom, to, King, p.PieceOn(to))}
		n++
	}

	return buf[:n]
}

// GenerateLegalMoves is a convenience for callers outside the hot
// search loop (protocol layer, tests, perft).
func (p *Position) GenerateLegalMoves() []Move {
	var buf [MaxMoves]OrderedMove
	var result []Move
	var child Position
	for _, om := range p.GenerateMoves(buf[:]) {
		if p.MakeMove(om.Move, &child) {
			result = append(result, om.Move)
		}
	}
	return result
}
