package chess

// Named squares used by castling and pawn double-push logic. Computed
// rather than hand-enumerated to keep the mapping (file, rank) -> index
// obviously correct.
var (
	SquareA1 = MakeSquare(FileA, Rank1)
	SquareB1 = MakeSquare(FileB, Rank1)
	SquareC1 = MakeSquare(FileC, Rank1)
	SquareD1 = MakeSquare(FileD, Rank1)
	SquareE1 = MakeSquare(FileE, Rank1)
	SquareF1 = MakeSquare(FileF, Rank1)
	SquareG1 = MakeSquare(FileG, Rank1)
	SquareH1 = MakeSquare(FileH, Rank1)

	SquareA8 = MakeSquare(FileA, Rank8)
	SquareB8 = MakeSquare(FileB, Rank8)
	SquareC8 = MakeSquare(FileC, Rank8)
	SquareD8 = MakeSquare(FileD, Rank8)
	SquareE8 = MakeSquare(FileE, Rank8)
	SquareF8 = MakeSquare(FileF, Rank8)
	SquareG8 = MakeSquare(FileG, Rank8)
	SquareH8 = MakeSquare(FileH, Rank8)
)
