package chess

import "math/bits"

const (
	FileAMask uint64 = 0x0101010101010101 << iota
	FileBMask
	FileCMask
	FileDMask
	FileEMask
	FileFMask
	FileGMask
	FileHMask
)

const (
	Rank1Mask uint64 = 0xFF << (8 * iota)
	Rank2Mask
	Rank3Mask
	Rank4Mask
	Rank5Mask
	Rank6Mask
	Rank7Mask
	Rank8Mask
)

var FileMask = [8]uint64{FileAMask, FileBMask, FileCMask, FileDMask, FileEMask, FileFMask, FileGMask, FileHMask}

func PopCount(b uint64) int { return bits.OnesCount64(b) }

func FirstOne(b uint64) int { return bits.TrailingZeros64(b) }

func MoreThanOne(b uint64) bool { return b != 0 && (b&(b-1)) != 0 }

func shiftUp(b uint64) uint64    { return b << 8 }
func shiftDown(b uint64) uint64  { return b >> 8 }
func shiftRight(b uint64) uint64 { return (b & ^FileHMask) << 1 }
func shiftLeft(b uint64) uint64  { return (b & ^FileAMask) >> 1 }

func upRight(b uint64) uint64   { return shiftUp(shiftRight(b)) }
func upLeft(b uint64) uint64    { return shiftUp(shiftLeft(b)) }
func downRight(b uint64) uint64 { return shiftDown(shiftRight(b)) }
func downLeft(b uint64) uint64  { return shiftDown(shiftLeft(b)) }

func AllWhitePawnAttacks(b uint64) uint64 {
	return ((b & ^FileAMask) << 7) | ((b & ^FileHMask) << 9)
}

func AllBlackPawnAttacks(b uint64) uint64 {
	return ((b & ^FileAMask) >> 9) | ((b & ^FileHMask) >> 7)
}

var (
	squareMask                         [64]uint64
	whitePawnAttacks, blackPawnAttacks [64]uint64
	KnightAttacks                      [64]uint64
	KingAttacks                        [64]uint64
	betweenMask                        [64][64]uint64
	lineMask                           [64][64]uint64
)

func SquareMask(sq int) uint64 { return squareMask[sq] }

func PawnAttacks(sq int, white bool) uint64 {
	if white {
		return whitePawnAttacks[sq]
	}
	return blackPawnAttacks[sq]
}

func BetweenBB(s1, s2 int) uint64 { return betweenMask[s1][s2] }
func LineBB(s1, s2 int) uint64    { return lineMask[s1][s2] }

func init() {
	var rookShifts = [...]func(uint64) uint64{shiftUp, shiftRight, shiftDown, shiftLeft}
	var bishopShifts = [...]func(uint64) uint64{upRight, upLeft, downRight, downLeft}

	for sq := 0; sq < 64; sq++ {
		var b = uint64(1) << uint(sq)
		squareMask[sq] = b

		whitePawnAttacks[sq] = shiftUp(shiftLeft(b) | shiftRight(b))
		blackPawnAttacks[sq] = shiftDown(shiftLeft(b) | shiftRight(b))

		KnightAttacks[sq] = shiftRight(upRight(b)) | shiftUp(upRight(b)) |
			shiftUp(upLeft(b)) | shiftLeft(upLeft(b)) |
			shiftLeft(downLeft(b)) | shiftDown(downLeft(b)) |
			shiftDown(downRight(b)) | shiftRight(downRight(b))

		KingAttacks[sq] = upRight(b) | shiftUp(b) | upLeft(b) | shiftLeft(b) |
			downLeft(b) | shiftDown(b) | downRight(b) | shiftRight(b)

		var mask = rookMask[sq]
		var count = 1 << uint(PopCount(mask))
		for i := 0; i < count; i++ {
			var occ = magicOccupancy(mask, i)
			rookAttacksTable[sq][((rookMask[sq]&occ)*rookMagic[sq])>>rookShift] =
				slideAttacks(sq, occ, rookShifts[:])
		}

		mask = bishopMask[sq]
		count = 1 << uint(PopCount(mask))
		for i := 0; i < count; i++ {
			var occ = magicOccupancy(mask, i)
			bishopAttacksTable[sq][((bishopMask[sq]&occ)*bishopMagic[sq])>>bishopShift] =
				slideAttacks(sq, occ, bishopShifts[:])
		}
	}

	for s1 := 0; s1 < 64; s1++ {
		for s2 := 0; s2 < 64; s2++ {
			if s1 == s2 {
				continue
			}
			if (QueenAttacks(s1, 0) & squareMask[s2]) != 0 {
				var delta = (s2 - s1) / SquareDistance(s1, s2)
				for s := s1 + delta; s != s2; s += delta {
					betweenMask[s1][s2] |= squareMask[s]
				}
				lineMask[s1][s2] = squareMask[s1] | squareMask[s2] | betweenMask[s1][s2]
				for s := s2; ; s += delta {
					if s < 0 || s > 63 {
						break
					}
					lineMask[s1][s2] |= squareMask[s]
					if File(s) == 0 || File(s) == 7 || Rank(s) == 0 || Rank(s) == 7 {
						break
					}
				}
			}
		}
	}
}

func magicOccupancy(mask uint64, index int) uint64 {
	var result uint64
	var count = PopCount(mask)
	var bits = mask
	for i := 0; i < count; i++ {
		var lsb = bits & (bits - 1) ^ bits
		bits &= bits - 1
		if (index>>uint(i))&1 != 0 {
			result |= lsb
		}
	}
	return result
}

func slideAttacks(from int, occ uint64, shifts []func(uint64) uint64) uint64 {
	var result uint64
	for _, shift := range shifts {
		var x = shift(squareMask[from])
		for x != 0 {
			result |= x
			if (x & occ) != 0 {
				break
			}
			x = shift(x)
		}
	}
	return result
}
