package engine

import (
	"sync/atomic"
	"unsafe"

	"github.com/mvaleev/zobrist-core/internal/chess"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

// ttEntry is 20 bytes: 18 bytes of fields padded to 4-byte
// alignment. gate is a
// spinlock bit: readers and writers both CAS it to 1 before touching
// the rest of the entry and clear it when done, so concurrent
// probes/updates from different search threads never tear a word.
type ttEntry struct {
	gate     int32
	key32    uint32
	moveDate uint32
	score    int16
	eval     int16
	depth    int8
	bound    uint8
}

func (e *ttEntry) move() chess.Move { return chess.Move(e.moveDate & 0x1fffff) }
func (e *ttEntry) date() uint16     { return uint16(e.moveDate >> 21) }

func (e *ttEntry) setMoveAndDate(move chess.Move, date uint16) {
	e.moveDate = uint32(move) + uint32(date)<<21
}

// TransTable is the shared, lock-free transposition table every
// search thread probes and updates concurrently.
type TransTable struct {
	megabytes int
	entries   []ttEntry
	date      uint16
	mask      uint32
}

// NewTransTable sizes the table to the largest power of two of
// ttEntry slots that fits in megabytes.
func NewTransTable(megabytes int) *TransTable {
	var size = roundPowerOfTwo(1024 * 1024 * megabytes / int(unsafe.Sizeof(ttEntry{})))
	if size < 1 {
		size = 1
	}
	return &TransTable{
		megabytes: megabytes,
		entries:   make([]ttEntry, size),
		mask:      uint32(size - 1),
	}
}

func (tt *TransTable) Size() int { return tt.megabytes }

// NewSearch bumps the generation counter so stale entries from
// earlier searches are preferred for replacement without being
// zeroed out (aging, not clearing).
func (tt *TransTable) NewSearch() { tt.date = (tt.date + 1) & 0x7ff }

func (tt *TransTable) Clear() {
	tt.date = 0
	for i := range tt.entries {
		tt.entries[i] = ttEntry{}
	}
}

// Hashfull estimates table occupancy in permille, sampled rather than
// scanned in full.
func (tt *TransTable) Hashfull() int {
	const sample = 1000
	var used int
	for i := 0; i < sample && i < len(tt.entries); i++ {
		if tt.entries[i].date() == tt.date && tt.entries[i].key32 != 0 {
			used++
		}
	}
	if len(tt.entries) < sample {
		return used * 1000 / len(tt.entries)
	}
	return used
}

func (tt *TransTable) Read(key uint64) (depth, score, eval, bound int, move chess.Move, ok bool) {
	var entry = &tt.entries[uint32(key)&tt.mask]
	if atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
		if entry.key32 == uint32(key>>32) {
			entry.setMoveAndDate(entry.move(), tt.date)
			score = int(entry.score)
			eval = int(entry.eval)
			move = entry.move()
			depth = int(entry.depth)
			bound = int(entry.bound)
			ok = true
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
	return
}

func (tt *TransTable) Update(key uint64, depth, score, eval, bound int, move chess.Move) {
	var entry = &tt.entries[uint32(key)&tt.mask]
	if atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
		var replace bool
		if entry.key32 == uint32(key>>32) {
			replace = depth >= int(entry.depth)-3 || bound == boundExact
		} else {
			replace = entry.date() != tt.date || depth >= int(entry.depth)
		}
		if replace {
			if move == chess.MoveEmpty && entry.key32 == uint32(key>>32) {
				move = entry.move()
			}
			entry.key32 = uint32(key >> 32)
			entry.score = int16(score)
			entry.eval = int16(eval)
			entry.depth = int8(depth)
			entry.bound = uint8(bound)
			entry.setMoveAndDate(move, tt.date)
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
}
