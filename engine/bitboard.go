// Bitboard utilities
// Note bit 0 (low bit) is square A1, bit 63 (hi bit) is square H8

package engine

const fileA uint64 = 0x0101010101010101
const fileH uint64 = 0x8080808080808080

func N(bb uint64) uint64 { return bb << 8 }

func S(bb uint64) uint64 { return bb >> 8 }

func W(bb uint64) uint64 { return (bb & ^fileA) >> 1 }

func E(bb uint64) uint64 { return (bb & ^fileH) << 1 }

func NFill(bb uint64) uint64 {
	fill := bb
	fill = fill | (fill << 8)
	fill = fill | (fill << 16)
	fill = fill | (fill << 32)
	return fill
}

func SFill(bb uint64) uint64 {
	fill := bb
	fill = fill | (fill >> 8)
	fill = fill | (fill >> 16)
	fill = fill | (fill >> 32)
	return fill
}

// All squares a set of white pawns could ever attack as they advance - used
// for passed-pawn detection from black's point of view.
func WPawnScope(wPawns uint64) uint64 {
	n := N(wPawns)
	return NFill(n | W(n) | E(n))
}

func BPawnScope(bPawns uint64) uint64 {
	s := S(bPawns)
	return SFill(s | W(s) | E(s))
}

// Squares currently attacked (or defended) by white pawns.
func WPawnAttacks(wPawns uint64) uint64 {
	n := N(wPawns)
	return W(n) | E(n)
}

func BPawnAttacks(bPawns uint64) uint64 {
	s := S(bPawns)
	return W(s) | E(s)
}
