package engine

import (
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
)

// A principal variation - the line of best play found at some node, one move
// per remaining ply. Each recursion frame owns its own line; a parent copies
// a child's line into its own buffer before the child's frame is reused.
type PVLineT struct {
	moves [MaxDepth + 1]dragon.Move
	n     int
}

func (pv *PVLineT) clear() {
	pv.n = 0
}

// Install move as the head of the line, followed by the child's continuation.
func (pv *PVLineT) rebuild(move dragon.Move, childPV *PVLineT) {
	pv.moves[0] = move
	copy(pv.moves[1:], childPV.moves[:childPV.n])
	pv.n = childPV.n + 1
}

func (pv *PVLineT) Len() int {
	return pv.n
}

// The move the line starts with, or NoMove for an empty line.
func (pv *PVLineT) BestMove() dragon.Move {
	if pv.n == 0 {
		return NoMove
	}
	return pv.moves[0]
}

// The move this line plays at the given ply, or NoMove past the end.
func (pv *PVLineT) moveAt(ply int) dragon.Move {
	if ply < 0 || ply >= pv.n {
		return NoMove
	}
	return pv.moves[ply]
}

func (pv *PVLineT) Moves() []dragon.Move {
	line := make([]dragon.Move, pv.n)
	copy(line, pv.moves[:pv.n])
	return line
}

// Space-separated move notations, e.g. "e2e4 e7e5 g1f3".
func (pv *PVLineT) String() string {
	var sb strings.Builder
	for i := 0; i < pv.n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		move := pv.moves[i]
		sb.WriteString(move.String())
	}
	return sb.String()
}
