package engine

import dragon "github.com/dylhunn/dragontoothmg"

// Search algorithm selector - NegAlphaBeta is the real engine, NegaMax is the
// unpruned reference used for debugging and cross-checking.
type SearchAlgorithmT int

const (
	NegAlphaBeta SearchAlgorithmT = iota
	NegaMax
)

var SearchAlgorithm = NegAlphaBeta

func SearchAlgorithmString() string {
	switch SearchAlgorithm {
	case NegaMax:
		return "NegaMax"
	default:
		SearchAlgorithm = NegAlphaBeta
		return "NegAlphaBeta"
	}
}

// Configuration options
var UseMoveOrdering = true
var UseKillerMoves = true
var UsePVSearch = true
var UsePosRepetition = true
var DumpPerDepthProgress = true

const MinDepth = 1

// Hard cap on iterative-deepening iterations.
const MaxSearchDepth = 64

// Sizes the per-ply tables. Quiescence can run past MaxSearchDepth plies so
// this carries headroom for the deepest capture chains.
const MaxDepth = 128

const NoMove dragon.Move = 0
