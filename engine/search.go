package engine

import (
	"errors"
	"fmt"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Per-search context: the working board, heuristic state and node counters.
// Created once per Search call, reused across all iterative-deepening depths,
// and owned exclusively by that call - nothing here is safe to share between
// concurrent searches.
type SearchT struct {
	board   *dragon.Board
	ht      HistoryTableT
	killers KillerTableT
	stats   SearchStatsT

	// Wall-clock cutoff polled at every node; the zero value means no limit.
	// Set before each iteration starts, read-only during recursion.
	deadline    time.Time
	rootIsWhite bool

	// Root PV of the last completed depth - feeds PV-first move ordering and
	// the PV-search fast path at the next depth.
	prevPV          PVLineT
	completedDepths int

	// Root move list with each move's final value from the previous
	// iteration, used for best-first root ordering.
	rootMoves  []dragon.Move
	rootValues []EvalCp

	// Progress is invoked after every completed iterative-deepening depth.
	// Defaults to printing the standard progress lines on stdout.
	Progress func(IterationT)

	// DepthLimit caps iterative deepening below MaxSearchDepth when positive.
	DepthLimit int
}

// Result of one completed iterative-deepening depth.
type IterationT struct {
	Depth    int
	Eval     EvalCp
	BestMove dragon.Move
	PV       string
	Moves    []dragon.Move

	// Node counts for this depth only, plus the running total.
	Nodes      uint64
	ABNodes    uint64
	QNodes     uint64
	TotalNodes uint64

	Elapsed time.Duration
}

func NewSearch(board *dragon.Board) *SearchT {
	s := &SearchT{
		board: board,
		ht:    make(HistoryTableT),
	}
	if DumpPerDepthProgress {
		s.Progress = printProgress
	}
	return s
}

func (s *SearchT) Stats() SearchStatsT {
	return s.stats
}

// Search runs iterative deepening within the given wall-clock budget and
// returns the best move and eval of the deepest fully-completed depth.
// A non-positive budget means no time limit - only the depth cap applies.
//
// Depth 1 always runs without a deadline so that a valid move exists even
// when the budget expires immediately; an aborted deeper iteration is
// discarded wholesale rather than merged.
func (s *SearchT) Search(timeBudget time.Duration) (dragon.Move, EvalCp, error) {
	start := time.Now()
	s.rootIsWhite = s.board.Wtomove
	s.prevPV.clear()
	s.completedDepths = 0

	s.rootMoves = s.board.GenerateLegalMoves()
	if len(s.rootMoves) == 0 {
		return NoMove, DrawEval, errors.New("search: no legal moves in root position")
	}
	s.rootValues = make([]EvalCp, len(s.rootMoves))

	var deadline time.Time
	if timeBudget > 0 {
		deadline = start.Add(timeBudget)
	}

	// Count the root position so lines returning to it score as repetitions.
	s.ht.Add(s.board.Hash())
	defer s.ht.Remove(s.board.Hash())

	maxDepth := MaxSearchDepth
	if s.DepthLimit > 0 && s.DepthLimit < MaxSearchDepth {
		maxDepth = s.DepthLimit
	}

	var bestPV PVLineT
	bestEval := DrawEval

	for depth := MinDepth; depth <= maxDepth; depth++ {
		if depth == MinDepth {
			s.deadline = time.Time{}
		} else {
			s.deadline = deadline
		}

		nodes0, abNodes0, qNodes0 := s.stats.Nodes, s.stats.ABNodes, s.stats.QNodes

		var pv PVLineT
		var eval EvalCp
		var aborted bool

		switch SearchAlgorithm {
		case NegaMax:
			var move dragon.Move
			move, eval, aborted = s.NegaMax(depth, 0)
			if move != NoMove {
				pv.moves[0], pv.n = move, 1
			}
		default:
			eval, aborted = s.NegAlphaBeta(&pv, depth, 0, -CheckMateEval, CheckMateEval)
		}

		if aborted {
			break
		}

		bestPV, bestEval = pv, eval
		s.prevPV = pv
		s.completedDepths++

		if s.Progress != nil {
			s.Progress(IterationT{
				Depth:      depth,
				Eval:       eval,
				BestMove:   pv.BestMove(),
				PV:         pv.String(),
				Moves:      pv.Moves(),
				Nodes:      s.stats.Nodes - nodes0,
				ABNodes:    s.stats.ABNodes - abNodes0,
				QNodes:     s.stats.QNodes - qNodes0,
				TotalNodes: s.stats.Nodes,
				Elapsed:    time.Since(start),
			})
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
	}

	return bestPV.BestMove(), bestEval, nil
}

// The default Progress reporter: the human-readable per-depth summary plus
// the machine-readable UCI info line.
func printProgress(it IterationT) {
	fmt.Printf("info string depth %d raw-nodes %d ab-nodes %d q-nodes %d value %+.2f pv %s\n",
		it.Depth, it.Nodes, it.ABNodes, it.QNodes, float64(it.Eval)/100, it.PV)
	fmt.Printf("info depth %d time %d nodes %d pv %s\n",
		it.Depth, it.Elapsed.Milliseconds(), it.TotalNodes, it.PV)
}

func isTimedOut(deadline time.Time) bool {
	return !deadline.IsZero() && !time.Now().Before(deadline)
}

// Worst-case placeholder eval for a timed-out node, signed so that the
// searching side can never prefer an aborted branch: from the perspective of
// the side to move at this node, the searching side is checkmated.
func (s *SearchT) abortEval() EvalCp {
	if s.board.Wtomove == s.rootIsWhite {
		return -CheckMateEval
	}
	return CheckMateEval
}

// Return the eval for stalemate or checkmate from the current mover's
// perspective. Only valid if there are no legal moves.
func negaMateEval(board *dragon.Board, depthFromRoot int) EvalCp {
	if board.OurKingInCheck() {
		// checkmate - closer to root is better
		return -CheckMateEval + EvalCp(depthFromRoot)
	}
	// stalemate
	return DrawEval
}
