package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// NegaMax is the unpruned reference search. It visits the same
// quiescence-extended tree as NegAlphaBeta but never cuts, so at equal depth
// the two must return identical evals - handy for checking that the pruning
// is sound.
func (s *SearchT) NegaMax(depthToGo int, depthFromRoot int) (dragon.Move, EvalCp, bool) {
	s.stats.Nodes++

	if isTimedOut(s.deadline) {
		return NoMove, s.abortEval(), true
	}

	if depthToGo <= 0 {
		s.stats.Nodes--
		eval, aborted := s.QSearchNegaMax(depthFromRoot)
		return NoMove, eval, aborted
	}

	moves := s.board.GenerateLegalMoves()
	if len(moves) == 0 {
		return NoMove, negaMateEval(s.board, depthFromRoot), false
	}

	bestMove := NoMove
	bestEval := -CheckMateEval

	for _, move := range moves {
		unapply := s.board.Apply(move)
		boardHash := s.board.Hash()
		s.ht.Add(boardHash)

		var eval EvalCp
		var aborted bool

		if UsePosRepetition && s.ht[boardHash] > 1 {
			s.stats.Repetitions++
			eval = DrawEval
		} else {
			_, eval, aborted = s.NegaMax(depthToGo-1, depthFromRoot+1)
			eval = -eval
		}

		s.ht.Remove(boardHash)
		unapply()

		if aborted {
			return bestMove, bestEval, true
		}

		if eval > bestEval {
			bestEval = eval
			bestMove = move
		}
	}

	return bestMove, bestEval, false
}

// Unpruned quiescence - exact value of standing pat or chasing any capture.
func (s *SearchT) QSearchNegaMax(depthFromRoot int) (EvalCp, bool) {
	s.stats.Nodes++
	s.stats.QNodes++

	if isTimedOut(s.deadline) {
		return s.abortEval(), true
	}

	bestEval := NegaStaticEval(s.board)

	for _, move := range generateCaptures(s.board) {
		unapply := s.board.Apply(move)
		eval, aborted := s.QSearchNegaMax(depthFromRoot + 1)
		eval = -eval
		unapply()

		if aborted {
			return bestEval, true
		}

		if eval > bestEval {
			bestEval = eval
		}
	}

	return bestEval, false
}
