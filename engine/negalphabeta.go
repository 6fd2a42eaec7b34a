package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// NegAlphaBeta is fail-soft negamax alpha-beta with PV-search. It returns the
// best eval from the mover's perspective together with an aborted flag; once
// the deadline fires the flag propagates straight up and the eval is a
// worst-case placeholder the caller must not trust. pv is only valid when the
// search completed and the node raised alpha.
//
// With the full window (-CheckMateEval, CheckMateEval) at the root this
// returns exactly the NegaMax value of the same quiescence-extended tree.
func (s *SearchT) NegAlphaBeta(pv *PVLineT, depthToGo int, depthFromRoot int, alpha EvalCp, beta EvalCp) (EvalCp, bool) {
	s.stats.Nodes++
	s.stats.ABNodes++

	if isTimedOut(s.deadline) {
		pv.clear()
		return s.abortEval(), true
	}

	if depthToGo <= 0 {
		// Quiescence counts its own nodes.
		s.stats.Nodes--
		s.stats.ABNodes--
		pv.clear()
		return s.QSearchNegAlphaBeta(depthFromRoot, alpha, beta)
	}

	isRoot := depthFromRoot == 0

	var moves []dragon.Move
	if isRoot && s.rootMoves != nil {
		moves = s.rootMoves
	} else {
		moves = s.board.GenerateLegalMoves()
	}

	if len(moves) == 0 {
		pv.clear()
		eval := negaMateEval(s.board, depthFromRoot)
		if eval != DrawEval {
			s.stats.Mates++
		}
		return eval, false
	}

	if UseMoveOrdering {
		if isRoot && s.completedDepths > 0 {
			// Best-first by the previous iteration's root values.
			orderByValue(moves, s.rootValues)
		} else {
			s.orderMoves(moves, depthFromRoot)
		}
	}

	// PV-search only pays off when the first move really is the previous
	// iteration's PV move, i.e. a trustworthy best guess.
	pvMove := s.prevPV.moveAt(depthFromRoot)
	firstMoveIsPV := pvMove != NoMove && moves[0] == pvMove

	bestEval := -CheckMateEval
	var childPV PVLineT

	for i, move := range moves {
		unapply := s.board.Apply(move)
		boardHash := s.board.Hash()
		s.ht.Add(boardHash)

		var eval EvalCp
		var childAborted bool

		if UsePosRepetition && s.ht[boardHash] > 1 {
			// Repeated position in the search line - treat as a draw.
			s.stats.Repetitions++
			eval = DrawEval
			childPV.clear()
		} else if UsePVSearch && firstMoveIsPV && i > 0 {
			// Null-window probe; re-search on the full window if it
			// lands inside (alpha, beta).
			eval, childAborted = s.NegAlphaBeta(&childPV, depthToGo-1, depthFromRoot+1, -alpha-1, -alpha)
			eval = -eval
			if !childAborted && alpha < eval && eval < beta {
				eval, childAborted = s.NegAlphaBeta(&childPV, depthToGo-1, depthFromRoot+1, -beta, -eval)
				eval = -eval
			}
		} else {
			eval, childAborted = s.NegAlphaBeta(&childPV, depthToGo-1, depthFromRoot+1, -beta, -alpha)
			eval = -eval
		}

		s.ht.Remove(boardHash)
		unapply()

		if childAborted {
			pv.clear()
			return bestEval, true
		}

		if isRoot && i < len(s.rootValues) {
			s.rootValues[i] = eval
		}

		if eval > bestEval {
			bestEval = eval
		}
		if bestEval > alpha {
			alpha = bestEval
			pv.rebuild(move, &childPV)
		}
		if alpha >= beta {
			s.stats.CutNodes++
			s.killers.record(depthFromRoot, move)
			break
		}
	}

	return bestEval, false
}
