package engine

// Quiescence search - avoid the horizon effect by playing all capture
// sequences to quiescence once the main search runs out of depth.
// The mover can always stand pat on the static eval, so only captures that
// improve on it are chased.
func (s *SearchT) QSearchNegAlphaBeta(depthFromRoot int, alpha EvalCp, beta EvalCp) (EvalCp, bool) {
	s.stats.Nodes++
	s.stats.QNodes++

	if isTimedOut(s.deadline) {
		return s.abortEval(), true
	}

	// Stand pat is the fail-soft floor.
	standPat := NegaStaticEval(s.board)
	bestEval := standPat
	if bestEval > alpha {
		alpha = bestEval
	}
	if alpha >= beta {
		s.stats.QPatCuts++
		return bestEval, false
	}

	captures := generateCaptures(s.board)
	if UseMoveOrdering {
		s.orderMoves(captures, depthFromRoot)
	}

	for _, move := range captures {
		unapply := s.board.Apply(move)
		eval, childAborted := s.QSearchNegAlphaBeta(depthFromRoot+1, -beta, -alpha)
		eval = -eval
		unapply()

		if childAborted {
			return bestEval, true
		}

		if eval > bestEval {
			bestEval = eval
		}
		if bestEval > alpha {
			alpha = bestEval
		}
		if alpha >= beta {
			s.stats.QCutNodes++
			s.killers.record(depthFromRoot, move)
			break
		}
	}

	return bestEval, false
}
