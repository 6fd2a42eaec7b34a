// Move-ordering heuristics. Better ordering means earlier beta cutoffs, which
// is where nearly all of alpha-beta's practical strength comes from.

package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// Ordering bonus for the move the previous iteration's principal variation
// plays at this ply - it dominates every other heuristic.
const pvMoveBonus EvalCp = 30000

// Return the piece occupying the square bit, or dragon.Nothing.
func pieceOn(bitboards *dragon.Bitboards, sqBit uint64) dragon.Piece {
	switch {
	case bitboards.Pawns&sqBit != 0:
		return dragon.Pawn
	case bitboards.Knights&sqBit != 0:
		return dragon.Knight
	case bitboards.Bishops&sqBit != 0:
		return dragon.Bishop
	case bitboards.Rooks&sqBit != 0:
		return dragon.Rook
	case bitboards.Queens&sqBit != 0:
		return dragon.Queen
	case bitboards.Kings&sqBit != 0:
		return dragon.King
	default:
		return dragon.Nothing
	}
}

func moverAndVictimBbs(board *dragon.Board) (*dragon.Bitboards, *dragon.Bitboards) {
	if board.Wtomove {
		return &board.White, &board.Black
	}
	return &board.Black, &board.White
}

// IsCapture reports whether the move takes an enemy piece, including en
// passant (a pawn moving diagonally onto an empty square).
func IsCapture(board *dragon.Board, move dragon.Move) bool {
	return captureVictim(board, move) != dragon.Nothing
}

// The piece type a move captures, or dragon.Nothing for a quiet move.
func captureVictim(board *dragon.Board, move dragon.Move) dragon.Piece {
	from, to := uint(move.From()), uint(move.To())
	mover, victim := moverAndVictimBbs(board)

	victimPiece := pieceOn(victim, uint64(1)<<to)
	if victimPiece != dragon.Nothing {
		return victimPiece
	}

	// En passant - the only capture whose destination square is empty
	if pieceOn(mover, uint64(1)<<from) == dragon.Pawn && from&7 != to&7 {
		return dragon.Pawn
	}

	return dragon.Nothing
}

// Heuristic ordering value of a single move at the given ply: the ratio of
// captured-piece value to moving-piece value (zero for quiet moves), a killer
// bonus, and a dominant bonus for the inherited PV move.
func (s *SearchT) moveValue(move dragon.Move, ply int) EvalCp {
	value := EvalCp(0)

	if victim := captureVictim(s.board, move); victim != dragon.Nothing {
		mover, _ := moverAndVictimBbs(s.board)
		attacker := pieceOn(mover, uint64(1)<<uint(move.From()))
		value = captureRatio(victim, attacker)
	}

	if UseKillerMoves {
		value += s.killers.bonus(ply, move)
	}

	if move == s.prevPV.moveAt(ply) {
		value += pvMoveBonus
	}

	return value
}

// Value of taking victim with attacker - best when a cheap piece takes an
// expensive one. Kings attack for free, so rate them like a queen.
func captureRatio(victim dragon.Piece, attacker dragon.Piece) EvalCp {
	attackerVal := pieceVals[attacker]
	if attackerVal == 0 {
		attackerVal = queenVal
	}
	return pieceVals[victim] / attackerVal
}

// Score every move with moveValue and sort best-first.
func (s *SearchT) orderMoves(moves []dragon.Move, ply int) {
	values := make([]EvalCp, len(moves))
	for i, move := range moves {
		values[i] = s.moveValue(move, ply)
	}
	orderByValue(moves, values)
}

// Sort moves descending by value, keeping the two slices paired. Selection
// sort with a strict comparison - move lists are a few dozen entries at most.
func orderByValue(moves []dragon.Move, values []EvalCp) {
	for i := 0; i < len(moves); i++ {
		for j := i + 1; j < len(moves); j++ {
			if values[j] > values[i] {
				values[i], values[j] = values[j], values[i]
				moves[i], moves[j] = moves[j], moves[i]
			}
		}
	}
}

// All legal capture moves in the position - the quiescence move set.
func generateCaptures(board *dragon.Board) []dragon.Move {
	legalMoves := board.GenerateLegalMoves()

	captures := legalMoves[:0]
	for _, move := range legalMoves {
		if IsCapture(board, move) {
			captures = append(captures, move)
		}
	}
	return captures
}
