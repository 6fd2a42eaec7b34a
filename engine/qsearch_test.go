package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dragon "github.com/dylhunn/dragontoothmg"
)

func newTestSearch(board *dragon.Board) *SearchT {
	s := NewSearch(board)
	s.Progress = nil
	return s
}

// In a position with no captures the mover stands pat on the static eval.
func TestQSearchQuietStandPat(t *testing.T) {
	board := dragon.ParseFen(dragon.Startpos)
	s := newTestSearch(&board)

	eval, aborted := s.QSearchNegAlphaBeta(0, -CheckMateEval, CheckMateEval)

	require.False(t, aborted)
	assert.Equal(t, NegaStaticEval(&board), eval)
}

// A hanging queen must be won by the capture chase, not hidden behind the
// horizon.
func TestQSearchWinsHangingQueen(t *testing.T) {
	board := dragon.ParseFen("k7/8/8/3q4/4P3/8/8/K7 w - - 0 1")
	s := newTestSearch(&board)

	standPat := NegaStaticEval(&board)
	eval, aborted := s.QSearchNegAlphaBeta(0, -CheckMateEval, CheckMateEval)

	require.False(t, aborted)
	assert.Greater(t, eval, standPat+700)
}

// Quiescence must leave the board exactly as it found it.
func TestQSearchRestoresBoard(t *testing.T) {
	board := dragon.ParseFen("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	fenBefore := board.ToFen()
	s := newTestSearch(&board)

	_, aborted := s.QSearchNegAlphaBeta(0, -CheckMateEval, CheckMateEval)

	require.False(t, aborted)
	assert.Equal(t, fenBefore, board.ToFen())
}
