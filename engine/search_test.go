package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dragon "github.com/dylhunn/dragontoothmg"
)

var whiteInCheckmate = "rnb1kbnr/pppp1ppp/4p3/8/5PPq/8/PPPPP2P/RNBQKBNR w KQkq - 1 3"
var whiteInStalemate = "2k5/8/8/8/8/1q6/r7/2K5 w - -"
var blackInCheckmate = "rnbqkbnr/ppppp2p/8/5ppQ/4PP2/8/PPPP2PP/RNB1KBNR b KQkq - 1 3"
var blackInStalemate = "3k4/7R/2Q5/8/8/8/8/3K4 b - -"

func TestTerminalNodeEvals(t *testing.T) {
	expected := map[string]EvalCp{
		whiteInCheckmate: -CheckMateEval,
		blackInCheckmate: -CheckMateEval,
		whiteInStalemate: DrawEval,
		blackInStalemate: DrawEval,
	}

	for fen, expectedEval := range expected {
		board := dragon.ParseFen(fen)
		s := newTestSearch(&board)

		var pv PVLineT
		eval, aborted := s.NegAlphaBeta(&pv, 1, 0, -CheckMateEval, CheckMateEval)

		require.False(t, aborted, fen)
		assert.Equal(t, expectedEval, eval, fen)
		assert.Equal(t, 0, pv.Len(), fen)
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	for _, fen := range []string{whiteInCheckmate, blackInStalemate} {
		board := dragon.ParseFen(fen)
		s := newTestSearch(&board)

		move, _, err := s.Search(time.Second)

		assert.Error(t, err, fen)
		assert.Equal(t, NoMove, move, fen)
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	board := dragon.ParseFen("k7/8/1K6/8/8/8/8/7R w - - 0 1")
	s := newTestSearch(&board)
	s.DepthLimit = 2

	move, eval, err := s.Search(0)

	require.NoError(t, err)
	assert.Equal(t, "h1h8", move.String())
	assert.Equal(t, CheckMateEval-1, eval)
}

func TestSearchOnlyLegalMove(t *testing.T) {
	for depth := 1; depth <= 3; depth++ {
		board := dragon.ParseFen("R6k/7p/8/8/8/8/8/7K b - - 0 1")
		s := newTestSearch(&board)
		s.DepthLimit = depth

		move, _, err := s.Search(0)

		require.NoError(t, err)
		assert.Equal(t, "h8g7", move.String(), "depth %d", depth)
	}
}

// The pruned search must return exactly the value of the unpruned reference
// search on the same position at the same depth.
func TestAlphaBetaMatchesNegaMax(t *testing.T) {
	fens := []string{
		dragon.Startpos,
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/R1BQK1NR b KQkq - 3 3",
	}

	defer func() { SearchAlgorithm = NegAlphaBeta }()

	for _, fen := range fens {
		for depth := 1; depth <= 3; depth++ {
			SearchAlgorithm = NegAlphaBeta
			abBoard := dragon.ParseFen(fen)
			abSearch := newTestSearch(&abBoard)
			abSearch.DepthLimit = depth
			_, abEval, err := abSearch.Search(0)
			require.NoError(t, err)

			SearchAlgorithm = NegaMax
			nmBoard := dragon.ParseFen(fen)
			nmSearch := newTestSearch(&nmBoard)
			nmSearch.DepthLimit = depth
			_, nmEval, err := nmSearch.Search(0)
			require.NoError(t, err)

			assert.Equal(t, nmEval, abEval, "fen %s depth %d", fen, depth)
		}
	}
}

// Even a budget that expires immediately must still produce a legal move -
// the first depth always runs to completion.
func TestSearchTinyBudget(t *testing.T) {
	board := dragon.ParseFen(dragon.Startpos)
	s := newTestSearch(&board)

	move, _, err := s.Search(time.Nanosecond)

	require.NoError(t, err)
	require.NotEqual(t, NoMove, move)

	legal := false
	for _, mv := range board.GenerateLegalMoves() {
		if mv == move {
			legal = true
			break
		}
	}
	assert.True(t, legal)
}

func TestIterativeDeepeningProgress(t *testing.T) {
	board := dragon.ParseFen(dragon.Startpos)
	s := newTestSearch(&board)
	s.DepthLimit = 3

	var iterations []IterationT
	s.Progress = func(it IterationT) { iterations = append(iterations, it) }

	move, eval, err := s.Search(0)

	require.NoError(t, err)
	require.Len(t, iterations, 3)

	for i, it := range iterations {
		assert.Equal(t, i+1, it.Depth)
		assert.NotEqual(t, NoMove, it.BestMove)
		assert.NotEmpty(t, it.PV)
		assert.NotZero(t, it.Nodes)
	}

	last := iterations[len(iterations)-1]
	assert.Equal(t, last.BestMove, move)
	assert.Equal(t, last.Eval, eval)
	assert.Greater(t, last.TotalNodes, iterations[0].TotalNodes)
}

func TestSearchRestoresBoard(t *testing.T) {
	board := dragon.ParseFen("r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/R1BQK1NR b KQkq - 3 3")
	fenBefore := board.ToFen()
	s := newTestSearch(&board)
	s.DepthLimit = 3

	_, _, err := s.Search(0)

	require.NoError(t, err)
	assert.Equal(t, fenBefore, board.ToFen())
}

func TestHistoryTable(t *testing.T) {
	ht := make(HistoryTableT)

	assert.Equal(t, 1, ht.Add(42))
	assert.Equal(t, 2, ht.Add(42))
	assert.Equal(t, 1, ht.Remove(42))
	assert.Equal(t, 0, ht.Remove(42))

	_, present := ht[42]
	assert.False(t, present)
}
