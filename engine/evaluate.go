package engine

import (
	"math"
	"math/bits"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Eval in centi-pawns, i.e. 100 === 1 pawn
type EvalCp int16

// Don't use MinInt16 for the mate bound because it's not symmetrical with MaxInt16.
const CheckMateEval EvalCp = math.MaxInt16

const DrawEval EvalCp = 0

// Piece values
const pawnVal = 100
const knightVal = 320
const bishopVal = 330
const rookVal = 500
const queenVal = 900
const kingVal = 0

// Indexed by dragon.Piece (Nothing, Pawn, Knight, Bishop, Rook, Queen, King).
var pieceVals = [7]EvalCp{
	0,
	pawnVal,
	knightVal,
	bishopVal,
	rookVal,
	queenVal,
	kingVal}

// Piece-square tables, printed rank 8 first the way they're usually written
// down. White pieces index with sq^56, black pieces with sq directly, so the
// tables read naturally and the start position evaluates to exactly zero.
var pawnPosVals = [64]int8{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0}

var knightPosVals = [64]int8{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50}

var bishopPosVals = [64]int8{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20}

var rookPosVals = [64]int8{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0}

var queenPosVals = [64]int8{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20}

var kingPosVals = [64]int8{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20}

var piecePosVals = [7]*[64]int8{
	nil,
	&pawnPosVals,
	&knightPosVals,
	&bishopPosVals,
	&rookPosVals,
	&queenPosVals,
	&kingPosVals}

// Static eval only - no mate checks - from the perspective of the player to move
func NegaStaticEval(board *dragon.Board) EvalCp {
	staticEval := StaticEval(board)

	if board.Wtomove {
		return staticEval
	}
	return -staticEval
}

// Static eval only - no mate checks - from white's perspective
func StaticEval(board *dragon.Board) EvalCp {
	piecesEval := piecesVal(&board.White) - piecesVal(&board.Black)

	posEval := piecesPosVal(&board.White, true) - piecesPosVal(&board.Black, false)

	pawnsEval := pawnExtrasVal(board)

	return EvalCp(piecesEval + posEval + pawnsEval)
}

// Sum of individual piece values
func piecesVal(bitboards *dragon.Bitboards) int {
	eval := pawnVal * bits.OnesCount64(bitboards.Pawns)
	eval += knightVal * bits.OnesCount64(bitboards.Knights)
	eval += bishopVal * bits.OnesCount64(bitboards.Bishops)
	eval += rookVal * bits.OnesCount64(bitboards.Rooks)
	eval += queenVal * bits.OnesCount64(bitboards.Queens)

	return eval
}

// Sum of piece-square values for one side
func piecesPosVal(bitboards *dragon.Bitboards, isWhite bool) int {
	eval := pieceTypePosVal(bitboards.Pawns, &pawnPosVals, isWhite)
	eval += pieceTypePosVal(bitboards.Knights, &knightPosVals, isWhite)
	eval += pieceTypePosVal(bitboards.Bishops, &bishopPosVals, isWhite)
	eval += pieceTypePosVal(bitboards.Rooks, &rookPosVals, isWhite)
	eval += pieceTypePosVal(bitboards.Queens, &queenPosVals, isWhite)
	eval += pieceTypePosVal(bitboards.Kings, &kingPosVals, isWhite)

	return eval
}

func pieceTypePosVal(bitmask uint64, posVals *[64]int8, isWhite bool) int {
	eval := 0

	for bitmask != 0 {
		sq := uint(bits.TrailingZeros64(bitmask))
		bitmask &= bitmask - 1

		if isWhite {
			sq ^= 56
		}
		eval += int(posVals[sq])
	}

	return eval
}

// Passed pawn bonus by relative rank (rank 7 is already covered by the
// pawn-square table's big push values)
var passedPawnRankVals = [8]int{0, 0, 7, 13, 20, 28, 37, 0}

// Bonus for pawns protecting pawns
const pProtPawnVal = 8

// Bonus for pawns protecting pieces
const pProtPieceVal = 6

// Penalty per doubled pawn
const doubledPawnPenalty = -12

// Pawn-structure terms: passed pawns, pawn chains, doubled pawns.
func pawnExtrasVal(board *dragon.Board) int {
	wPawns := board.White.Pawns
	bPawns := board.Black.Pawns

	// Passed pawns - not blockable or capturable by any enemy pawn
	wPassed := wPawns & ^BPawnScope(bPawns)
	bPassed := bPawns & ^WPawnScope(wPawns)

	eval := passedPawnsVal(wPassed, true) - passedPawnsVal(bPassed, false)

	// Pawns and pieces protected by pawns
	wPawnAtt := WPawnAttacks(wPawns)
	bPawnAtt := BPawnAttacks(bPawns)

	eval += pProtPawnVal * (bits.OnesCount64(wPawnAtt&wPawns) - bits.OnesCount64(bPawnAtt&bPawns))

	wPieces := board.White.All & ^wPawns
	bPieces := board.Black.All & ^bPawns
	eval += pProtPieceVal * (bits.OnesCount64(wPawnAtt&wPieces) - bits.OnesCount64(bPawnAtt&bPieces))

	// Doubled pawns - a pawn with a friendly pawn somewhere ahead of it
	wDoubled := NFill(N(wPawns)) & wPawns
	bDoubled := SFill(S(bPawns)) & bPawns
	eval += doubledPawnPenalty * (bits.OnesCount64(wDoubled) - bits.OnesCount64(bDoubled))

	return eval
}

func passedPawnsVal(passedPawns uint64, isWhite bool) int {
	eval := 0

	for passedPawns != 0 {
		sq := bits.TrailingZeros64(passedPawns)
		passedPawns &= passedPawns - 1

		rank := sq >> 3
		if !isWhite {
			rank = 7 - rank
		}
		eval += passedPawnRankVals[rank]
	}

	return eval
}
