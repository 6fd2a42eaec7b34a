// Texel tuning of the evaluation's piece values against a corpus of
// positions labelled with game results.
package tuner

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/cormorant-chess/cormorant/engine"
)

// NParams tunable piece values: pawn, knight, bishop, rook, queen.
const NParams = 5

// DefaultParams are the engine's current piece values, the descent's
// starting point.
var DefaultParams = [NParams]float64{100, 320, 330, 500, 900}

// A labelled training position. Features hold the white-minus-black piece
// count per tuned piece type, Result the game outcome from white's side
// (1 win, 0.5 draw, 0 loss).
type Sample struct {
	Fen      string
	Features [NParams]float64
	Result   float64
}

type Tuner struct {
	log     *zap.SugaredLogger
	workers int

	// QuietOnly drops positions with a capture available - their static eval
	// is unreliable before the tactics resolve.
	QuietOnly bool
}

func New(log *zap.SugaredLogger, workers int) *Tuner {
	if workers < 1 {
		workers = 1
	}
	return &Tuner{
		log:       log,
		workers:   workers,
		QuietOnly: true,
	}
}

// LoadSamples reads one "<fen> <result>" position per line. The result token
// is a float or a PGN-style result, optionally bracketed. Blank lines and
// lines starting with # are skipped.
func (t *Tuner) LoadSamples(r io.Reader) ([]Sample, error) {
	var samples []Sample

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lastSpace := strings.LastIndexByte(line, ' ')
		if lastSpace < 0 {
			return nil, fmt.Errorf("tuner: line %d: missing result", lineNo)
		}

		result, err := parseResult(line[lastSpace+1:])
		if err != nil {
			return nil, fmt.Errorf("tuner: line %d: %v", lineNo, err)
		}

		fen := strings.TrimSpace(line[:lastSpace])
		board, err := safeParseFen(fen)
		if err != nil {
			return nil, fmt.Errorf("tuner: line %d: %v", lineNo, err)
		}

		if t.QuietOnly && hasCapture(&board) {
			continue
		}

		samples = append(samples, Sample{
			Fen:      fen,
			Features: pieceCountFeatures(&board),
			Result:   result,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	t.log.Infow("loaded tuning samples", "count", len(samples))
	return samples, nil
}

// ComputeOptimalK finds the sigmoid scaling that best fits the current
// parameters, narrowing a coarse scan one decimal digit at a time.
func (t *Tuner) ComputeOptimalK(samples []Sample) float64 {
	params := DefaultParams

	start, end, delta := 0.0, 3.0, 0.3
	bestK, bestErr := start, math.MaxFloat64

	for precision := 0; precision < 6; precision++ {
		for k := start; k <= end+delta/2; k += delta {
			if e := t.Error(samples, k, params); e < bestErr {
				bestErr, bestK = e, k
			}
		}
		start, end, delta = bestK-delta, bestK+delta, delta/10
	}

	t.log.Infow("computed optimal K", "k", bestK, "error", bestErr)
	return bestK
}

// Error is the mean squared difference between game results and the sigmoid
// of the predicted eval.
func (t *Tuner) Error(samples []Sample, k float64, params [NParams]float64) float64 {
	partials := make([]float64, t.workers)
	var g errgroup.Group

	for w, chunk := range t.partition(samples) {
		w, chunk := w, chunk
		g.Go(func() error {
			sum := 0.0
			for _, smp := range chunk {
				diff := smp.Result - sigmoid(k, evalWith(params, smp))
				sum += diff * diff
			}
			partials[w] = sum
			return nil
		})
	}
	_ = g.Wait()

	total := 0.0
	for _, p := range partials {
		total += p
	}
	return total / float64(len(samples))
}

// Tune runs full-batch gradient descent from the engine's current piece
// values and returns the fitted ones.
func (t *Tuner) Tune(samples []Sample, epochs int, rate float64) ([NParams]float64, error) {
	params := DefaultParams
	if len(samples) == 0 {
		return params, fmt.Errorf("tuner: no samples")
	}

	k := t.ComputeOptimalK(samples)
	before := t.Error(samples, k, params)

	for epoch := 1; epoch <= epochs; epoch++ {
		grad := t.gradient(samples, k, params)
		for j := 0; j < NParams; j++ {
			params[j] -= rate * grad[j]
		}

		if epoch%10 == 0 || epoch == epochs {
			t.log.Infow("tuning epoch", "epoch", epoch, "error", t.Error(samples, k, params))
		}
	}

	after := t.Error(samples, k, params)
	t.log.Infow("tuning finished", "error_before", before, "error_after", after, "params", params)
	return params, nil
}

// Mean-squared-error gradient with respect to the piece values, computed in
// parallel over sample chunks.
func (t *Tuner) gradient(samples []Sample, k float64, params [NParams]float64) [NParams]float64 {
	partials := make([][NParams]float64, t.workers)
	var g errgroup.Group

	for w, chunk := range t.partition(samples) {
		w, chunk := w, chunk
		g.Go(func() error {
			var sum [NParams]float64
			for _, smp := range chunk {
				s := sigmoid(k, evalWith(params, smp))
				// d(sigmoid)/d(eval), chain-ruled through the squared error
				dsde := math.Ln10 * k / 400 * s * (1 - s)
				common := -2 * (smp.Result - s) * dsde
				for j := 0; j < NParams; j++ {
					sum[j] += common * smp.Features[j]
				}
			}
			partials[w] = sum
			return nil
		})
	}
	_ = g.Wait()

	var grad [NParams]float64
	for _, p := range partials {
		for j := 0; j < NParams; j++ {
			grad[j] += p[j]
		}
	}
	for j := 0; j < NParams; j++ {
		grad[j] /= float64(len(samples))
	}
	return grad
}

func (t *Tuner) partition(samples []Sample) [][]Sample {
	chunks := make([][]Sample, t.workers)
	size := (len(samples) + t.workers - 1) / t.workers
	for w := 0; w < t.workers; w++ {
		lo := w * size
		hi := lo + size
		if lo > len(samples) {
			lo = len(samples)
		}
		if hi > len(samples) {
			hi = len(samples)
		}
		chunks[w] = samples[lo:hi]
	}
	return chunks
}

// Winning probability predicted from a centipawn eval.
func sigmoid(k float64, eval float64) float64 {
	return 1 / (1 + math.Pow(10, -k*eval/400))
}

func evalWith(params [NParams]float64, smp Sample) float64 {
	eval := 0.0
	for j := 0; j < NParams; j++ {
		eval += params[j] * smp.Features[j]
	}
	return eval
}

func pieceCountFeatures(board *dragon.Board) [NParams]float64 {
	white, black := &board.White, &board.Black
	return [NParams]float64{
		float64(bits.OnesCount64(white.Pawns) - bits.OnesCount64(black.Pawns)),
		float64(bits.OnesCount64(white.Knights) - bits.OnesCount64(black.Knights)),
		float64(bits.OnesCount64(white.Bishops) - bits.OnesCount64(black.Bishops)),
		float64(bits.OnesCount64(white.Rooks) - bits.OnesCount64(black.Rooks)),
		float64(bits.OnesCount64(white.Queens) - bits.OnesCount64(black.Queens)),
	}
}

func hasCapture(board *dragon.Board) bool {
	for _, move := range board.GenerateLegalMoves() {
		if engine.IsCapture(board, move) {
			return true
		}
	}
	return false
}

func parseResult(token string) (float64, error) {
	token = strings.Trim(token, "[]")
	switch token {
	case "1-0":
		return 1, nil
	case "1/2-1/2":
		return 0.5, nil
	case "0-1":
		return 0, nil
	}
	result, err := strconv.ParseFloat(token, 64)
	if err != nil || result < 0 || result > 1 {
		return 0, fmt.Errorf("bad result %q", token)
	}
	return result, nil
}

// ParseFen has no error return, so malformed input is caught by recovering
// from its panic.
func safeParseFen(fen string) (board dragon.Board, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid fen %q: %v", fen, r)
		}
	}()

	if fen == "" {
		return board, fmt.Errorf("empty fen")
	}

	board = dragon.ParseFen(fen)
	return board, nil
}
