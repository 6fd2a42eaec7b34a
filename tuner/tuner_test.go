package tuner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Quiet positions with a clear material verdict.
const whiteUpAQueen = "k7/8/8/8/8/8/8/KQ6 w - - 0 1"
const blackUpAQueen = "kq6/8/8/8/8/8/8/K7 b - - 0 1"
const whiteUpARook = "k7/8/8/8/8/8/8/KR6 w - - 0 1"

func newTestTuner() *Tuner {
	return New(zap.NewNop().Sugar(), 2)
}

func corpus(t *testing.T) []Sample {
	t.Helper()
	text := strings.Join([]string{
		"# tiny corpus",
		dragon.Startpos + " 0.5",
		whiteUpAQueen + " 1-0",
		blackUpAQueen + " [0-1]",
		whiteUpARook + " 1.0",
		"",
	}, "\n")

	samples, err := newTestTuner().LoadSamples(strings.NewReader(text))
	require.NoError(t, err)
	return samples
}

func TestSigmoid(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(1, 0), 1e-9)
	assert.InDelta(t, 10.0/11.0, sigmoid(1, 400), 1e-9)
	assert.Greater(t, sigmoid(1, 100), sigmoid(1, -100))

	// larger K sharpens the curve
	assert.Greater(t, sigmoid(2, 100), sigmoid(1, 100))
}

func TestParseResult(t *testing.T) {
	cases := map[string]float64{
		"1-0":     1,
		"0-1":     0,
		"1/2-1/2": 0.5,
		"[1-0]":   1,
		"0.5":     0.5,
		"[0.25]":  0.25,
	}
	for token, expected := range cases {
		result, err := parseResult(token)
		require.NoError(t, err, token)
		assert.Equal(t, expected, result, token)
	}

	for _, token := range []string{"2.0", "-1", "abc", "*"} {
		_, err := parseResult(token)
		assert.Error(t, err, token)
	}
}

func TestLoadSamples(t *testing.T) {
	samples := corpus(t)
	require.Len(t, samples, 4)

	assert.Equal(t, 0.5, samples[0].Result)
	assert.Equal(t, [NParams]float64{0, 0, 0, 0, 0}, samples[0].Features)

	assert.Equal(t, 1.0, samples[1].Result)
	assert.Equal(t, [NParams]float64{0, 0, 0, 0, 1}, samples[1].Features)

	assert.Equal(t, 0.0, samples[2].Result)
	assert.Equal(t, [NParams]float64{0, 0, 0, 0, -1}, samples[2].Features)

	assert.Equal(t, [NParams]float64{0, 0, 0, 1, 0}, samples[3].Features)
}

func TestLoadSamplesDropsNoisyPositions(t *testing.T) {
	// 1.e4 d5 - a capture is available, so the position is not quiet.
	text := "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2 0.5\n"

	samples, err := newTestTuner().LoadSamples(strings.NewReader(text))
	require.NoError(t, err)
	assert.Empty(t, samples)

	tn := newTestTuner()
	tn.QuietOnly = false
	samples, err = tn.LoadSamples(strings.NewReader(text))
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestLoadSamplesErrors(t *testing.T) {
	_, err := newTestTuner().LoadSamples(strings.NewReader("justonetoken\n"))
	assert.Error(t, err)

	_, err = newTestTuner().LoadSamples(strings.NewReader(dragon.Startpos + " fortytwo\n"))
	assert.Error(t, err)
}

func TestComputeOptimalK(t *testing.T) {
	tn := newTestTuner()
	samples := corpus(t)

	k := tn.ComputeOptimalK(samples)
	assert.Greater(t, k, 0.0)

	// The scan's pick must be at least as good as a couple of arbitrary Ks.
	bestErr := tn.Error(samples, k, DefaultParams)
	assert.LessOrEqual(t, bestErr, tn.Error(samples, 0.5, DefaultParams)+1e-9)
	assert.LessOrEqual(t, bestErr, tn.Error(samples, 2.0, DefaultParams)+1e-9)
}

func TestTuneDoesNotWorsenError(t *testing.T) {
	tn := newTestTuner()
	samples := corpus(t)

	k := tn.ComputeOptimalK(samples)
	before := tn.Error(samples, k, DefaultParams)

	params, err := tn.Tune(samples, 20, 5)
	require.NoError(t, err)

	after := tn.Error(samples, k, params)
	assert.LessOrEqual(t, after, before+1e-9)
}

func TestTuneNoSamples(t *testing.T) {
	_, err := newTestTuner().Tune(nil, 10, 1)
	assert.Error(t, err)
}
