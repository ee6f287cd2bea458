package aggregate

import (
	"strings"
	"testing"

	"github.com/jsphweid/ngramdex/ngram"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// ids builds one-moment n-grams from single values, e.g. ids(1, 1, 2)
func ids(values ...float64) []ngram.Identifier {
	res := make([]ngram.Identifier, len(values))
	for i, v := range values {
		res[i] = ngram.New([][]float64{{v}})
	}
	return res
}

func repeat(v float64, n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = v
	}
	return res
}

func keys(gs []ngram.Identifier) []string {
	var res []string
	for _, g := range gs {
		res = append(res, g.StringIdentifier())
	}
	return res
}

func TestMelodicScenario(t *testing.T) {
	ngrams, err := ngram.Build(ngram.Scalars([]float64{2, -2, 2, -2, 2}), 3)
	require.NoError(t, err)
	a := New(ngram.Identifiers(ngrams), 0)

	assert := assert.New(t)
	assert.False(a.NoNGrams())
	assert.Equal(3, a.TotalNumberOfNGrams())
	assert.Equal([]string{"2 -2 2", "-2 2 -2"}, keys(a.UniqueNGrams()))
	assert.InDeltaSlice([]float64{2.0 / 3, 1.0 / 3}, a.NormalizedFrequencies(), 1e-12)

	mc, err := a.MostCommon()
	require.NoError(t, err)
	assert.Equal("2 -2 2", mc.StringIdentifier())
	assert.Equal([][]float64{{2}, {-2}, {2}}, mc.Moments())

	second, err := a.SecondMostCommon()
	require.NoError(t, err)
	assert.Equal("-2 2 -2", second.StringIdentifier())
}

func TestFrequencyConservation(t *testing.T) {
	inputs := [][]float64{
		{1},
		{1, 2, 3, 4, 5},
		{3, 3, 3, 1, 2, 2, 7, 7, 7, 7, 0.5},
	}
	for _, in := range inputs {
		a := New(ids(in...), 0)
		assert.InDelta(t, 1.0, floats.Sum(a.NormalizedFrequencies()), 1e-9)
	}
}

func TestFilteringRenormalizes(t *testing.T) {
	values := append(repeat(1, 8), 2, 3)
	a := New(ids(values...), 0.15)

	assert := assert.New(t)
	assert.Equal(10, a.TotalNumberOfNGrams())
	assert.Equal(1, a.UniqueCount())
	assert.Equal(1.0, a.StringFrequency("1"))
	assert.Equal(NotFound, a.StringFrequency("2"))
	assert.Equal(NotFound, a.NormalizedFrequency(ngram.New([][]float64{{3}})))
}

func TestFilteringKeepsEntriesAtThreshold(t *testing.T) {
	// A:3 B:1 C:1, threshold 0.2 of 5 is exactly 1, nothing is strictly below
	a := New(ids(1, 1, 1, 2, 3), 0.2)
	assert.Equal(t, 3, a.UniqueCount())
	assert.InDelta(t, 0.6, a.StringFrequency("1"), 1e-12)

	// 0.25 of 5 is 1.25, B and C go and A is renormalized to 1
	a = New(ids(1, 1, 1, 2, 3), 0.25)
	assert.Equal(t, []string{"1"}, keys(a.UniqueNGrams()))
	assert.Equal(t, 1.0, a.StringFrequency("1"))
}

func TestFilteringEverythingLeavesEmpty(t *testing.T) {
	a := New(ids(1, 2, 3, 4), 0.5)
	assert.True(t, a.NoNGrams())
	assert.Equal(t, 4, a.TotalNumberOfNGrams())
	assert.Len(t, a.NGrams(), 4)
}

func TestTieBreakEarliestWins(t *testing.T) {
	a := New(ids(7, 3), 0)
	mc, err := a.MostCommon()
	require.NoError(t, err)
	assert.Equal(t, "7", mc.StringIdentifier())

	// later n-gram overtakes only when strictly more frequent
	a = New(ids(5, 6, 6, 5, 4, 4), 0)
	top, err := a.TopK(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "6", "4"}, top)

	a = New(ids(5, 6, 6), 0)
	mc, err = a.MostCommon()
	require.NoError(t, err)
	assert.Equal(t, "6", mc.StringIdentifier())
}

func TestIdenticalCopiesDeduplicate(t *testing.T) {
	a := New([]ngram.Identifier{
		ngram.New([][]float64{{4, 3}, {0.25}}),
		ngram.New([][]float64{{4, 3}, {0.25}}),
	}, 0)
	assert.Equal(t, 1, a.UniqueCount())
	assert.Equal(t, 1.0, a.StringFrequency("43 0.25"))
}

func TestEmptyAggregate(t *testing.T) {
	a := New(nil, 0)

	assert := assert.New(t)
	assert.True(a.NoNGrams())
	assert.Equal(0, a.TotalNumberOfNGrams())
	assert.Len(a.UniqueNGrams(), 0)
	assert.Len(a.NormalizedFrequencies(), 0)
	assert.Equal(NotFound, a.StringFrequency("1"))

	_, err := a.MostCommon()
	assert.True(errors.Is(err, ErrNoNGrams))
	_, err = a.SecondMostCommon()
	assert.True(errors.Is(err, ErrNoNGrams))
	_, err = a.MostCommonFrequency()
	assert.True(errors.Is(err, ErrNoNGrams))
	_, err = a.TopTenMostCommonStringIdentifiers()
	assert.True(errors.Is(err, ErrNoNGrams))
	_, err = a.MedianFrequency()
	assert.True(errors.Is(err, ErrNoNGrams))
	_, err = a.CountBelow(0.1)
	assert.True(errors.Is(err, ErrNoNGrams))
	_, err = a.Entropy()
	assert.True(errors.Is(err, ErrNoNGrams))
}

func TestSecondMostCommonNeedsTwo(t *testing.T) {
	a := New(ids(1, 1), 0)
	_, err := a.SecondMostCommon()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooFewNGrams))
	_, err = a.SecondMostCommonFrequency()
	assert.True(t, errors.Is(err, ErrTooFewNGrams))
}

func TestTopK(t *testing.T) {
	var values []float64
	for v := 1; v <= 12; v++ {
		values = append(values, repeat(float64(v), v)...)
	}
	a := New(ids(values...), 0)

	top, err := a.TopTenMostCommonStringIdentifiers()
	require.NoError(t, err)
	assert.Equal(t, "12 11 10 9 8 7 6 5 4 3", strings.Join(top, " "))

	small := New(ids(1, 2), 0)
	top, err = small.TopK(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, top)

	top, err = small.TopK(-1)
	require.NoError(t, err)
	assert.Empty(t, top)

	freqs, err := small.TopKFrequencies(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, freqs)
}

func TestStatistics(t *testing.T) {
	// frequencies 0.5, 0.25, 0.125, 0.125
	a := New(ids(1, 1, 1, 1, 2, 2, 3, 4), 0)

	assert := assert.New(t)
	common, err := a.CountAtLeast(0.25)
	require.NoError(t, err)
	assert.Equal(2, common)

	rare, err := a.CountBelow(0.2)
	require.NoError(t, err)
	assert.Equal(2, rare)

	median, err := a.MedianFrequency()
	require.NoError(t, err)
	assert.InDelta(0.1875, median, 1e-12)

	entropy, err := a.Entropy()
	require.NoError(t, err)
	assert.InDelta(1.75, entropy, 1e-12)

	sd, err := a.FrequencyStdDev()
	require.NoError(t, err)
	assert.Greater(sd, 0.0)

	single := New(ids(9, 9, 9), 0)
	sd, err = single.FrequencyStdDev()
	require.NoError(t, err)
	assert.Equal(0.0, sd)
	median, err = single.MedianFrequency()
	require.NoError(t, err)
	assert.Equal(1.0, median)
}

func TestTwoDimensionalAggregation(t *testing.T) {
	g1, err := ngram.NewTwoDimensional([][]float64{{7}, {4}}, [][]float64{{2}})
	require.NoError(t, err)
	g2, err := ngram.NewTwoDimensional([][]float64{{7}, {4}}, [][]float64{{-1}})
	require.NoError(t, err)
	g3, err := ngram.NewTwoDimensional([][]float64{{7}, {4}}, [][]float64{{2}})
	require.NoError(t, err)

	a := New([]ngram.Identifier{g1, g2, g3}, 0)
	assert.Equal(t, 2, a.UniqueCount(), "secondary moments take part in equality")
	assert.InDelta(t, 2.0/3, a.NormalizedFrequency(g3), 1e-12)
}
