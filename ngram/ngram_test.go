package ngram

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringIdentifier(t *testing.T) {
	g := New([][]float64{{2}, {-2, 7}, {0.125}})
	assert.Equal(t, "2 -27 0.125", g.StringIdentifier())
	assert.Equal(t, "[2 -27 0.125]", g.String())
	assert.Equal(t, 3, g.Len())
}

func TestNewCopiesInput(t *testing.T) {
	src := [][]float64{{1}, {2}}
	g := New(src)
	src[0][0] = 99
	src[1] = []float64{42}

	assert.Equal(t, [][]float64{{1}, {2}}, g.Moments())
	assert.Equal(t, "1 2", g.StringIdentifier())

	out := g.Moments()
	out[0][0] = 5
	assert.Equal(t, [][]float64{{1}, {2}}, g.Moments())
}

func TestBuildWindowCount(t *testing.T) {
	for l := 0; l <= 6; l++ {
		for n := 1; n <= 4; n++ {
			t.Run(fmt.Sprintf("L=%d n=%d", l, n), func(t *testing.T) {
				seq := make([]float64, l)
				for i := range seq {
					seq[i] = float64(i)
				}
				ngrams, err := Build(Scalars(seq), n)
				require.NoError(t, err)
				want := l - n + 1
				if want < 0 {
					want = 0
				}
				assert.Len(t, ngrams, want)
			})
		}
	}
}

func TestBuildWindows(t *testing.T) {
	ngrams, err := Build(Scalars([]float64{2, -2, 2, -2, 2}), 3)
	require.NoError(t, err)

	var keys []string
	for _, g := range ngrams {
		keys = append(keys, g.StringIdentifier())
	}
	assert.Equal(t, []string{"2 -2 2", "-2 2 -2", "2 -2 2"}, keys)
}

func TestBuildRejectsBadN(t *testing.T) {
	_, err := Build(Scalars([]float64{1, 2}), 0)
	assert.True(t, errors.Is(err, ErrInvalidN))
	_, err = Build2D(Scalars([]float64{1, 2}), Scalars([]float64{1}), 0)
	assert.True(t, errors.Is(err, ErrInvalidN))
}

func TestCanonicalizationIsIdempotent(t *testing.T) {
	a := New([][]float64{{3, 4}, {0.5}})
	b := New([][]float64{{3, 4}, {0.5}})
	assert.Equal(t, a.StringIdentifier(), b.StringIdentifier())
}

func TestTwoDimensional(t *testing.T) {
	g, err := NewTwoDimensional(
		[][]float64{{7}, {4}, {3}},
		[][]float64{{2, -1}, {128}},
	)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("7 2-1 4 128 3", g.StringIdentifier())
	assert.Equal("7 4 3", g.PrimaryStringIdentifier())
	assert.Equal([][]float64{{2, -1}, {128}}, g.Secondary())
	assert.Equal(3, g.Len())
}

func TestTwoDimensionalSizeMismatch(t *testing.T) {
	_, err := NewTwoDimensional([][]float64{{1}, {2}}, [][]float64{{1}, {2}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	assert.Contains(t, err.Error(), "expected 1 secondary moments, got 2")

	_, err = Build2D(Scalars([]float64{1, 2, 3}), Scalars([]float64{1}), 2)
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestBuild2DLockstep(t *testing.T) {
	primary := Scalars([]float64{1, 2, 3, 4})
	secondary := Scalars([]float64{10, 20, 30})

	ngrams, err := Build2D(primary, secondary, 2)
	require.NoError(t, err)
	require.Len(t, ngrams, 3)
	assert.Equal(t, "1 10 2", ngrams[0].StringIdentifier())
	assert.Equal(t, "3 30 4", ngrams[2].StringIdentifier())

	none, err := Build2D(primary, secondary, 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	empty, err := Build2D(nil, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIdentifiers(t *testing.T) {
	ngrams, err := Build(Scalars([]float64{1, 2, 3}), 2)
	require.NoError(t, err)
	ids := Identifiers(ngrams)
	require.Len(t, ids, 2)
	assert.Equal(t, "2 3", ids[1].StringIdentifier())
}
