package ngram

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidN = errors.New("n-gram size must be at least 1")

// Identifier is anything the aggregator can count. Two identifiers are the
// same n-gram iff their string identifiers are equal.
type Identifier interface {
	// StringIdentifier is the canonical form used for equality and hashing
	StringIdentifier() string
	// Moments returns a copy of the moment vectors
	Moments() [][]float64
	// Len is the number of moments, n
	Len() int
}

// NGram is an ordered sequence of moment vectors
type NGram struct {
	moments [][]float64
	key     string
}

func copyMoments(moments [][]float64) [][]float64 {
	res := make([][]float64, len(moments))
	for i, m := range moments {
		res[i] = append([]float64(nil), m...)
	}
	return res
}

// FormatValue writes a moment value in its natural form: no rounding, no
// trailing zeros ("2", "-2", "0.125").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// writeMoments emits values of one moment back to back and a single space
// between moments
func writeMoments(sb *strings.Builder, moments [][]float64) {
	for i, m := range moments {
		if i > 0 {
			sb.WriteByte(' ')
		}
		for _, v := range m {
			sb.WriteString(FormatValue(v))
		}
	}
}

// New copies moments, so later changes to the caller's slices do not leak
// into the n-gram
func New(moments [][]float64) NGram {
	g := NGram{moments: copyMoments(moments)}
	var sb strings.Builder
	writeMoments(&sb, g.moments)
	g.key = sb.String()
	return g
}

func (g NGram) StringIdentifier() string {
	return g.key
}

func (g NGram) Moments() [][]float64 {
	return copyMoments(g.moments)
}

func (g NGram) Len() int {
	return len(g.moments)
}

func (g NGram) String() string {
	return "[" + g.key + "]"
}

// Build slides a window of n moments over seq one moment at a time and
// returns one n-gram per position: len(seq)-n+1 of them, none when seq is
// shorter than n.
func Build(seq [][]float64, n int) ([]NGram, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidN, "got %d", n)
	}
	if len(seq) < n {
		return nil, nil
	}
	res := make([]NGram, 0, len(seq)-n+1)
	for i := 0; i+n <= len(seq); i++ {
		res = append(res, New(seq[i:i+n]))
	}
	return res, nil
}

// Scalars lifts a sequence of single values into one-value moment vectors
func Scalars(values []float64) [][]float64 {
	res := make([][]float64, len(values))
	for i, v := range values {
		res[i] = []float64{v}
	}
	return res
}

// Identifiers converts n-grams to the interface the aggregator takes
func Identifiers[T Identifier](ngrams []T) []Identifier {
	res := make([]Identifier, len(ngrams))
	for i, g := range ngrams {
		res[i] = g
	}
	return res
}
