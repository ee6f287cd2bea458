package ngram

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrSizeMismatch = errors.New("secondary sequence must be one shorter than the primary")

// TwoDimensional pairs n primary moments with the n-1 secondary moments
// linking them, e.g. vertical intervals plus the melodic motion between
// consecutive verticalities.
type TwoDimensional struct {
	NGram
	secondary [][]float64
	joint     string
}

// NewTwoDimensional fails unless len(secondary) == len(primary)-1
func NewTwoDimensional(primary, secondary [][]float64) (TwoDimensional, error) {
	if len(secondary) != len(primary)-1 {
		return TwoDimensional{}, errors.Wrapf(ErrSizeMismatch,
			"expected %d secondary moments, got %d", len(primary)-1, len(secondary))
	}
	g := TwoDimensional{
		NGram:     New(primary),
		secondary: copyMoments(secondary),
	}

	// p0 s0 p1 s1 ... pn-1
	var sb strings.Builder
	for i, p := range g.moments {
		if i > 0 {
			sb.WriteByte(' ')
			writeMoments(&sb, g.secondary[i-1:i])
			sb.WriteByte(' ')
		}
		writeMoments(&sb, [][]float64{p})
	}
	g.joint = sb.String()
	return g, nil
}

// StringIdentifier covers both dimensions
func (g TwoDimensional) StringIdentifier() string {
	return g.joint
}

// PrimaryStringIdentifier ignores the secondary moments
func (g TwoDimensional) PrimaryStringIdentifier() string {
	return g.NGram.StringIdentifier()
}

func (g TwoDimensional) Secondary() [][]float64 {
	return copyMoments(g.secondary)
}

func (g TwoDimensional) String() string {
	return "[" + g.joint + "]"
}

// Build2D windows primary by n and secondary by n-1 in lockstep
func Build2D(primary, secondary [][]float64, n int) ([]TwoDimensional, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidN, "got %d", n)
	}
	if len(primary) == 0 && len(secondary) == 0 {
		return nil, nil
	}
	if len(secondary) != len(primary)-1 {
		return nil, errors.Wrapf(ErrSizeMismatch,
			"expected %d secondary moments, got %d", len(primary)-1, len(secondary))
	}
	if len(primary) < n {
		return nil, nil
	}
	res := make([]TwoDimensional, 0, len(primary)-n+1)
	for i := 0; i+n <= len(primary); i++ {
		g, err := NewTwoDimensional(primary[i:i+n], secondary[i:i+n-1])
		if err != nil {
			return nil, errors.Wrapf(err, "window %d", i)
		}
		res = append(res, g)
	}
	return res, nil
}
