package features

import (
	"strings"

	"github.com/jsphweid/ngramdex/aggregate"
	"github.com/jsphweid/ngramdex/generator"
	"github.com/jsphweid/ngramdex/moment"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var ErrUnknownStatistic = errors.New("unknown n-gram statistic")

// Statistic is what a calculator reads off an aggregate
type Statistic int

const (
	MostCommonPrevalence Statistic = iota + 1
	SecondMostCommonPrevalence
	PrevalenceDifference
	DistinctCount
	// unique n-grams at or above the threshold
	CommonCount
	// unique n-grams below the threshold
	RareCount
	CommonProportion
	MedianPrevalence
	TopTenPrevalences
	TopTenCombinedPrevalence
	Entropy
	PrevalenceStdDev
)

var statisticNames = map[Statistic]string{
	MostCommonPrevalence:       "most-common-prevalence",
	SecondMostCommonPrevalence: "second-most-common-prevalence",
	PrevalenceDifference:       "prevalence-difference",
	DistinctCount:              "distinct-count",
	CommonCount:                "common-count",
	RareCount:                  "rare-count",
	CommonProportion:           "common-proportion",
	MedianPrevalence:           "median-prevalence",
	TopTenPrevalences:          "top-ten-prevalences",
	TopTenCombinedPrevalence:   "top-ten-combined-prevalence",
	Entropy:                    "entropy",
	PrevalenceStdDev:           "prevalence-std-dev",
}

func (s Statistic) String() string {
	return statisticNames[s]
}

func ParseStatistic(s string) (Statistic, error) {
	for st, name := range statisticNames {
		if strings.EqualFold(s, name) {
			return st, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStatistic, "%q", s)
}

// Calculator computes one feature from the aggregates of a piece
type Calculator interface {
	Name() string
	Dimensions() int
	Compute(p Provider) ([]float64, error)
}

// Query describes the aggregate a feature reads. Voices is a selector as
// understood by generator.SelectVoices.
type Query struct {
	Kind              generator.Kind
	N                 int
	Voices            string
	IgnoreRestsInBase bool
	Transform         moment.Transform
	Filter            float64
}

// Resolve fetches the aggregate the query describes. A voice selection
// that comes up short for the kind (a single-voice piece asked for
// vertical intervals) is no data, not an error.
func (q Query) Resolve(p Provider) (*aggregate.Aggregate, error) {
	voices, err := p.SelectVoices(q.Voices)
	if err != nil {
		return nil, err
	}
	vertical := q.Kind == generator.Vertical || q.Kind == generator.VerticalMelodic
	if len(voices) == 0 || (vertical && len(voices) < 2) {
		return aggregate.New(nil, 0), nil
	}
	return p.Aggregate(generator.Request{
		Kind:              q.Kind,
		N:                 q.N,
		Voices:            voices,
		IgnoreRestsInBase: q.IgnoreRestsInBase,
		Transform:         q.Transform,
		Threshold:         q.Filter,
	})
}

// NGramFeature is the one calculator shape every n-gram feature takes:
// a query plus a statistic, with a threshold for the statistics that
// need one. Pieces without n-grams get zeros.
type NGramFeature struct {
	FeatureName string
	Query       Query
	Statistic   Statistic
	Threshold   float64
}

func (f NGramFeature) Name() string {
	return f.FeatureName
}

func (f NGramFeature) Dimensions() int {
	if f.Statistic == TopTenPrevalences {
		return 10
	}
	return 1
}

func (f NGramFeature) Compute(p Provider) ([]float64, error) {
	if _, ok := statisticNames[f.Statistic]; !ok {
		return nil, errors.Wrapf(ErrUnknownStatistic, "feature %q: %d", f.FeatureName, int(f.Statistic))
	}
	a, err := f.Query.Resolve(p)
	if err != nil {
		return nil, errors.Wrapf(err, "feature %q", f.FeatureName)
	}
	res := make([]float64, f.Dimensions())
	if a.NoNGrams() {
		return res, nil
	}

	v, err := f.compute(a, res)
	if err != nil {
		return nil, errors.Wrapf(err, "feature %q", f.FeatureName)
	}
	if f.Dimensions() == 1 {
		res[0] = v
	}
	return res, nil
}

// second is 0 for aggregates with a single unique n-gram
func second(a *aggregate.Aggregate) (float64, error) {
	if a.UniqueCount() <= 1 {
		return 0, nil
	}
	return a.SecondMostCommonFrequency()
}

// compute fills vector statistics into res and returns scalar ones
func (f NGramFeature) compute(a *aggregate.Aggregate, res []float64) (float64, error) {
	switch f.Statistic {
	case MostCommonPrevalence:
		return a.MostCommonFrequency()
	case SecondMostCommonPrevalence:
		return second(a)
	case PrevalenceDifference:
		first, err := a.MostCommonFrequency()
		if err != nil {
			return 0, err
		}
		s, err := second(a)
		return first - s, err
	case DistinctCount:
		return float64(a.UniqueCount()), nil
	case CommonCount:
		n, err := a.CountAtLeast(f.Threshold)
		return float64(n), err
	case RareCount:
		n, err := a.CountBelow(f.Threshold)
		return float64(n), err
	case CommonProportion:
		n, err := a.CountAtLeast(f.Threshold)
		return float64(n) / float64(a.UniqueCount()), err
	case MedianPrevalence:
		return a.MedianFrequency()
	case TopTenPrevalences:
		top, err := a.TopKFrequencies(10)
		copy(res, top)
		return 0, err
	case TopTenCombinedPrevalence:
		top, err := a.TopKFrequencies(10)
		return floats.Sum(top), err
	case Entropy:
		return a.Entropy()
	case PrevalenceStdDev:
		return a.FrequencyStdDev()
	}
	return 0, nil
}
