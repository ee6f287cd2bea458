package features

import (
	"github.com/jsphweid/ngramdex/generator"
	"github.com/jsphweid/ngramdex/moment"
	"github.com/pkg/errors"
)

// Value is one computed feature
type Value struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// Extract runs calculators in order. The first failing calculator aborts
// the pass.
func Extract(p Provider, calculators []Calculator) ([]Value, error) {
	res := make([]Value, 0, len(calculators))
	for _, c := range calculators {
		v, err := c.Compute(p)
		if err != nil {
			return nil, err
		}
		res = append(res, Value{Name: c.Name(), Values: v})
	}
	return res, nil
}

// Thresholds used by the default feature set, as fractions of all n-grams
const (
	CommonVerticalThreshold   = 0.09
	RareVerticalThreshold     = 0.02
	CommonMelodicThreshold    = 0.04
	WrappedMelodicThreshold   = 0.15
	RareRhythmicThreshold     = 0.005
	LowestVoiceCommonFraction = 0.20
)

var (
	directed = moment.Transform{Direction: true}
	wrapped  = moment.Transform{Direction: true, Wrapping: true}
	generic  = moment.Transform{Wrapping: true, Generic: true}
)

// DefaultSet is the n-gram feature set extracted when the configuration
// does not list features
func DefaultSet() []Calculator {
	vertical := Query{Kind: generator.Vertical, N: 3, Voices: generator.SelectOuter, Transform: directed}
	verticalNoRests := vertical
	verticalNoRests.IgnoreRestsInBase = true
	melodic := Query{Kind: generator.Melodic, N: 3, Voices: generator.SelectHighest, Transform: directed}
	wrappedMelodic := Query{Kind: generator.Melodic, N: 3, Voices: generator.SelectHighest, Transform: wrapped}
	genericMelodic := Query{Kind: generator.Melodic, N: 3, Voices: generator.SelectAll, Transform: generic}
	lowestMelodic := Query{Kind: generator.Melodic, N: 3, Voices: generator.SelectLowest, Transform: directed}
	rhythmic := Query{Kind: generator.Rhythmic, N: 3, Voices: generator.SelectAll}
	progression := Query{Kind: generator.VerticalMelodic, N: 2, Voices: generator.SelectOuter, Transform: generic}
	melodicRhythmic := Query{Kind: generator.RhythmicMelodic, N: 3, Voices: generator.SelectHighest, Transform: directed}

	return []Calculator{
		NGramFeature{"Most Common Vertical Interval 3-gram Prevalence", vertical, MostCommonPrevalence, 0},
		NGramFeature{"Second Most Common Vertical Interval 3-gram Prevalence", vertical, SecondMostCommonPrevalence, 0},
		NGramFeature{"Difference Between Most Common Vertical Interval 3-gram Prevalences", vertical, PrevalenceDifference, 0},
		NGramFeature{"Number of Common Vertical Interval 3-grams", verticalNoRests, CommonCount, CommonVerticalThreshold},
		NGramFeature{"Number of Rare Vertical Interval 3-grams", verticalNoRests, RareCount, RareVerticalThreshold},
		NGramFeature{"Most Common Melodic Interval 3-gram Prevalence", melodic, MostCommonPrevalence, 0},
		NGramFeature{"Number of Distinct Melodic Interval 3-grams", melodic, DistinctCount, 0},
		NGramFeature{"Number of Common Melodic Interval 3-grams", melodic, CommonCount, CommonMelodicThreshold},
		NGramFeature{"Median Melodic Interval 3-gram Prevalence", melodic, MedianPrevalence, 0},
		NGramFeature{"Standard Deviation of Melodic Interval 3-gram Prevalences", melodic, PrevalenceStdDev, 0},
		NGramFeature{"Proportion of Common Wrapped Melodic Interval 3-grams", wrappedMelodic, CommonProportion, WrappedMelodicThreshold},
		NGramFeature{"Combined Prevalence of Ten Most Common Generic Melodic 3-grams", genericMelodic, TopTenCombinedPrevalence, 0},
		NGramFeature{"Proportion of Common Lowest Voice Melodic 3-grams", lowestMelodic, CommonProportion, LowestVoiceCommonFraction},
		NGramFeature{"Most Common Rhythmic Value 3-gram Prevalence", rhythmic, MostCommonPrevalence, 0},
		NGramFeature{"Number of Rare Rhythmic Value 3-grams", rhythmic, RareCount, RareRhythmicThreshold},
		NGramFeature{"Rhythmic Value 3-gram Entropy", rhythmic, Entropy, 0},
		NGramFeature{"Most Common Vertical Interval Progression Prevalence", progression, MostCommonPrevalence, 0},
		NGramFeature{"Ten Most Common Melodic-Rhythmic 3-gram Prevalences", melodicRhythmic, TopTenPrevalences, 0},
	}
}

// FeatureConfig declares one n-gram feature in the configuration file
type FeatureConfig struct {
	Name        string  `mapstructure:"name" yaml:"name"`
	Kind        string  `mapstructure:"kind" yaml:"kind"`
	N           int     `mapstructure:"n" yaml:"n"`
	Voices      string  `mapstructure:"voices" yaml:"voices"`
	Statistic   string  `mapstructure:"statistic" yaml:"statistic"`
	Threshold   float64 `mapstructure:"threshold" yaml:"threshold,omitempty"`
	Filter      float64 `mapstructure:"filter" yaml:"filter,omitempty"`
	Direction   bool    `mapstructure:"direction" yaml:"direction"`
	Wrapping    bool    `mapstructure:"wrapping" yaml:"wrapping"`
	Generic     bool    `mapstructure:"generic" yaml:"generic"`
	IgnoreRests bool    `mapstructure:"ignore_rests" yaml:"ignore_rests"`
}

// FromConfig builds calculators from configuration, falling back to
// DefaultSet when none are configured
func FromConfig(cfgs []FeatureConfig) ([]Calculator, error) {
	if len(cfgs) == 0 {
		return DefaultSet(), nil
	}
	var res []Calculator
	for i, c := range cfgs {
		if c.Name == "" {
			return nil, errors.Errorf("feature %d has no name", i)
		}
		kind, err := generator.ParseKind(c.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %q", c.Name)
		}
		st, err := ParseStatistic(c.Statistic)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %q", c.Name)
		}
		if c.N < 1 {
			return nil, errors.Errorf("feature %q: n must be at least 1", c.Name)
		}
		voices := c.Voices
		if voices == "" {
			voices = generator.SelectAll
		}
		res = append(res, NGramFeature{
			FeatureName: c.Name,
			Query: Query{
				Kind:              kind,
				N:                 c.N,
				Voices:            voices,
				IgnoreRestsInBase: c.IgnoreRests,
				Transform: moment.Transform{
					Direction: c.Direction,
					Wrapping:  c.Wrapping,
					Generic:   c.Generic,
				},
				Filter: c.Filter,
			},
			Statistic: st,
			Threshold: c.Threshold,
		})
	}
	return res, nil
}
