package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CountAtLeast counts unique n-grams whose frequency is >= f, i.e. the
// common ones for a commonness threshold f
func (a *Aggregate) CountAtLeast(f float64) (int, error) {
	if a.NoNGrams() {
		return 0, ErrNoNGrams
	}
	var n int
	for _, freq := range a.frequencies {
		if freq >= f {
			n++
		}
	}
	return n, nil
}

// CountBelow counts unique n-grams whose frequency is < f, the rare ones
func (a *Aggregate) CountBelow(f float64) (int, error) {
	atLeast, err := a.CountAtLeast(f)
	if err != nil {
		return 0, err
	}
	return len(a.frequencies) - atLeast, nil
}

// MedianFrequency is the median of the unique n-gram frequencies
func (a *Aggregate) MedianFrequency() (float64, error) {
	if a.NoNGrams() {
		return 0, ErrNoNGrams
	}
	sorted := a.NormalizedFrequencies()
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return stat.Mean(sorted[mid-1:mid+1], nil), nil
}

// FrequencyStdDev is the sample standard deviation of the unique n-gram
// frequencies, 0 with a single unique n-gram
func (a *Aggregate) FrequencyStdDev() (float64, error) {
	if a.NoNGrams() {
		return 0, ErrNoNGrams
	}
	if len(a.frequencies) < 2 {
		return 0, nil
	}
	return stat.StdDev(a.frequencies, nil), nil
}

// Entropy is the Shannon entropy of the frequency distribution, in bits
func (a *Aggregate) Entropy() (float64, error) {
	if a.NoNGrams() {
		return 0, ErrNoNGrams
	}
	return stat.Entropy(a.frequencies) / math.Ln2, nil
}
