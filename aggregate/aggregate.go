package aggregate

import (
	"sort"

	"github.com/jsphweid/ngramdex/ngram"
	"github.com/pkg/errors"
)

// NotFound is the frequency reported for n-grams that never occurred or
// were filtered out
const NotFound = -1.0

var (
	ErrNoNGrams     = errors.New("aggregate contains no n-grams")
	ErrTooFewNGrams = errors.New("aggregate has too few unique n-grams")
)

// Aggregate is the deduplicated, frequency-annotated view of an ordered
// multiset of n-grams. It is immutable once built and may be shared freely
// by readers.
type Aggregate struct {
	ngrams      []ngram.Identifier
	unique      []ngram.Identifier
	counts      []int
	frequencies []float64
	index       map[string]int
	// unique indexes by descending frequency, first occurrence breaks ties
	ranked []int
}

// New aggregates ngrams. With threshold > 0, every n-gram occurring fewer
// than threshold*len(ngrams) times is dropped and the survivors are
// normalized among themselves, as if the dropped ones had never been
// there.
func New(ngrams []ngram.Identifier, threshold float64) *Aggregate {
	a := &Aggregate{
		ngrams: ngrams,
		index:  make(map[string]int),
	}

	var order []string
	counts := make(map[string]int)
	first := make(map[string]ngram.Identifier)
	for _, g := range ngrams {
		key := g.StringIdentifier()
		if _, ok := counts[key]; !ok {
			order = append(order, key)
			first[key] = g
		}
		counts[key]++
	}

	// NOTE: compared on raw counts, before normalization
	minCount := threshold * float64(len(ngrams))
	var retained int
	for _, key := range order {
		c := counts[key]
		if threshold > 0 && float64(c) < minCount {
			continue
		}
		a.index[key] = len(a.unique)
		a.unique = append(a.unique, first[key])
		a.counts = append(a.counts, c)
		retained += c
	}

	a.frequencies = make([]float64, len(a.counts))
	for i, c := range a.counts {
		a.frequencies[i] = float64(c) / float64(retained)
	}

	a.ranked = make([]int, len(a.unique))
	for i := range a.ranked {
		a.ranked[i] = i
	}
	sort.SliceStable(a.ranked, func(i, j int) bool {
		return a.counts[a.ranked[i]] > a.counts[a.ranked[j]]
	})
	return a
}

// NoNGrams reports whether nothing survived aggregation. Ranking and
// statistics queries fail with ErrNoNGrams when it is true.
func (a *Aggregate) NoNGrams() bool {
	return len(a.unique) == 0
}

// TotalNumberOfNGrams counts the original n-grams, repeats and filtered
// ones included
func (a *Aggregate) TotalNumberOfNGrams() int {
	return len(a.ngrams)
}

// NGrams returns the original ordered multiset
func (a *Aggregate) NGrams() []ngram.Identifier {
	return append([]ngram.Identifier(nil), a.ngrams...)
}

// UniqueNGrams returns the retained distinct n-grams in first-seen order
func (a *Aggregate) UniqueNGrams() []ngram.Identifier {
	return append([]ngram.Identifier(nil), a.unique...)
}

func (a *Aggregate) UniqueCount() int {
	return len(a.unique)
}

// NormalizedFrequencies is parallel to UniqueNGrams and sums to 1
func (a *Aggregate) NormalizedFrequencies() []float64 {
	return append([]float64(nil), a.frequencies...)
}

// NormalizedFrequency returns the frequency of id, or NotFound
func (a *Aggregate) NormalizedFrequency(id ngram.Identifier) float64 {
	return a.StringFrequency(id.StringIdentifier())
}

// StringFrequency looks up a frequency by string identifier, or NotFound
func (a *Aggregate) StringFrequency(key string) float64 {
	i, ok := a.index[key]
	if !ok {
		return NotFound
	}
	return a.frequencies[i]
}

func (a *Aggregate) at(rank int) (int, error) {
	if a.NoNGrams() {
		return 0, ErrNoNGrams
	}
	if rank >= len(a.ranked) {
		return 0, errors.Wrapf(ErrTooFewNGrams, "rank %d requested, %d unique", rank+1, len(a.ranked))
	}
	return a.ranked[rank], nil
}

func (a *Aggregate) MostCommon() (ngram.Identifier, error) {
	i, err := a.at(0)
	if err != nil {
		return nil, err
	}
	return a.unique[i], nil
}

// SecondMostCommon needs at least two unique n-grams
func (a *Aggregate) SecondMostCommon() (ngram.Identifier, error) {
	i, err := a.at(1)
	if err != nil {
		return nil, err
	}
	return a.unique[i], nil
}

func (a *Aggregate) MostCommonFrequency() (float64, error) {
	i, err := a.at(0)
	if err != nil {
		return 0, err
	}
	return a.frequencies[i], nil
}

func (a *Aggregate) SecondMostCommonFrequency() (float64, error) {
	i, err := a.at(1)
	if err != nil {
		return 0, err
	}
	return a.frequencies[i], nil
}

// TopK returns up to k string identifiers, most frequent first
func (a *Aggregate) TopK(k int) ([]string, error) {
	if a.NoNGrams() {
		return nil, ErrNoNGrams
	}
	k = max(min(k, len(a.ranked)), 0)
	res := make([]string, 0, k)
	for _, i := range a.ranked[:k] {
		res = append(res, a.unique[i].StringIdentifier())
	}
	return res, nil
}

// TopKFrequencies is TopK's frequencies
func (a *Aggregate) TopKFrequencies(k int) ([]float64, error) {
	if a.NoNGrams() {
		return nil, ErrNoNGrams
	}
	k = max(min(k, len(a.ranked)), 0)
	res := make([]float64, 0, k)
	for _, i := range a.ranked[:k] {
		res = append(res, a.frequencies[i])
	}
	return res, nil
}

func (a *Aggregate) TopTenMostCommonStringIdentifiers() ([]string, error) {
	return a.TopK(10)
}
