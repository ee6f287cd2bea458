package generator

import (
	"github.com/jsphweid/ngramdex/aggregate"
	"github.com/jsphweid/ngramdex/logging"
	"github.com/jsphweid/ngramdex/model"
	"github.com/jsphweid/ngramdex/moment"
	"github.com/jsphweid/ngramdex/ngram"
	"github.com/pkg/errors"
)

// Generator turns requests into n-grams for one piece
type Generator struct {
	piece   *model.Piece
	builder *moment.Builder
	log     logging.Logger
}

func New(piece *model.Piece, log logging.Logger) *Generator {
	return &Generator{
		piece:   piece,
		builder: moment.NewBuilder(piece),
		log:     logging.OrGlobal(log),
	}
}

// Generate returns the n-grams of req in source order. Per-voice kinds are
// windowed voice by voice, so no n-gram spans two voices.
func (g *Generator) Generate(req Request) ([]ngram.Identifier, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var res []ngram.Identifier
	var err error
	switch req.Kind {
	case Melodic:
		res, err = g.melodic(req)
	case Rhythmic:
		res, err = g.rhythmic(req)
	case Vertical:
		res, err = g.vertical(req)
	case VerticalMelodic:
		res, err = g.verticalMelodic(req)
	case RhythmicMelodic:
		res, err = g.rhythmicMelodic(req)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "generating %v n-grams", req.Kind)
	}

	g.log.Debug("generated n-grams", logging.Fields{
		"request": req.Key(),
		"count":   len(res),
	})
	return res, nil
}

// Aggregate generates and aggregates req in one go
func (g *Generator) Aggregate(req Request) (*aggregate.Aggregate, error) {
	ngrams, err := g.Generate(req)
	if err != nil {
		return nil, err
	}
	return aggregate.New(ngrams, req.Threshold), nil
}

func intervalMoments(seq []moment.Interval, tr moment.Transform) [][]float64 {
	res := make([][]float64, len(seq))
	for i, iv := range seq {
		res[i] = []float64{tr.Apply(iv).Value()}
	}
	return res
}

func vectorMoments(seq [][]moment.Interval, tr moment.Transform) [][]float64 {
	res := make([][]float64, len(seq))
	for i, m := range seq {
		res[i] = moment.Values(tr.ApplyAll(m))
	}
	return res
}

func (g *Generator) melodic(req Request) ([]ngram.Identifier, error) {
	var res []ngram.Identifier
	for _, v := range req.Voices {
		ivs, err := g.builder.MelodicIntervals(v)
		if err != nil {
			return nil, err
		}
		ngrams, err := ngram.Build(intervalMoments(ivs, req.Transform), req.N)
		if err != nil {
			return nil, err
		}
		res = append(res, ngram.Identifiers(ngrams)...)
	}
	return res, nil
}

func (g *Generator) rhythmic(req Request) ([]ngram.Identifier, error) {
	var res []ngram.Identifier
	for _, v := range req.Voices {
		values, err := g.builder.RhythmicValues(v)
		if err != nil {
			return nil, err
		}
		ngrams, err := ngram.Build(ngram.Scalars(values), req.N)
		if err != nil {
			return nil, err
		}
		res = append(res, ngram.Identifiers(ngrams)...)
	}
	return res, nil
}

func (g *Generator) vertical(req Request) ([]ngram.Identifier, error) {
	seq, err := g.builder.VerticalIntervals(req.Voices, req.IgnoreRestsInBase)
	if err != nil {
		return nil, err
	}
	ngrams, err := ngram.Build(vectorMoments(seq.Moments, req.Transform), req.N)
	if err != nil {
		return nil, err
	}
	return ngram.Identifiers(ngrams), nil
}

func (g *Generator) verticalMelodic(req Request) ([]ngram.Identifier, error) {
	seq, err := g.builder.VerticalIntervals(req.Voices, req.IgnoreRestsInBase)
	if err != nil {
		return nil, err
	}
	motion, err := g.builder.MelodicMotion(req.Voices, seq.Slices)
	if err != nil {
		return nil, err
	}
	ngrams, err := ngram.Build2D(
		vectorMoments(seq.Moments, req.Transform),
		vectorMoments(motion, req.Transform),
		req.N,
	)
	if err != nil {
		return nil, err
	}
	return ngram.Identifiers(ngrams), nil
}

func (g *Generator) rhythmicMelodic(req Request) ([]ngram.Identifier, error) {
	var res []ngram.Identifier
	for _, v := range req.Voices {
		rhythms, steps, err := g.builder.EventSequence(v)
		if err != nil {
			return nil, err
		}
		ngrams, err := ngram.Build2D(ngram.Scalars(rhythms), intervalMoments(steps, req.Transform), req.N)
		if err != nil {
			return nil, err
		}
		res = append(res, ngram.Identifiers(ngrams)...)
	}
	return res, nil
}
