package features

import (
	"github.com/jsphweid/ngramdex/aggregate"
	"github.com/jsphweid/ngramdex/generator"
	"github.com/jsphweid/ngramdex/logging"
	"github.com/jsphweid/ngramdex/model"
)

// Provider is all a calculator gets to see of a piece
type Provider interface {
	Aggregate(req generator.Request) (*aggregate.Aggregate, error)
	SelectVoices(selector string) ([]model.Voice, error)
}

// Representations serves aggregates for one extraction pass. Each request
// is generated and aggregated once; later calculators asking for the same
// request share the result. Not safe for concurrent use: a pass belongs to
// one goroutine.
type Representations struct {
	gen   *generator.Generator
	log   logging.Logger
	cache map[string]*aggregate.Aggregate
}

func NewRepresentations(piece *model.Piece, log logging.Logger) *Representations {
	log = logging.OrGlobal(log)
	return &Representations{
		gen:   generator.New(piece, log),
		log:   log,
		cache: make(map[string]*aggregate.Aggregate),
	}
}

func (r *Representations) Aggregate(req generator.Request) (*aggregate.Aggregate, error) {
	key := req.Key()
	if a, ok := r.cache[key]; ok {
		return a, nil
	}
	a, err := r.gen.Aggregate(req)
	if err != nil {
		return nil, err
	}
	r.log.Debug("built aggregate", logging.Fields{
		"request": key,
		"total":   a.TotalNumberOfNGrams(),
		"unique":  a.UniqueCount(),
	})
	r.cache[key] = a
	return a, nil
}

func (r *Representations) SelectVoices(selector string) ([]model.Voice, error) {
	return r.gen.SelectVoices(selector)
}

// Built is the number of distinct aggregates built so far
func (r *Representations) Built() int {
	return len(r.cache)
}
