package generator

import (
	"fmt"
	"strings"

	"github.com/jsphweid/ngramdex/model"
	"github.com/jsphweid/ngramdex/moment"
	"github.com/pkg/errors"
)

var ErrInvalidRequest = errors.New("invalid n-gram request")

// Kind is the moment type an n-gram request is built from
type Kind int

const (
	Vertical Kind = iota + 1
	Melodic
	Rhythmic
	// vertical interval n-grams paired with the melodic motion between them
	VerticalMelodic
	// rhythmic value n-grams paired with the melodic motion between them
	RhythmicMelodic
)

var kindNames = map[Kind]string{
	Vertical:        "vertical",
	Melodic:         "melodic",
	Rhythmic:        "rhythmic",
	VerticalMelodic: "vertical-melodic",
	RhythmicMelodic: "rhythmic-melodic",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidRequest, "unknown n-gram kind %q", s)
}

func (k Kind) vertical() bool {
	return k == Vertical || k == VerticalMelodic
}

// Request asks for the n-grams of one moment type over a voice subset.
// For vertical kinds the first voice is the base voice.
type Request struct {
	Kind              Kind
	N                 int
	Voices            []model.Voice
	IgnoreRestsInBase bool
	Transform         moment.Transform
	// fraction of the n-gram total below which an n-gram is dropped, 0 keeps all
	Threshold float64
}

// Key identifies the request; equal requests have equal keys
func (r Request) Key() string {
	voices := make([]string, len(r.Voices))
	for i, v := range r.Voices {
		voices[i] = v.String()
	}
	return fmt.Sprintf("%v/n=%d/voices=%s/ignore-rests=%t/direction=%t/wrapping=%t/generic=%t/threshold=%g",
		r.Kind, r.N, strings.Join(voices, ","), r.IgnoreRestsInBase,
		r.Transform.Direction, r.Transform.Wrapping, r.Transform.Generic, r.Threshold)
}

// Validate rejects malformed requests so that an empty aggregate always
// means there was no data, never a bad question
func (r Request) Validate() error {
	if _, ok := kindNames[r.Kind]; !ok {
		return errors.Wrapf(ErrInvalidRequest, "unknown n-gram kind %d", int(r.Kind))
	}
	if r.N < 1 {
		return errors.Wrapf(ErrInvalidRequest, "%v n-grams need n >= 1, got %d", r.Kind, r.N)
	}
	if len(r.Voices) == 0 {
		return errors.Wrapf(ErrInvalidRequest, "%v n-grams requested for no voices", r.Kind)
	}
	if r.Kind.vertical() && len(r.Voices) < 2 {
		return errors.Wrapf(ErrInvalidRequest, "%v n-grams need at least 2 voices, got %d", r.Kind, len(r.Voices))
	}
	seen := make(map[model.Voice]bool)
	for _, v := range r.Voices {
		if v.IsPercussion() {
			return errors.Wrapf(ErrInvalidRequest, "voice %v is on the percussion channel", v)
		}
		if seen[v] {
			return errors.Wrapf(ErrInvalidRequest, "voice %v requested twice", v)
		}
		seen[v] = true
	}
	if r.Threshold < 0 || r.Threshold >= 1 {
		return errors.Wrapf(ErrInvalidRequest, "threshold must be in [0, 1), got %g", r.Threshold)
	}
	return nil
}
