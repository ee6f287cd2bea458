package moment

import "github.com/jsphweid/ngramdex/util"

// State tags what an interval moment stands for
type State uint8

const (
	Sounding State = iota
	// vertical: one side of the pair is resting
	NoInterval
	// melodic: a note (or rest) followed by a rest
	IntoRest
	// melodic: a rest followed by a note
	FromRest
)

// Encoded values of the non-sounding states. They sit outside the range of
// any real semitone interval.
const (
	NoIntervalValue = 128
	IntoRestValue   = -128
	FromRestValue   = 128
)

// Interval is a melodic or vertical interval moment. Only Sounding
// intervals carry semitones; transforms leave the other states alone.
type Interval struct {
	Semitones int
	State     State
}

func Semitones(n int) Interval {
	return Interval{Semitones: n}
}

func Rest(s State) Interval {
	return Interval{State: s}
}

func (i Interval) IsSounding() bool {
	return i.State == Sounding
}

// Value is the number the interval is encoded as inside an n-gram
func (i Interval) Value() float64 {
	switch i.State {
	case NoInterval:
		return NoIntervalValue
	case IntoRest:
		return IntoRestValue
	case FromRest:
		return FromRestValue
	default:
		return float64(i.Semitones)
	}
}

// Transform holds the optional interval transforms of an n-gram request
type Transform struct {
	// keep the sign of intervals; when false every interval is made absolute
	Direction bool
	// reduce intervals modulo an octave
	Wrapping bool
	// convert semitones to scale-step interval numbers
	Generic bool
}

// genericSteps maps semitones within an octave to generic interval numbers
// (1 = unison, 3 = third, ...). The tritone counts as a fourth.
var genericSteps = [12]int{1, 2, 2, 3, 3, 4, 4, 5, 6, 6, 7, 7}

// GenericInterval converts a semitone count to its generic interval number,
// keeping the sign. Compound intervals continue past the octave (12 -> 8).
func GenericInterval(semitones int) int {
	abs := util.Abs(semitones)
	generic := (abs/12)*7 + genericSteps[abs%12]
	if semitones < 0 {
		return -generic
	}
	return generic
}

// Apply runs direction, then wrapping, then generic conversion
func (t Transform) Apply(i Interval) Interval {
	if !i.IsSounding() {
		return i
	}
	n := i.Semitones
	if !t.Direction {
		n = util.Abs(n)
	}
	if t.Wrapping {
		n = n % 12
	}
	if t.Generic {
		n = GenericInterval(n)
	}
	return Semitones(n)
}

// ApplyAll transforms a sequence into a new slice
func (t Transform) ApplyAll(seq []Interval) []Interval {
	res := make([]Interval, len(seq))
	for i, iv := range seq {
		res[i] = t.Apply(iv)
	}
	return res
}

// Values encodes intervals as a moment vector
func Values(seq []Interval) []float64 {
	res := make([]float64, len(seq))
	for i, iv := range seq {
		res[i] = iv.Value()
	}
	return res
}
