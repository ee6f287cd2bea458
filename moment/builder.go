package moment

import (
	"github.com/jsphweid/ngramdex/model"
	"github.com/pkg/errors"
)

var (
	ErrUnknownVoice    = errors.New("voice is not part of the piece")
	ErrPercussionVoice = errors.New("percussion voice has no pitched moments")
)

// Builder derives moment sequences from a piece. It trusts the piece's
// voice lines: the highest note of an onset is the melody note.
type Builder struct {
	piece *model.Piece
}

func NewBuilder(piece *model.Piece) *Builder {
	return &Builder{piece: piece}
}

func (b *Builder) line(v model.Voice) (model.Line, error) {
	if v.IsPercussion() {
		return model.Line{}, errors.Wrapf(ErrPercussionVoice, "voice %v", v)
	}
	l, ok := b.piece.Line(v)
	if !ok {
		return model.Line{}, errors.Wrapf(ErrUnknownVoice, "voice %v", v)
	}
	return l, nil
}

func (b *Builder) voiceIndexes(voices []model.Voice) ([]int, error) {
	res := make([]int, len(voices))
	for i, v := range voices {
		if v.IsPercussion() {
			return nil, errors.Wrapf(ErrPercussionVoice, "voice %v", v)
		}
		idx := b.piece.Timeline.VoiceIndex(v)
		if idx < 0 {
			return nil, errors.Wrapf(ErrUnknownVoice, "voice %v", v)
		}
		res[i] = idx
	}
	return res, nil
}

// motion is the melodic step between two positions, either of which may
// be a rest
func motion(prev int, prevSounding bool, next int, nextSounding bool) Interval {
	switch {
	case prevSounding && nextSounding:
		return Semitones(next - prev)
	case !prevSounding && nextSounding:
		return Rest(FromRest)
	default:
		return Rest(IntoRest)
	}
}

// MelodicIntervals returns the signed semitone steps between consecutive
// notes of a voice. Rests are skipped over.
func (b *Builder) MelodicIntervals(v model.Voice) ([]Interval, error) {
	l, err := b.line(v)
	if err != nil {
		return nil, err
	}
	notes := l.Notes()
	if len(notes) < 2 {
		return nil, nil
	}
	res := make([]Interval, 0, len(notes)-1)
	for i := 1; i < len(notes); i++ {
		res = append(res, Semitones(notes[i].Pitch-notes[i-1].Pitch))
	}
	return res, nil
}

// RhythmicValues returns the quantized duration of every note of a voice
func (b *Builder) RhythmicValues(v model.Voice) ([]float64, error) {
	l, err := b.line(v)
	if err != nil {
		return nil, err
	}
	var res []float64
	for _, n := range l.Notes() {
		res = append(res, QuantizeRhythmicValue(n.Duration))
	}
	return res, nil
}

// EventSequence walks a voice including its rests. rhythms has one
// quantized duration per event, motion the len(rhythms)-1 steps between
// consecutive events.
func (b *Builder) EventSequence(v model.Voice) (rhythms []float64, steps []Interval, err error) {
	l, err := b.line(v)
	if err != nil {
		return nil, nil, err
	}
	for i, e := range l.Events {
		rhythms = append(rhythms, QuantizeRhythmicValue(e.Duration))
		if i > 0 {
			prev := l.Events[i-1]
			steps = append(steps, motion(prev.Pitch, !prev.Rest, e.Pitch, !e.Rest))
		}
	}
	return rhythms, steps, nil
}

// VerticalSequence is the vertical interval moments of a voice subset
// together with the slice each one came from
type VerticalSequence struct {
	Slices  []int
	Moments [][]Interval
}

// VerticalIntervals builds one moment per slice in which at least one of
// the voices has a new onset. The first voice is the base: each moment
// holds the interval from the base to every other voice, in order, or
// NoInterval where that voice rests. When the base rests the slice is
// dropped if ignoreRestsInBase is set, otherwise the first sounding voice
// stands in as base.
func (b *Builder) VerticalIntervals(voices []model.Voice, ignoreRestsInBase bool) (VerticalSequence, error) {
	var seq VerticalSequence
	if len(voices) < 2 {
		return seq, errors.Errorf("vertical intervals need at least 2 voices, got %d", len(voices))
	}
	idxs, err := b.voiceIndexes(voices)
	if err != nil {
		return seq, err
	}

	for si, slice := range b.piece.Timeline.Slices {
		onset := false
		for _, vi := range idxs {
			if slice.Entries[vi].Onset {
				onset = true
				break
			}
		}
		if !onset {
			continue
		}

		base := -1
		for k, vi := range idxs {
			if !slice.Entries[vi].Rest() {
				base = k
				break
			}
		}
		if base < 0 || (base > 0 && ignoreRestsInBase) {
			continue
		}
		basePitch, _ := slice.Entries[idxs[base]].Highest()

		m := make([]Interval, 0, len(idxs)-1)
		for k, vi := range idxs {
			if k == base {
				continue
			}
			p, ok := slice.Entries[vi].Highest()
			if !ok {
				m = append(m, Rest(NoInterval))
				continue
			}
			m = append(m, Semitones(p-basePitch))
		}
		seq.Slices = append(seq.Slices, si)
		seq.Moments = append(seq.Moments, m)
	}
	return seq, nil
}

// MelodicMotion returns, for each consecutive pair of the given slices, the
// step every voice makes between them. The result has len(slices)-1
// moments of len(voices) intervals each.
func (b *Builder) MelodicMotion(voices []model.Voice, slices []int) ([][]Interval, error) {
	idxs, err := b.voiceIndexes(voices)
	if err != nil {
		return nil, err
	}
	all := b.piece.Timeline.Slices
	var res [][]Interval
	for i := 1; i < len(slices); i++ {
		prev, next := all[slices[i-1]], all[slices[i]]
		m := make([]Interval, len(idxs))
		for k, vi := range idxs {
			pp, pok := prev.Entries[vi].Highest()
			np, nok := next.Entries[vi].Highest()
			m[k] = motion(pp, pok, np, nok)
		}
		res = append(res, m)
	}
	return res, nil
}
