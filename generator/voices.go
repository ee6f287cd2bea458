package generator

import (
	"strconv"
	"strings"

	"github.com/jsphweid/ngramdex/model"
	"github.com/pkg/errors"
)

// Voice selectors understood by SelectVoices
const (
	SelectAll     = "all"
	SelectHighest = "highest"
	SelectLowest  = "lowest"
	// lowest voice first, so it is the base of vertical n-grams
	SelectOuter = "outer"
)

// Voices returns every pitched voice of the piece in timeline order
func (g *Generator) Voices() []model.Voice {
	return append([]model.Voice(nil), g.piece.Timeline.Voices...)
}

func meanPitch(l model.Line) (float64, bool) {
	notes := l.Notes()
	if len(notes) == 0 {
		return 0, false
	}
	var sum int
	for _, n := range notes {
		sum += n.Pitch
	}
	return float64(sum) / float64(len(notes)), true
}

// extremeVoices finds the voices with the lowest and highest mean pitch.
// Earlier voices win ties.
func (g *Generator) extremeVoices() (lowest, highest model.Voice, ok bool) {
	var lo, hi float64
	for _, l := range g.piece.Lines {
		m, has := meanPitch(l)
		if !has {
			continue
		}
		if !ok || m < lo {
			lo, lowest = m, l.Voice
		}
		if !ok || m > hi {
			hi, highest = m, l.Voice
		}
		ok = true
	}
	return lowest, highest, ok
}

// SelectVoices resolves a selector to voices: "all", "highest", "lowest",
// "outer" or an explicit comma separated list of track:channel pairs.
// Selectors that find nothing return an empty slice, not an error.
func (g *Generator) SelectVoices(selector string) ([]model.Voice, error) {
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == SelectAll {
		return g.Voices(), nil
	}
	if sel != SelectHighest && sel != SelectLowest && sel != SelectOuter {
		return ParseVoices(selector)
	}

	lowest, highest, ok := g.extremeVoices()
	switch {
	case !ok:
		return nil, nil
	case sel == SelectHighest:
		return []model.Voice{highest}, nil
	case sel == SelectLowest:
		return []model.Voice{lowest}, nil
	case lowest == highest:
		return nil, nil
	}
	return []model.Voice{lowest, highest}, nil
}

// ParseVoices reads "track:channel,track:channel"
func ParseVoices(s string) ([]model.Voice, error) {
	var res []model.Voice
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tc := strings.Split(part, ":")
		if len(tc) != 2 {
			return nil, errors.Wrapf(ErrInvalidRequest, "voice %q is not track:channel", part)
		}
		track, err := strconv.Atoi(tc[0])
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidRequest, "voice %q: bad track", part)
		}
		channel, err := strconv.Atoi(tc[1])
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidRequest, "voice %q: bad channel", part)
		}
		res = append(res, model.Voice{Track: track, Channel: channel})
	}
	if len(res) == 0 {
		return nil, errors.Wrapf(ErrInvalidRequest, "no voices in %q", s)
	}
	return res, nil
}
