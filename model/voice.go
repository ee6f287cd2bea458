package model

import "fmt"

// PercussionChannel is MIDI channel 10, zero-indexed. Voices on it are
// unpitched and never contribute pitched moments.
const PercussionChannel = 9

// Voice is one musical line, identified by its track and channel
type Voice struct {
	Track   int `json:"track" yaml:"track" mapstructure:"track"`
	Channel int `json:"channel" yaml:"channel" mapstructure:"channel"`
}

func (v Voice) IsPercussion() bool {
	return v.Channel == PercussionChannel
}

func (v Voice) String() string {
	return fmt.Sprintf("t%d:c%d", v.Track, v.Channel)
}

// Note positions are measured in quarter notes from the start of the piece
type Note struct {
	Pitch int
	Start float64
	End   float64
}

func (n Note) Duration() float64 {
	return n.End - n.Start
}

// Event is one step of a voice line: the melody note at an onset (highest
// pitch when a voice plays several notes at once) or a rest.
type Event struct {
	Pitch    int
	Rest     bool
	Start    float64
	Duration float64
}

// Line is the ordered event sequence of a single voice
type Line struct {
	Voice  Voice
	Events []Event
}

// Notes returns the line without its rests
func (l Line) Notes() []Event {
	var res []Event
	for _, e := range l.Events {
		if !e.Rest {
			res = append(res, e)
		}
	}
	return res
}
