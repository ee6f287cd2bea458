package model

import (
	"sort"

	"github.com/jsphweid/ngramdex/util"
	"github.com/pkg/errors"
)

// MinRest is the shortest gap (in quarter notes) between two notes of a
// voice that counts as a rest. Shorter gaps are articulation.
const MinRest = 0.0625

// SliceEntry is what one voice does in one onset slice
type SliceEntry struct {
	// ascending, empty when the voice rests
	Pitches []int
	// true when a note starts in this slice, false for held notes
	Onset bool
}

func (e SliceEntry) Rest() bool {
	return len(e.Pitches) == 0
}

// Highest returns the melody pitch of the entry
func (e SliceEntry) Highest() (int, bool) {
	if e.Rest() {
		return 0, false
	}
	return e.Pitches[len(e.Pitches)-1], true
}

// OnsetSlice groups everything sounding at one onset time. Entries is
// parallel to Timeline.Voices.
type OnsetSlice struct {
	Time    float64
	Entries []SliceEntry
}

// Timeline is the note onset slice timeline shared by all voices
type Timeline struct {
	Voices []Voice
	Slices []OnsetSlice
}

// VoiceIndex returns the position of v in Voices, or -1
func (t *Timeline) VoiceIndex(v Voice) int {
	for i, tv := range t.Voices {
		if tv == v {
			return i
		}
	}
	return -1
}

// Piece is the input of n-gram generation: the shared slice timeline plus
// each voice's own event line.
type Piece struct {
	Timeline Timeline
	Lines    []Line
}

// Line returns the event line of v
func (p *Piece) Line(v Voice) (Line, bool) {
	for _, l := range p.Lines {
		if l.Voice == v {
			return l, true
		}
	}
	return Line{}, false
}

func (p *Piece) Validate() error {
	for i, s := range p.Timeline.Slices {
		if len(s.Entries) != len(p.Timeline.Voices) {
			return errors.Errorf("slice %d has %d entries, expected %d", i, len(s.Entries), len(p.Timeline.Voices))
		}
	}
	for _, v := range p.Timeline.Voices {
		if v.IsPercussion() {
			return errors.Errorf("percussion voice %v in timeline", v)
		}
	}
	return nil
}

func sortedVoices(notes map[Voice][]Note) []Voice {
	var voices []Voice
	for v := range notes {
		if !v.IsPercussion() {
			voices = append(voices, v)
		}
	}
	sort.Slice(voices, func(i, j int) bool {
		if voices[i].Track != voices[j].Track {
			return voices[i].Track < voices[j].Track
		}
		return voices[i].Channel < voices[j].Channel
	})
	return voices
}

func buildSlices(voices []Voice, notes map[Voice][]Note) []OnsetSlice {
	onsets := make(map[float64]bool)
	for _, v := range voices {
		for _, n := range notes[v] {
			onsets[n.Start] = true
		}
	}
	times := util.SortedKeys(onsets)

	slices := make([]OnsetSlice, len(times))
	for i, t := range times {
		s := OnsetSlice{Time: t, Entries: make([]SliceEntry, len(voices))}
		for vi, v := range voices {
			var entry SliceEntry
			for _, n := range notes[v] {
				if n.Start <= t && t < n.End {
					entry.Pitches = append(entry.Pitches, n.Pitch)
					if n.Start == t {
						entry.Onset = true
					}
				}
			}
			sort.Ints(entry.Pitches)
			s.Entries[vi] = entry
		}
		slices[i] = s
	}
	return slices
}

func buildLine(v Voice, notes []Note) Line {
	byStart := make(map[float64]Note)
	endByStart := make(map[float64]float64)
	for _, n := range notes {
		if n.End > endByStart[n.Start] {
			endByStart[n.Start] = n.End
		}
		prev, ok := byStart[n.Start]
		// highest note = melody
		if !ok || n.Pitch > prev.Pitch {
			byStart[n.Start] = n
		}
	}
	starts := util.SortedKeys(byStart)

	line := Line{Voice: v}
	var soundingUntil float64
	for i, s := range starts {
		n := byStart[s]
		if i > 0 && s-soundingUntil >= MinRest {
			line.Events = append(line.Events, Event{
				Rest:     true,
				Start:    soundingUntil,
				Duration: s - soundingUntil,
			})
		}
		line.Events = append(line.Events, Event{
			Pitch:    n.Pitch,
			Start:    n.Start,
			Duration: n.Duration(),
		})
		if end := endByStart[s]; end > soundingUntil {
			soundingUntil = end
		}
	}
	return line
}

// NewPiece builds the slice timeline and the voice lines from raw notes.
// Percussion voices are dropped.
func NewPiece(notes map[Voice][]Note) *Piece {
	voices := sortedVoices(notes)
	p := &Piece{
		Timeline: Timeline{
			Voices: voices,
			Slices: buildSlices(voices, notes),
		},
	}
	for _, v := range voices {
		p.Lines = append(p.Lines, buildLine(v, notes[v]))
	}
	return p
}
