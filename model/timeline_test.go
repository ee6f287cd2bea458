package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	soprano = Voice{Track: 1, Channel: 0}
	bass    = Voice{Track: 2, Channel: 1}
	drums   = Voice{Track: 3, Channel: PercussionChannel}
)

func TestNewPieceDropsPercussion(t *testing.T) {
	p := NewPiece(map[Voice][]Note{
		bass:    {{Pitch: 48, Start: 0, End: 1}},
		soprano: {{Pitch: 72, Start: 0, End: 1}},
		drums:   {{Pitch: 36, Start: 0, End: 0.5}},
	})

	assert := assert.New(t)
	assert.Equal([]Voice{soprano, bass}, p.Timeline.Voices)
	assert.Len(p.Lines, 2)
	_, ok := p.Line(drums)
	assert.False(ok)
	assert.Equal(-1, p.Timeline.VoiceIndex(drums))
	require.NoError(t, p.Validate())
}

func TestNewPieceSlicesTrackHeldNotes(t *testing.T) {
	p := NewPiece(map[Voice][]Note{
		soprano: {
			{Pitch: 72, Start: 0, End: 1},
			{Pitch: 74, Start: 1, End: 2},
		},
		bass: {{Pitch: 48, Start: 0, End: 2}},
	})

	slices := p.Timeline.Slices
	require.Len(t, slices, 2)

	assert := assert.New(t)
	assert.Equal([]int{74}, slices[1].Entries[0].Pitches)
	assert.True(slices[1].Entries[0].Onset)
	assert.Equal([]int{48}, slices[1].Entries[1].Pitches)
	assert.False(slices[1].Entries[1].Onset, "bass note is held, not re-attacked")
}

func TestNewPieceLinesUseHighestNoteAndRests(t *testing.T) {
	p := NewPiece(map[Voice][]Note{
		soprano: {
			{Pitch: 60, Start: 0, End: 1},
			{Pitch: 67, Start: 0, End: 1},
			{Pitch: 65, Start: 2, End: 3},
			// gap too short to be a rest
			{Pitch: 64, Start: 3.03, End: 4},
		},
	})

	line, ok := p.Line(soprano)
	require.True(t, ok)
	assert.Equal(t, []Event{
		{Pitch: 67, Start: 0, Duration: 1},
		{Rest: true, Start: 1, Duration: 1},
		{Pitch: 65, Start: 2, Duration: 1},
		{Pitch: 64, Start: 3.03, Duration: 4 - 3.03},
	}, line.Events)
	assert.Len(t, line.Notes(), 3)
}

func TestSliceEntryHighest(t *testing.T) {
	_, ok := SliceEntry{}.Highest()
	assert.False(t, ok)
	h, ok := SliceEntry{Pitches: []int{40, 52}}.Highest()
	assert.True(t, ok)
	assert.Equal(t, 52, h)
}

func TestValidateCatchesRaggedSlices(t *testing.T) {
	p := &Piece{Timeline: Timeline{
		Voices: []Voice{soprano, bass},
		Slices: []OnsetSlice{{Entries: []SliceEntry{{}}}},
	}}
	assert.Error(t, p.Validate())
}

func TestNewPieceOrdersUnsortedNotes(t *testing.T) {
	p := NewPiece(map[Voice][]Note{
		soprano: {
			{Pitch: 64, Start: 2, End: 3},
			{Pitch: 60, Start: 0, End: 1},
			{Pitch: 62, Start: 1, End: 2},
		},
	})

	var times []float64
	for _, s := range p.Timeline.Slices {
		times = append(times, s.Time)
	}
	assert.Equal(t, []float64{0, 1, 2}, times)

	line, ok := p.Line(soprano)
	require.True(t, ok)
	var pitches []int
	for _, e := range line.Notes() {
		pitches = append(pitches, e.Pitch)
	}
	assert.Equal(t, []int{60, 62, 64}, pitches)
}
