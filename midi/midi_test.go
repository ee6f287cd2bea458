package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/ngramdex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const ticks = 480

func twoTrackFile(t *testing.T) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticks)

	var melody smf.Track
	melody.Add(0, midi.NoteOn(0, 60, 100))
	melody.Add(ticks, midi.NoteOff(0, 60))
	melody.Add(0, midi.NoteOn(0, 62, 100))
	// note-on with velocity 0 ends the note
	melody.Add(ticks/2, midi.NoteOn(0, 62, 0))
	melody.Add(ticks/2, midi.NoteOn(0, 64, 90))
	melody.Close(ticks)
	require.NoError(t, s.Add(melody))

	var rest smf.Track
	rest.Add(0, midi.NoteOn(1, 48, 80))
	rest.Add(ticks*2, midi.NoteOff(1, 48))
	rest.Add(0, midi.NoteOn(9, 36, 80))
	rest.Add(ticks, midi.NoteOff(9, 36))
	rest.Close(0)
	require.NoError(t, s.Add(rest))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestBuildPiece(t *testing.T) {
	s, err := ReadMidi(bytes.NewReader(twoTrackFile(t)))
	require.NoError(t, err)

	piece, err := BuildPiece(s)
	require.NoError(t, err)

	melody := model.Voice{Track: 0, Channel: 0}
	bass := model.Voice{Track: 1, Channel: 1}
	assert.Equal(t, []model.Voice{melody, bass}, piece.Timeline.Voices)

	l, ok := piece.Line(melody)
	require.True(t, ok)
	notes := l.Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, 60, notes[0].Pitch)
	assert.InDelta(t, 1.0, notes[0].Duration, 1e-9)
	assert.InDelta(t, 1.0, notes[1].Start, 1e-9)
	assert.InDelta(t, 0.5, notes[1].Duration, 1e-9)
	// the unterminated 64 is closed at the end of its track
	assert.Equal(t, 64, notes[2].Pitch)
	assert.InDelta(t, 2.0, notes[2].Start, 1e-9)
	assert.InDelta(t, 1.0, notes[2].Duration, 1e-9)

	_, ok = piece.Line(model.Voice{Track: 1, Channel: model.PercussionChannel})
	assert.False(t, ok)
}

func TestReadMidiFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two-track.mid")
	require.NoError(t, os.WriteFile(path, twoTrackFile(t), 0644))

	piece, err := LoadPiece(path)
	require.NoError(t, err)
	assert.Len(t, piece.Timeline.Voices, 2)

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}

func TestGarbageFails(t *testing.T) {
	_, err := ReadMidi(bytes.NewReader([]byte("definitely not a midi file")))
	assert.Error(t, err)
}

func TestPercussionOnlyHasNoNotes(t *testing.T) {
	s := smf.New()
	var drums smf.Track
	drums.Add(0, midi.NoteOn(9, 36, 100))
	drums.Add(ticks, midi.NoteOff(9, 36))
	drums.Close(0)
	require.NoError(t, s.Add(drums))

	_, err := BuildPiece(s)
	assert.ErrorIs(t, err, ErrNoNotes)
}
