package midi

import (
	"bytes"
	"io"
	"os"

	"github.com/jsphweid/ngramdex/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoNotes = errors.New("midi file has no pitched notes")

// microseconds per quarter note at the default tempo, used to turn
// SMPTE time into quarter notes
const defaultQuarterMicros = 500000

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, errors.Errorf("error parsing midi file: %v", r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}
	return res, nil
}

type noteKey struct {
	channel uint8
	key     uint8
}

// BuildPiece collects the notes of every track and channel and lays them
// out on a timeline measured in quarter notes. A note-on with velocity 0
// ends a note. Notes still sounding when their track ends are closed there.
func BuildPiece(s *smf.SMF) (*model.Piece, error) {
	toQuarters := quarterConverter(s)

	notes := make(map[model.Voice][]model.Note)
	for trackNum, events := range s.Tracks {
		// start ticks of sounding notes, oldest first
		open := make(map[noteKey][]int64)
		var absTicks int64

		closeNote := func(k noteKey, end int64) {
			pending := open[k]
			if len(pending) == 0 {
				return
			}
			start := pending[0]
			open[k] = pending[1:]
			if end <= start {
				return
			}
			v := model.Voice{Track: trackNum, Channel: int(k.channel)}
			notes[v] = append(notes[v], model.Note{
				Pitch: int(k.key),
				Start: toQuarters(start),
				End:   toQuarters(end),
			})
		}

		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				k := noteKey{channel, key}
				if velocity == 0 {
					closeNote(k, absTicks)
					continue
				}
				open[k] = append(open[k], absTicks)
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				closeNote(noteKey{channel, key}, absTicks)
			}
		}
		for k := range open {
			for len(open[k]) > 0 {
				closeNote(k, absTicks)
			}
		}
	}

	piece := model.NewPiece(notes)
	if len(piece.Timeline.Voices) == 0 {
		return nil, ErrNoNotes
	}
	if err := piece.Validate(); err != nil {
		return nil, err
	}
	return piece, nil
}

// LoadPiece reads and converts a midi file in one go
func LoadPiece(filepath string) (*model.Piece, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	p, err := BuildPiece(s)
	if err != nil {
		return nil, errors.Wrapf(err, "building piece from %s", filepath)
	}
	return p, nil
}

func quarterConverter(s *smf.SMF) func(ticks int64) float64 {
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok && mt > 0 {
		resolution := float64(mt)
		return func(ticks int64) float64 {
			return float64(ticks) / resolution
		}
	}
	return func(ticks int64) float64 {
		return float64(s.TimeAt(ticks)) / defaultQuarterMicros
	}
}
