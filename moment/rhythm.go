package moment

import "github.com/jsphweid/ngramdex/util"

// RhythmicValues are the quantized durations, in quarter notes, a note can
// take on.
var RhythmicValues = []float64{0.125, 0.25, 0.5, 0.75, 1.0, 2.0, 3.0, 4.0, 6.0, 8.0, 10.0, 12.0}

// QuantizeRhythmicValue snaps a duration to the nearest rhythmic value.
// Ties go to the shorter value; anything past 12 quarter notes is 12.
func QuantizeRhythmicValue(quarterNotes float64) float64 {
	best := RhythmicValues[0]
	bestDist := util.Abs(quarterNotes - best)
	for _, v := range RhythmicValues[1:] {
		if d := util.Abs(quarterNotes - v); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}
