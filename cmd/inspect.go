package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/ngramdex/features"
	"github.com/jsphweid/ngramdex/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Shows the most common n-grams of a MIDI file",
	Long: `Shows, for every distinct n-gram query of the configured features,
the ten most common n-grams of a MIDI file and their frequencies.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		calcs, err := cfg.Calculators()
		if err != nil {
			return err
		}
		piece, err := midi.LoadPiece(args[0])
		if err != nil {
			return err
		}
		reps := features.NewRepresentations(piece, log)
		return inspect(cmd.OutOrStdout(), reps, calcs)
	},
}

func inspect(w io.Writer, p features.Provider, calcs []features.Calculator) error {
	seen := make(map[features.Query]bool)
	for _, c := range calcs {
		f, ok := c.(features.NGramFeature)
		if !ok || seen[f.Query] {
			continue
		}
		seen[f.Query] = true

		a, err := f.Query.Resolve(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v %d-grams, voices %s, %+v\n", f.Query.Kind, f.Query.N, f.Query.Voices, f.Query.Transform)
		if a.NoNGrams() {
			fmt.Fprintln(w, "  none")
			continue
		}
		fmt.Fprintf(w, "  total: %d, unique: %d\n", a.TotalNumberOfNGrams(), a.UniqueCount())

		ids, err := a.TopTenMostCommonStringIdentifiers()
		if err != nil {
			return err
		}
		freqs, err := a.TopKFrequencies(len(ids))
		if err != nil {
			return err
		}
		for i, id := range ids {
			fmt.Fprintf(w, "  %2d. %-24s %.4f\n", i+1, id, freqs[i])
		}
	}
	return nil
}
