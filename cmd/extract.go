package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/jsphweid/ngramdex/features"
	"github.com/jsphweid/ngramdex/logging"
	"github.com/jsphweid/ngramdex/midi"
	"github.com/jsphweid/ngramdex/model"
	"github.com/jsphweid/ngramdex/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [files or directories...]",
	Short: "Extracts n-gram features from MIDI files",
	Long: `Extracts the configured n-gram features from every MIDI file given.
Directories are searched recursively for .mid and .midi files. Files that
cannot be read are logged and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		calcs, err := cfg.Calculators()
		if err != nil {
			return err
		}
		paths, err := util.GatherMidiPaths(args, cfg.MaxFiles)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return errors.New("no midi files found")
		}

		results := extractAll(cmd.Context(), paths, calcs, cfg.MaxConcurrency, log)
		return writeResults(cmd.OutOrStdout(), cfg.OutputFormat, results)
	},
}

// extractPiece runs one extraction pass over a piece
func extractPiece(piece *model.Piece, calcs []features.Calculator, l logging.Logger) (string, []features.Value, error) {
	passId := uuid.New().String()
	l = l.WithFields(logging.Fields{"pass": passId})

	reps := features.NewRepresentations(piece, l)
	values, err := features.Extract(reps, calcs)
	if err != nil {
		return passId, nil, err
	}
	l.Debug("extracted features", logging.Fields{
		"features":   len(values),
		"aggregates": reps.Built(),
	})
	return passId, values, nil
}

// extractAll processes paths concurrently and keeps their order. Failed
// files are left out of the results.
func extractAll(ctx context.Context, paths []string, calcs []features.Calculator, limit int, l logging.Logger) []fileResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]*fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fl := l.WithFields(logging.Fields{"file": path})
			piece, err := midi.LoadPiece(path)
			if err != nil {
				fl.Warn("skipping file", logging.Fields{"reason": err.Error()})
				return nil
			}
			passId, values, err := extractPiece(piece, calcs, fl)
			if err != nil {
				fl.Error(err, "extraction failed")
				return nil
			}
			results[i] = &fileResult{
				Path:     path,
				PassId:   passId,
				Voices:   voiceNames(piece.Timeline.Voices),
				Features: values,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.Warn("extraction interrupted", logging.Fields{"reason": err.Error()})
	}

	res := make([]fileResult, 0, len(paths))
	for _, r := range results {
		if r != nil {
			res = append(res, *r)
		}
	}
	l.Info("extraction done", logging.Fields{
		"files":   len(paths),
		"skipped": len(paths) - len(res),
	})
	return res
}
