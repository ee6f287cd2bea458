package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jsphweid/ngramdex/features"
	"github.com/jsphweid/ngramdex/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type fileResult struct {
	Path     string           `json:"path" yaml:"path"`
	PassId   string           `json:"pass_id" yaml:"pass_id"`
	Voices   []string         `json:"voices" yaml:"voices"`
	Features []features.Value `json:"features" yaml:"features"`
}

func voiceNames(voices []model.Voice) []string {
	res := make([]string, len(voices))
	for i, v := range voices {
		res[i] = v.String()
	}
	return res
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strings.Join(parts, " ")
}

func writeResults(w io.Writer, format string, results []fileResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(results)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tFEATURE\tVALUE")
		for _, r := range results {
			for _, f := range r.Features {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Path, f.Name, formatValues(f.Values))
			}
		}
		return tw.Flush()
	}
	return errors.Errorf("unknown output format %q", format)
}
