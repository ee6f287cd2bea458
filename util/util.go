package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func isMidiPath(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi")
}

// GatherMidiPaths expands every argument into MIDI file paths. Directories
// are walked recursively; plain files are taken as they are. maxNum of 0
// means no limit.
func GatherMidiPaths(args []string, maxNum int) ([]string, error) {
	var res []string
	full := func() bool { return maxNum > 0 && len(res) >= maxNum }

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "could not stat %s", arg)
		}
		if !info.IsDir() {
			if !full() {
				res = append(res, arg)
			}
			continue
		}
		walk := func(s string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isMidiPath(s) && !full() {
				res = append(res, s)
			}
			return nil
		}
		if err := filepath.WalkDir(arg, walk); err != nil {
			return nil, errors.Wrapf(err, "could not walk %s", arg)
		}
	}
	return res, nil
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Abs[A constraints.Signed | constraints.Float](num A) A {
	if num < 0 {
		return -num
	}
	return num
}
