package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/getmockd/expect/pkg/cli/internal/output"
	"github.com/getmockd/expect/pkg/fixture"
)

// fixturePaths expands the command arguments into fixture paths. Arguments
// containing glob characters are expanded (with ** support); patterns that
// match nothing produce a warning.
func fixturePaths(stderr io.Writer, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		matches, err := fixture.Glob(arg, "")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if len(matches) == 0 {
			output.Warn(stderr, "no fixtures match %s", arg)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, errors.New("no fixture files to process")
	}
	return paths, nil
}
