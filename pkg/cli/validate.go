package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/expect/pkg/cli/internal/output"
	"github.com/getmockd/expect/pkg/fixture"
)

// ValidateResult is the outcome of validating one fixture file.
type ValidateResult struct {
	File         string   `json:"file"`
	Valid        bool     `json:"valid"`
	Expectations int      `json:"expectations"`
	Errors       []string `json:"errors,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate <file|glob>...",
	Short: "Validate fixture files",
	Long: `Validate checks each fixture against the fixture schema, then builds every
expectation it declares, reporting unknown matchers, malformed arguments and
missing response files.

Globs support ** for recursive matching. The command exits non-zero if any
fixture is invalid.`,
	Example: `  expect validate testdata/fixtures/**/*.yaml
  expect validate --json signup.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := fixturePaths(cmd.ErrOrStderr(), args)
		if err != nil {
			return err
		}

		results := make([]ValidateResult, 0, len(paths))
		invalid := 0
		for _, path := range paths {
			result := validateFile(path)
			if !result.Valid {
				invalid++
			}
			results = append(results, result)
		}

		if jsonOutput {
			if err := output.JSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
		} else {
			w := output.Table(cmd.OutOrStdout())
			for _, r := range results {
				if r.Valid {
					fmt.Fprintf(w, "ok\t%s\t%d expectations\n", r.File, r.Expectations)
					continue
				}
				fmt.Fprintf(w, "FAIL\t%s\t\n", r.File)
				for _, msg := range r.Errors {
					fmt.Fprintf(w, "\t  %s\t\n", msg)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}

		if invalid > 0 {
			return fmt.Errorf("%d of %d fixtures invalid", invalid, len(results))
		}
		return nil
	},
}

func validateFile(path string) ValidateResult {
	logger.Debug("validating fixture", "file", path)
	result := ValidateResult{File: path}

	if err := fixture.ValidateFile(path); err != nil {
		var verr *fixture.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				result.Errors = append(result.Errors, p.String())
			}
		} else {
			result.Errors = []string{err.Error()}
		}
		logger.Warn("invalid fixture", "file", path, "error", err)
		return result
	}

	f, err := fixture.LoadFile(path)
	if err != nil {
		result.Errors = []string{err.Error()}
		return result
	}
	result.Valid = true
	result.Expectations = len(f.Entries)
	return result
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
