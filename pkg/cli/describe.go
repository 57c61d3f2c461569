package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/expect/pkg/cli/internal/output"
	"github.com/getmockd/expect/pkg/fixture"
)

// DescribeOutput lists the expectations of one fixture file.
type DescribeOutput struct {
	File         string   `json:"file"`
	Name         string   `json:"name,omitempty"`
	Expectations []string `json:"expectations"`
}

var describeCmd = &cobra.Command{
	Use:   "describe <file|glob>...",
	Short: "Print the expectations declared by fixture files",
	Long: `Describe prints each fixture's expectations in the order requests must be
sent, using the same wording as the report for expectations that were never met.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := fixturePaths(cmd.ErrOrStderr(), args)
		if err != nil {
			return err
		}

		outputs := make([]DescribeOutput, 0, len(paths))
		for _, path := range paths {
			f, err := fixture.LoadFile(path)
			if err != nil {
				return err
			}
			lines, err := f.Describe()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outputs = append(outputs, DescribeOutput{File: path, Name: f.Name, Expectations: lines})
		}

		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), outputs)
		}

		w := cmd.OutOrStdout()
		for i, o := range outputs {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if o.Name != "" {
				fmt.Fprintf(w, "%s (%s):\n", o.File, o.Name)
			} else {
				fmt.Fprintf(w, "%s:\n", o.File)
			}
			for n, line := range o.Expectations {
				fmt.Fprintf(w, "  %d. %s.\n", n+1, line)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
