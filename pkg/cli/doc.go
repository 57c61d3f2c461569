// Package cli provides the command-line interface for working with expect
// fixture files.
//
// Commands:
//   - validate: Check fixtures against the fixture schema and build every expectation
//   - describe: Print the expectations a fixture declares, in order
//   - version: Show version information
//
// Global flags:
//   - --json: Output command results in JSON format
//   - --log-level, --log-format: Diagnostic logging on stderr (default from
//     EXPECT_LOG_LEVEL and EXPECT_LOG_FORMAT)
package cli
