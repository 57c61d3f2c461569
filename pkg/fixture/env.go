package fixture

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
// Unset or empty variables expand to the default, or to nothing.
func ExpandEnvVars(input string) string {
	return expandWith(input, os.Getenv)
}

func expandWith(input string, getenv func(string) string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if val := getenv(submatch[1]); val != "" {
			return val
		}
		return submatch[2]
	})
}
