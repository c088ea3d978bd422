// Package featureflags reads on/off switches from FLAG_<NAME> environment variables.
package featureflags

import (
	"os"
	"strings"
)

// SeedDemo loads a demo admin and sample products at startup
const SeedDemo = "seed_demo"

// Enabled reports whether FLAG_<NAME> is set to 1, true, yes or on (any case)
func Enabled(name string) bool {
	return parse(os.Getenv("FLAG_" + strings.ToUpper(name)))
}

func parse(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
