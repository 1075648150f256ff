package config

import (
	"sort"
	"strings"
)

// Missing reports which of the named values are empty, sorted by name.
func Missing(values map[string]string) []string {
	var out []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
