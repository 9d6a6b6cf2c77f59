// Package strings holds small list helpers shared by config parsing and the CLI.
package strings

import (
	"strings"
)

// SplitList splits a separated value such as "a:9092, b:9092,,a:9092" into its
// trimmed, non-empty, distinct parts. Order of first appearance is kept.
func SplitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return Dedupe(strings.Split(raw, sep))
}

// Dedupe trims every value and drops blanks and repeats.
func Dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
