// Package stacktrace trims goroutine stacks down to this module's own frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/...go:line" locations found in a raw
// stack from runtime/debug.Stack, outermost call last.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 {
			continue
		}
		loc := line[idx+1:]
		goIdx := strings.Index(loc, ".go:")
		if goIdx == -1 {
			continue
		}
		if sp := strings.IndexByte(loc[goIdx:], ' '); sp != -1 {
			loc = loc[:goIdx+sp]
		}
		paths = append(paths, loc)
	}

	return paths
}
