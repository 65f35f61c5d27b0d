package route

import (
	"fmt"
	"os"
	"strings"
)

// ReadFile loads a route file: one system per line, blank lines and
// #-comments ignored. Returns the systems in file order, raw.
func ReadFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading route file %s: %w", path, err)
	}
	var systems []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		systems = append(systems, line)
	}
	return systems, nil
}
