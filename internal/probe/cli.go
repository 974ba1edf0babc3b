package probe

import (
	"os"
	"strings"
)

// ParseIdentifiers splits a comma separated list, dropping blanks.
func ParseIdentifiers(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Wrapped Probe
=============

Fetches the wrapped view for a list of identifiers from a running service and
checks every successful payload carries a year in review and data sources.

Usage:
  go run ./cmd/wrapped-probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -ids string
        Comma separated identifiers to fetch (required)
  -workers int
        Number of concurrent requests (default 4)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Log every response
  -help
        Show this help message

Examples:
  go run ./cmd/wrapped-probe -ids jesse.base.eth,vitalik.eth
  go run ./cmd/wrapped-probe -url http://localhost:8080 -ids alice,bob -workers 8 -verbose
`)
}
