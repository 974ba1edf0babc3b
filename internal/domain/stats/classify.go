// Package stats derives the year-in-review summary from an aggregated record.
// Everything here is pure: no I/O, no clocks other than the one passed in, and
// every function is total over empty input.
package stats

import "strings"

// Kind is the set of categories an event type belongs to.
type Kind uint8

// Event kinds. A type may carry several; KindOther is the empty set.
const (
	KindScore Kind = 1 << iota
	KindMilestone
	KindConnection

	KindOther Kind = 0
)

// Has reports whether k includes every bit of other.
func (k Kind) Has(other Kind) bool { return other != 0 && k&other == other }

var kindTokens = []struct {
	token string
	kind  Kind
}{
	{"score", KindScore},
	{"points", KindScore},
	{"milestone", KindMilestone},
	{"connection", KindConnection},
	{"follow", KindConnection},
	{"account", KindConnection},
}

// Classify maps a free-form event type to its kinds. Matching is by
// case-insensitive substring.
func Classify(eventType string) Kind {
	t := strings.ToLower(eventType)
	var k Kind
	for _, kt := range kindTokens {
		if strings.Contains(t, kt.token) {
			k |= kt.kind
		}
	}
	return k
}
