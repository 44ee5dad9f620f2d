package pool

import (
	"fmt"
	"strings"

	"github.com/maruel/natural"

	"github.com/matzehuels/sourcescout/pkg/config"
)

// Comparator orders canonical names. It returns a negative number when a
// ranks below b, zero when equal and a positive number otherwise.
type Comparator func(a, b string) int

// Lexical compares canonical names as plain strings.
func Lexical(a, b string) int {
	return strings.Compare(a, b)
}

// Semantic compares canonical names in natural order, treating runs of
// digits as numbers so "foo-10.0" ranks above "foo-9.9". Names that compare
// equal this way fall back to lexical order.
func Semantic(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return strings.Compare(a, b)
}

// ComparatorFor returns the comparator named by a download.ordering value.
// The empty string selects Lexical.
func ComparatorFor(ordering string) (Comparator, error) {
	switch ordering {
	case "", config.OrderingLexical:
		return Lexical, nil
	case config.OrderingSemantic:
		return Semantic, nil
	}
	return nil, fmt.Errorf("unknown ordering %q", ordering)
}
