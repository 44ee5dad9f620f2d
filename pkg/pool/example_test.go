package pool_test

import (
	"fmt"
	"slices"

	"github.com/matzehuels/sourcescout/pkg/pool"
)

func ExampleNewEntry() {
	url := "https://ftp.gnu.org/gnu/make/make-4.4.1.tar.gz"

	e, _ := pool.NewEntry(url, "make", pool.PolicyVersion)
	fmt.Println(e.FileName, e.CanonicalName)

	e, _ = pool.NewEntry(url, "make", pool.PolicyNameVersion)
	fmt.Println(e.CanonicalName)
	// Output:
	// make-4.4.1.tar.gz make-4.4
	// make-4.4.1
}

func ExampleSemantic() {
	names := []string{"foo-9.9", "foo-10.0", "foo-2.1"}

	lexical := slices.Clone(names)
	slices.SortFunc(lexical, func(a, b string) int { return pool.Lexical(b, a) })
	fmt.Println(lexical)

	semantic := slices.Clone(names)
	slices.SortFunc(semantic, func(a, b string) int { return pool.Semantic(b, a) })
	fmt.Println(semantic)
	// Output:
	// [foo-9.9 foo-2.1 foo-10.0]
	// [foo-10.0 foo-9.9 foo-2.1]
}
