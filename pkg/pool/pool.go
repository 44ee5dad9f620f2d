package pool

import "slices"

// Pool holds the accepted entries of one component. It is not safe for
// concurrent use; the builder mutates it from a single goroutine.
type Pool struct {
	ComponentName string  `json:"component_name"`
	Entries       []Entry `json:"entries"`
}

// New creates an empty pool for component.
func New(component string) *Pool {
	return &Pool{ComponentName: component}
}

// Len returns the number of entries.
func (p *Pool) Len() int { return len(p.Entries) }

// IsEmpty reports whether the pool has no entries.
func (p *Pool) IsEmpty() bool { return len(p.Entries) == 0 }

// Contains reports whether an entry equal to e is present.
func (p *Pool) Contains(e Entry) bool {
	return slices.ContainsFunc(p.Entries, e.Equal)
}

// Add appends e unless an equal entry is present. It reports whether e was
// added.
func (p *Pool) Add(e Entry) bool {
	if p.Contains(e) {
		return false
	}
	p.Entries = append(p.Entries, e)
	return true
}

// SortDescending orders entries best-first under compare.
func (p *Pool) SortDescending(compare Comparator) {
	slices.SortStableFunc(p.Entries, func(a, b Entry) int {
		return compare(b.CanonicalName, a.CanonicalName)
	})
}

// Truncate keeps the first n entries. n <= 0 keeps everything.
func (p *Pool) Truncate(n int) {
	if n > 0 && len(p.Entries) > n {
		p.Entries = slices.Clip(p.Entries[:n])
	}
}
