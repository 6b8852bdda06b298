package naming

import "strconv"

// fallbackPrefix starts every synthetic step file name.
const fallbackPrefix = "defaultStep"

// Fallback hands out synthetic names (defaultStep0, defaultStep1, ...) for
// step files whose base name cannot be determined. A Fallback belongs to a
// single generation run; names never repeat within it. It is not safe for
// concurrent use.
type Fallback struct {
	next int
}

// NewFallback returns a counter starting at defaultStep0.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Next returns the next unused fallback name.
func (f *Fallback) Next() string {
	name := fallbackPrefix + strconv.Itoa(f.next)
	f.next++
	return name
}
