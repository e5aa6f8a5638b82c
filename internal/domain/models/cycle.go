package models

import "strconv"

// UnspecifiedCycleKey groups records whose recorder left the cycle blank.
const UnspecifiedCycleKey = "unspecified"

// CycleRef identifies the cultivation cycle a record belongs to. The zero
// value means "cycle not specified", which is a legal, queryable group of its
// own rather than missing data.
type CycleRef struct {
	number    int
	specified bool
}

// Cycle returns a reference to the given cycle number.
func Cycle(n int) CycleRef {
	return CycleRef{number: n, specified: true}
}

// NoCycle returns the unspecified-cycle reference.
func NoCycle() CycleRef {
	return CycleRef{}
}

// ParseCycle interprets free-form cycle input. Empty or non-numeric input
// yields the unspecified reference.
func ParseCycle(raw string) CycleRef {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return NoCycle()
	}
	return Cycle(n)
}

// Specified reports whether the reference names a concrete cycle.
func (c CycleRef) Specified() bool {
	return c.specified
}

// Number returns the cycle number and whether one was specified.
func (c CycleRef) Number() (int, bool) {
	return c.number, c.specified
}

// Key renders the grouping key used by the resolver indices.
func (c CycleRef) Key() string {
	if !c.specified {
		return UnspecifiedCycleKey
	}
	return strconv.Itoa(c.number)
}

// Less orders cycles numerically ascending with the unspecified group last.
func (c CycleRef) Less(other CycleRef) bool {
	if c.specified != other.specified {
		return c.specified
	}
	return c.number < other.number
}

func (c CycleRef) String() string {
	return c.Key()
}
