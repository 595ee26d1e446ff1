package movers

import (
	"iter"
	"slices"
	"sort"
)

// Series stores a chronological series of daily prices, each associated with a
// specific date. It ensures that dates are unique and the series is always
// sorted in ascending date order.
type Series struct {
	days   []Date
	values []float64
}

// Len returns the number of bars in the series.
func (s *Series) Len() int { return len(s.days) }

// Latest returns the latest date and value in the series.
// If the series is empty, it returns zero values.
func (s *Series) Latest() (day Date, value float64) {
	last := len(s.days) - 1
	if last < 0 {
		return Date{}, 0
	}
	return s.days[last], s.values[last]
}

// First returns the earliest date and value in the series.
// If the series is empty, it returns zero values.
func (s *Series) First() (day Date, value float64) {
	if len(s.days) == 0 {
		return Date{}, 0
	}
	return s.days[0], s.values[0]
}

// FromEnd returns the value n bars before the last one (n=0 is the last bar),
// and whether such a bar exists.
func (s *Series) FromEnd(n int) (float64, bool) {
	i := len(s.values) - 1 - n
	if i < 0 {
		return 0, false
	}
	return s.values[i], true
}

// chronological is a private implementation to keep the series sorted.
type chronological struct{ *Series }

func (c chronological) Len() int           { return len(c.days) }
func (c chronological) Less(i, j int) bool { return c.days[i].Before(c.days[j]) }
func (c chronological) Swap(i, j int) {
	c.days[i], c.days[j] = c.days[j], c.days[i]
	c.values[i], c.values[j] = c.values[j], c.values[i]
}

func (s *Series) sort() { sort.Sort(chronological{s}) }

// Append adds a bar to the series.
//
// An existing value at that date is overwritten.
func (s *Series) Append(on Date, v float64) *Series {
	if i := slices.Index(s.days, on); i >= 0 {
		// Found a bar on that exact day, the last data wins.
		s.values[i] = v
		return s
	}
	s.days, s.values = append(s.days, on), append(s.values, v)
	s.sort()
	return s
}

// Values returns an iterator over all date/value pairs, in chronological order.
func (s *Series) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for i, on := range s.days {
			if !yield(on, s.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true, or zero and false.
func (s *Series) Get(day Date) (float64, bool) {
	if i := slices.Index(s.days, day); i >= 0 {
		return s.values[i], true
	}
	return 0, false
}

// FirstOnOrAfter returns the first bar on or after 'day', and whether one exists.
func (s *Series) FirstOnOrAfter(day Date) (on Date, value float64, ok bool) {
	for i, d := range s.days {
		if !d.Before(day) {
			return d, s.values[i], true
		}
	}
	return Date{}, 0, false
}
