package movers

import (
	"testing"
	"time"
)

func day(i int) Date { return NewDate(2025, time.June, i) }

func TestSeriesAppendKeepsChronologicalOrder(t *testing.T) {
	var s Series
	s.Append(day(3), 30).Append(day(1), 10).Append(day(2), 20)

	var got []float64
	for _, v := range s.Values() {
		got = append(got, v)
	}
	want := []float64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSeriesAppendOverwritesSameDay(t *testing.T) {
	var s Series
	s.Append(day(1), 10).Append(day(1), 11)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if _, v := s.Latest(); v != 11 {
		t.Errorf("Latest() = %v, want 11 (last data wins)", v)
	}
}

func TestSeriesFromEnd(t *testing.T) {
	var s Series
	for i := 1; i <= 5; i++ {
		s.Append(day(i), float64(i))
	}
	if v, ok := s.FromEnd(0); !ok || v != 5 {
		t.Errorf("FromEnd(0) = %v, %v, want 5, true", v, ok)
	}
	if v, ok := s.FromEnd(4); !ok || v != 1 {
		t.Errorf("FromEnd(4) = %v, %v, want 1, true", v, ok)
	}
	if _, ok := s.FromEnd(5); ok {
		t.Error("FromEnd(5) should report no bar")
	}
}

func TestSeriesFirstOnOrAfter(t *testing.T) {
	var s Series
	s.Append(NewDate(2024, time.December, 30), 1)
	s.Append(NewDate(2025, time.January, 2), 2)
	s.Append(NewDate(2025, time.January, 3), 3)

	on, v, ok := s.FirstOnOrAfter(NewDate(2025, time.January, 1))
	if !ok {
		t.Fatal("FirstOnOrAfter found no bar")
	}
	if on.String() != "2025-01-02" || v != 2 {
		t.Errorf("FirstOnOrAfter = %v, %v, want 2025-01-02, 2", on, v)
	}

	if _, _, ok := s.FirstOnOrAfter(NewDate(2025, time.February, 1)); ok {
		t.Error("FirstOnOrAfter past the end should report no bar")
	}
}
