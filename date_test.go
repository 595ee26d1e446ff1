package movers

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDateNormalizes(t *testing.T) {
	// Day 32 of January rolls over to February 1st.
	d := NewDate(2025, time.January, 32)
	if got, want := d.String(), "2025-02-01"; got != want {
		t.Errorf("NewDate(2025, January, 32) = %q, want %q", got, want)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2025-08-28", want: "2025-08-28"},
		{in: "2025-7-1", want: "2025-07-01"}, // permissive single digit
		{in: "not-a-date", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) expected an error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) returned error: %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.August, 28)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(b) != `"2025-08-28"` {
		t.Fatalf("Marshal = %s, want %q", b, `"2025-08-28"`)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestStartOfYear(t *testing.T) {
	d := NewDate(2025, time.August, 28)
	if got, want := d.StartOfYear().String(), "2025-01-01"; got != want {
		t.Errorf("StartOfYear() = %q, want %q", got, want)
	}
}
