package domain

import "testing"

func TestNewPeriod_StartMustPrecedeEnd(t *testing.T) {
	if _, err := NewPeriod("10:00", "08:30"); err == nil {
		t.Error("expected error when start is after end")
	}
	if _, err := NewPeriod("08:30", "08:30"); err == nil {
		t.Error("expected error when start equals end")
	}
	if _, err := NewPeriod("08:30", "10:00"); err != nil {
		t.Errorf("unexpected error for valid period: %v", err)
	}
}

func TestNewPeriod_RejectsMalformedTimes(t *testing.T) {
	for _, bad := range []string{"8:30am", "25:00", "nope", ""} {
		if _, err := NewPeriod(bad, "10:00"); err == nil {
			t.Errorf("expected error for start %q", bad)
		}
	}
}

func TestScheduleOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Schedule
		want bool
	}{
		{
			name: "same days overlapping periods",
			a:    mustSchedule(t, MTH, "08:30", "10:00"),
			b:    mustSchedule(t, MTH, "09:00", "10:30"),
			want: true,
		},
		{
			name: "same days identical periods",
			a:    mustSchedule(t, MTH, "08:30", "10:00"),
			b:    mustSchedule(t, MTH, "08:30", "10:00"),
			want: true,
		},
		{
			name: "same days back to back",
			a:    mustSchedule(t, MTH, "08:30", "10:00"),
			b:    mustSchedule(t, MTH, "10:00", "11:30"),
			want: false,
		},
		{
			name: "different days same period",
			a:    mustSchedule(t, MTH, "08:30", "10:00"),
			b:    mustSchedule(t, TF, "08:30", "10:00"),
			want: false,
		},
		{
			name: "one period containing the other",
			a:    mustSchedule(t, WS, "08:00", "12:00"),
			b:    mustSchedule(t, WS, "09:00", "10:00"),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// overlap is symmetric
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestParseDays_RoundTrip(t *testing.T) {
	for _, d := range []Days{MTH, TF, WS} {
		got, err := ParseDays(d.String())
		if err != nil {
			t.Fatalf("ParseDays(%s): %v", d, err)
		}
		if got != d {
			t.Errorf("ParseDays(%s) = %v, want %v", d, got, d)
		}
	}
	if _, err := ParseDays("MWF"); err == nil {
		t.Error("expected error for unknown days value")
	}
}
