package datemath_test

import (
	"testing"
	"time"

	"mail-calendar-automation/pkg/datemath"
)

func TestNewParser(t *testing.T) {
	_, err := datemath.NewParser("Europe/Madrid")
	if err != nil {
		t.Fatalf("unexpected error creating valid parser: %v", err)
	}

	_, err = datemath.NewParser("Invalid/Timezone")
	if err == nil {
		t.Fatalf("expected error for invalid timezone")
	}

	if datemath.NewParserIn(nil).Location() != time.UTC {
		t.Errorf("nil location should default to UTC")
	}
}

func TestParse(t *testing.T) {
	parser, _ := datemath.NewParser("Europe/Madrid")
	madrid := parser.Location()

	tests := []struct {
		name       string
		value      string
		want       time.Time
		wantAllDay bool
		wantZone   bool
		wantErr    bool
	}{
		{
			name:     "RFC3339 with offset",
			value:    "2024-03-01T10:00:00+01:00",
			want:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			wantZone: true,
		},
		{
			name:     "RFC3339 UTC",
			value:    "2024-03-01T10:00:00Z",
			want:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			wantZone: true,
		},
		{
			name:  "Naive seconds",
			value: "2024-03-01T10:00:00",
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, madrid),
		},
		{
			name:  "Naive minutes",
			value: "2024-07-01T18:30",
			want:  time.Date(2024, 7, 1, 18, 30, 0, 0, madrid),
		},
		{
			name:  "Naive with space",
			value: " 2024-07-01 18:30 ",
			want:  time.Date(2024, 7, 1, 18, 30, 0, 0, madrid),
		},
		{
			name:       "Date only",
			value:      "2024-05-01",
			want:       time.Date(2024, 5, 1, 0, 0, 0, 0, madrid),
			wantAllDay: true,
		},
		{
			name:    "Empty",
			value:   "",
			wantErr: true,
		},
		{
			name:    "Garbage",
			value:   "next friday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Time.Equal(tt.want) {
				t.Errorf("Parse() = %v, want %v", got.Time, tt.want)
			}
			if got.IsAllDay != tt.wantAllDay || got.HadZone != tt.wantZone {
				t.Errorf("Parse() flags allDay=%v zone=%v", got.IsAllDay, got.HadZone)
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	parser, _ := datemath.NewParser("Europe/Madrid")
	madrid := parser.Location()

	// 23:30 UTC on Feb 29 is already March 1 in Madrid.
	start := parser.StartOfDay(time.Date(2024, 2, 29, 23, 30, 0, 0, time.UTC))
	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, madrid); !start.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", start, want)
	}
	if end := parser.EndOfDay(start); !end.Equal(time.Date(2024, 3, 1, 23, 59, 59, 0, madrid)) {
		t.Errorf("EndOfDay() = %v", end)
	}
}
