package utils

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "08:30", want: 510},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "unpadded hour", input: "8:05", want: 485},
		{name: "missing colon", input: "0830", wantErr: true},
		{name: "non numeric", input: "ab:cd", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "extra part", input: "12:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeToMinutes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TimeToMinutes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Errorf("TimeToMinutes(%q) error = %v, want ErrInvalidTime", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("TimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMinutesToTime(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "00:00"},
		{510, "08:30"},
		{1439, "23:59"},
		{1440, "00:00"},
		{1500, "01:00"},
		{-10, "23:50"},
		{-1440, "00:00"},
		{-1450, "23:50"},
		{2 * 1440 * 3, "00:00"},
		{-3000, "22:00"},
	}

	for _, tt := range tests {
		if got := MinutesToTime(tt.input); got != tt.want {
			t.Errorf("MinutesToTime(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMinutesRoundTripModuloDay(t *testing.T) {
	for m := -3 * 1440; m <= 3*1440; m += 7 {
		got, err := TimeToMinutes(MinutesToTime(m))
		if err != nil {
			t.Fatalf("TimeToMinutes(MinutesToTime(%d)) error: %v", m, err)
		}
		if got != NormalizeMinutes(m) {
			t.Fatalf("round trip of %d = %d, want %d", m, got, NormalizeMinutes(m))
		}
		if again := NormalizeMinutes(got); again != got {
			t.Fatalf("normalization not idempotent for %d: %d != %d", m, again, got)
		}
	}
}

func TestNormalizeMinutes_ExtremeValues(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{math.MinInt64, 352},
		{math.MaxInt64, 1087},
		{-9000000000000000000, 0},
		{-9000000000000000001, 1439},
		{9000000000000000007, 7},
		{-1, 1439},
		{-1441, 1439},
	}

	for _, tt := range tests {
		got := NormalizeMinutes(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeMinutes(%d) = %d, want %d", tt.input, got, tt.want)
		}
		if got < 0 || got >= 1440 {
			t.Errorf("NormalizeMinutes(%d) = %d, outside [0,1440)", tt.input, got)
		}
		if s := MinutesToTime(tt.input); len(s) != 5 {
			t.Errorf("MinutesToTime(%d) = %q", tt.input, s)
		}
	}
}

func TestTimeRoundTripExact(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s := MinutesToTime(h*60 + m)
			mins, err := TimeToMinutes(s)
			if err != nil {
				t.Fatalf("TimeToMinutes(%q) error: %v", s, err)
			}
			if back := MinutesToTime(mins); back != s {
				t.Fatalf("round trip of %q = %q", s, back)
			}
		}
	}
}

func TestValidateTimeFormat(t *testing.T) {
	valid := []string{"00:00", "07:45", "23:59"}
	invalid := []string{"7:45", "24:00", "07:60", "0745", "", "07:45pm"}

	for _, s := range valid {
		if !ValidateTimeFormat(s) {
			t.Errorf("ValidateTimeFormat(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidateTimeFormat(s) {
			t.Errorf("ValidateTimeFormat(%q) = true, want false", s)
		}
	}
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone Asia/Shanghai", timezone: "Asia/Shanghai"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestNowInTimezone(t *testing.T) {
	now, err := NowInTimezone("UTC")
	if err != nil {
		t.Fatalf("NowInTimezone(UTC) error: %v", err)
	}
	if now.Location().String() != "UTC" {
		t.Errorf("NowInTimezone(UTC) location = %v", now.Location())
	}
	if _, err := NowInTimezone("Nowhere/Special"); err == nil {
		t.Error("NowInTimezone with invalid zone should fail")
	}
}

func TestAtMinutes(t *testing.T) {
	base := time.Date(2025, time.March, 12, 15, 4, 5, 0, time.UTC)
	got := AtMinutes(base, 6*60+55)
	want := time.Date(2025, time.March, 12, 6, 55, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AtMinutes() = %v, want %v", got, want)
	}

	got = AtMinutes(base, -80)
	want = time.Date(2025, time.March, 11, 22, 40, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AtMinutes(-80) = %v, want %v", got, want)
	}
}
