package timecode

import (
	"errors"
	"testing"
)

func TestToMs(t *testing.T) {
	tests := []struct {
		text   string
		format Format
		want   int64
	}{
		{"00:00:01,000", FormatSRT, 1000},
		{"01:02:03,456", FormatSRT, 3723456},
		{"00:00:00,001", FormatSRT, 1},
		{"00:00:01.000", FormatVTT, 1000},
		{"10:59:59.999", FormatVTT, 39599999},
		{"0:00:01.00", FormatASS, 1000},
		{"1:02:03.45", FormatASS, 3723450},
		{"0:01:21.05", FormatASS, 81050},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ToMs(tt.text, tt.format)
			if err != nil {
				t.Fatalf("ToMs(%q, %s) failed: %v", tt.text, tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ToMs(%q, %s) = %d, want %d",
					tt.text, tt.format, got, tt.want)
			}
		})
	}
}

func TestToMsRejectsWrongGrammar(t *testing.T) {
	tests := []struct {
		text   string
		format Format
	}{
		{"00:00:01.000", FormatSRT}, // dot in SRT
		{"00:00:01,000", FormatVTT}, // comma in VTT
		{"0:00:01.000", FormatASS},  // millis in ASS
		{"00:00:01", FormatSRT},
		{"garbage", FormatVTT},
		{"1:2:3.45", FormatASS},
		{"", FormatSRT},
	}

	for _, tt := range tests {
		t.Run(tt.text+"_"+string(tt.format), func(t *testing.T) {
			_, err := ToMs(tt.text, tt.format)
			if err == nil {
				t.Fatalf("ToMs(%q, %s) should have failed", tt.text, tt.format)
			}
			if !errors.Is(err, ErrInvalidTimecode) {
				t.Errorf("expected ErrInvalidTimecode, got %v", err)
			}
		})
	}
}

func TestFromMs(t *testing.T) {
	tests := []struct {
		ms     int64
		format Format
		want   string
	}{
		{1000, FormatSRT, "00:00:01,000"},
		{3723456, FormatSRT, "01:02:03,456"},
		{1000, FormatVTT, "00:00:01.000"},
		{81050, FormatASS, "0:01:21.05"},
		{-5, FormatSRT, "00:00:00,000"},
	}

	for _, tt := range tests {
		got := FromMs(tt.ms, tt.format)
		if got != tt.want {
			t.Errorf("FromMs(%d, %s) = %q, want %q",
				tt.ms, tt.format, got, tt.want)
		}
	}
}

// ASS centiseconds must truncate, never round.
func TestASSCentisecondTruncation(t *testing.T) {
	got := FromMs(1999, FormatASS)
	if got != "0:00:01.99" {
		t.Errorf("FromMs(1999, ass) = %q, want 0:00:01.99", got)
	}

	got = FromMs(1005, FormatASS)
	if got != "0:00:01.00" {
		t.Errorf("FromMs(1005, ass) = %q, want 0:00:01.00", got)
	}
}

// round-trip identity at each format's native grain
func TestRoundTripIdentity(t *testing.T) {
	samples := []int64{0, 1, 999, 1000, 59999, 3600000, 35999999}

	for _, ms := range samples {
		for _, format := range []Format{FormatSRT, FormatVTT} {
			back, err := ToMs(FromMs(ms, format), format)
			if err != nil {
				t.Fatalf("round trip failed for %d %s: %v", ms, format, err)
			}
			if back != ms {
				t.Errorf("%s round trip: %d -> %d", format, ms, back)
			}
		}

		// ASS is 10ms grain
		grain := ms - ms%10
		back, err := ToMs(FromMs(grain, FormatASS), FormatASS)
		if err != nil {
			t.Fatalf("ASS round trip failed for %d: %v", grain, err)
		}
		if back != grain {
			t.Errorf("ass round trip: %d -> %d", grain, back)
		}
	}
}
