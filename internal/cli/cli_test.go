package cli

import (
	"testing"

	"github.com/subweave/subweave/internal/document"
)

func TestParseFormatFlag(t *testing.T) {
	tests := []struct {
		name      string
		allowAuto bool
		want      document.Format
		wantErr   bool
	}{
		{"srt", false, document.FormatSRT, false},
		{"SRT", false, document.FormatSRT, false},
		{" vtt ", false, document.FormatVTT, false},
		{"ass", false, document.FormatASS, false},
		{"json", false, document.FormatJSON, false},
		{"csv", false, document.FormatCSV, false},

		{"auto", true, document.FormatAuto, false},
		{"", true, document.FormatAuto, false},
		{"auto", false, "", true},
		{"", false, "", true},

		{"sub", false, "", true},
		{"mkv", true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFormatFlag(tt.name, tt.allowAuto)
			if (err != nil) != tt.wantErr {
				t.Fatalf(
					"parseFormatFlag(%q, %v) error = %v, wantErr %v",
					tt.name,
					tt.allowAuto,
					err,
					tt.wantErr,
				)
			}
			if got != tt.want {
				t.Errorf(
					"parseFormatFlag(%q, %v) = %q, want %q",
					tt.name,
					tt.allowAuto,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestResolveTargetFormat(t *testing.T) {
	tests := []struct {
		name       string
		toFlag     string
		outputPath string
		want       document.Format
		wantErr    bool
	}{
		{"explicit flag wins", "ass", "captions.srt", document.FormatASS, false},
		{"extension fallback", "", "captions.vtt", document.FormatVTT, false},
		{"ssa extension fallback", "", "captions.ssa", document.FormatASS, false},
		{"unknown extension", "", "captions.sub", "", true},
		{"nothing given", "", "", "", true},
		{"bad flag", "mkv", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTargetFormat(tt.toFlag, tt.outputPath)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
		})
	}
}
