package detect

import (
	"testing"

	"github.com/subweave/subweave/internal/document"
)

func TestDetectVTT(t *testing.T) {
	text := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi"

	result := Detect(text)
	if result.Format != document.FormatVTT {
		t.Fatalf("format = %q, want vtt", result.Format)
	}
	if result.Confidence < 0.8 {
		t.Errorf("confidence = %f, want >= 0.8", result.Confidence)
	}
	if len(result.Reasons) == 0 {
		t.Error("expected reasons")
	}
}

func TestDetectJSONArray(t *testing.T) {
	text := `[{"start": 0, "end": 1000, "text": "Hi"}]`

	result := Detect(text)
	if result.Format != document.FormatJSON {
		t.Fatalf("format = %q, want json", result.Format)
	}
	if result.Confidence < 0.8 {
		t.Errorf("confidence = %f, want >= 0.8", result.Confidence)
	}
}

func TestDetectCanonicalJSON(t *testing.T) {
	text := `{"version":"1.0","sourceFormat":"srt","metadata":{},"styles":[],"cues":[]}`

	result := Detect(text)
	if result.Format != document.FormatJSON {
		t.Fatalf("format = %q, want json", result.Format)
	}
}

func TestDetectASS(t *testing.T) {
	text := `[Script Info]
Title: Test

[V4+ Styles]
Format: Name, Fontname

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello
`

	result := Detect(text)
	if result.Format != document.FormatASS {
		t.Fatalf("format = %q, want ass", result.Format)
	}
	if result.Confidence < 0.8 {
		t.Errorf("confidence = %f, want >= 0.8", result.Confidence)
	}
}

func TestDetectSRT(t *testing.T) {
	text := "1\n00:00:01,000 --> 00:00:04,000\nHello\n"

	result := Detect(text)
	if result.Format != document.FormatSRT {
		t.Fatalf("format = %q, want srt", result.Format)
	}
	if result.Confidence < 0.8 {
		t.Errorf("confidence = %f, want >= 0.8", result.Confidence)
	}
}

// secondary signals must not rescue structurally invalid input
func TestNoPartialCreditWithoutFirstOrderSignal(t *testing.T) {
	// almost-JSON with cue-like words but a trailing comma
	invalidJSON := `[{"start": 0, "end": 1000, "text": "Hi"},]`
	if conf, _ := scoreJSON(invalidJSON); conf != 0 {
		t.Errorf("invalid JSON scored %f, want 0", conf)
	}

	// VTT timestamps without a WEBVTT header
	headless := "00:00:01.000 --> 00:00:02.000\nHi"
	if conf, _ := scoreVTT(headless); conf != 0 {
		t.Errorf("headerless VTT scored %f, want 0", conf)
	}
}

func TestDetectUnknown(t *testing.T) {
	result := Detect("just a plain sentence with nothing special")
	if result.Format != "" {
		t.Errorf("format = %q, want empty", result.Format)
	}
	if result.Confidence != 0 {
		t.Errorf("confidence = %f, want 0", result.Confidence)
	}
}

func TestDetectWithThreshold(t *testing.T) {
	d := New()

	// bare WEBVTT header sits at 0.8
	if _, ok := d.DetectWithThreshold("WEBVTT\n", 0.9); ok {
		t.Error("expected rejection below caller threshold")
	}
	format, ok := d.DetectWithThreshold("WEBVTT\n", 0.5)
	if !ok || format != document.FormatVTT {
		t.Errorf("got %q/%v, want vtt accepted", format, ok)
	}
}

func TestDetectSimple(t *testing.T) {
	if f := New().DetectSimple("WEBVTT\n"); f != document.FormatVTT {
		t.Errorf("DetectSimple = %q, want vtt", f)
	}
}
