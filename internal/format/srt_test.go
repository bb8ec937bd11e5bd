package format

import (
	"strings"
	"testing"

	"github.com/subweave/subweave/internal/document"
)

func TestSRTParse(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	doc, err := (&SRTAdapter{}).Parse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.SourceFormat != document.FormatSRT {
		t.Errorf("sourceFormat = %q", doc.SourceFormat)
	}
	if len(doc.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(doc.Cues))
	}

	if doc.Cues[0].StartTime != 1000 || doc.Cues[0].EndTime != 4000 {
		t.Errorf("cue 0 times = %d-%d", doc.Cues[0].StartTime, doc.Cues[0].EndTime)
	}
	if doc.Cues[0].Duration != 3000 {
		t.Errorf("cue 0 duration = %d", doc.Cues[0].Duration)
	}
	if doc.Cues[0].Text != "Hello, world!" {
		t.Errorf("cue 0 text = %q", doc.Cues[0].Text)
	}

	want := "This is a test.\nWith multiple lines."
	if doc.Cues[1].Text != want {
		t.Errorf("cue 1 text = %q, want %q", doc.Cues[1].Text, want)
	}
}

func TestSRTParseToleratesMissingSequenceNumbers(t *testing.T) {
	content := `00:00:01,000 --> 00:00:02,000
No number here.

not-a-number
00:00:03,000 --> 00:00:04,000
Garbled number.
`
	doc, err := (&SRTAdapter{}).Parse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(doc.Cues))
	}
	if doc.Cues[0].Index != 1 || doc.Cues[1].Index != 2 {
		t.Error("indices not recomputed")
	}
}

func TestSRTParsePreservesInteriorWhitespace(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\n  indented line\nsecond  spaced\n\n"

	doc, err := (&SRTAdapter{}).Parse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Cues[0].Text != "  indented line\nsecond  spaced" {
		t.Errorf("interior whitespace not preserved: %q", doc.Cues[0].Text)
	}
}

func TestSRTParseSkipsMalformedBlock(t *testing.T) {
	content := `1
99:99 --> broken
Dropped text.

2
00:00:03,000 --> 00:00:04,000
Kept.
`
	doc, err := (&SRTAdapter{}).Parse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(doc.Cues))
	}
	if doc.Cues[0].Text != "Kept." {
		t.Errorf("wrong survivor: %q", doc.Cues[0].Text)
	}
}

func TestSRTRoundTrip(t *testing.T) {
	adapter := &SRTAdapter{}
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
Two
lines.

`
	doc, err := adapter.Parse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	out, err := adapter.Serialize(doc)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	back, err := adapter.Parse(out)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}

	if len(back.Cues) != len(doc.Cues) {
		t.Fatalf("cue count changed: %d -> %d", len(doc.Cues), len(back.Cues))
	}
	for i := range doc.Cues {
		if back.Cues[i].StartTime != doc.Cues[i].StartTime ||
			back.Cues[i].EndTime != doc.Cues[i].EndTime {
			t.Errorf("cue %d times changed", i)
		}
		if back.Cues[i].Text != doc.Cues[i].Text {
			t.Errorf("cue %d text changed: %q -> %q",
				i, doc.Cues[i].Text, back.Cues[i].Text)
		}
	}
}

func TestSRTSerializeRenumbers(t *testing.T) {
	doc := document.New(document.FormatSRT)
	doc.Cues = []document.Cue{
		{Index: 9, StartTime: 0, EndTime: 1000, Text: "a", Content: "a"},
		{Index: 4, StartTime: 2000, EndTime: 3000, Text: "b", Content: "b"},
	}

	out, err := (&SRTAdapter{}).Serialize(doc)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if !strings.HasPrefix(out, "1\n") || !strings.Contains(out, "\n2\n") {
		t.Errorf("sequence numbers not contiguous:\n%s", out)
	}
}
