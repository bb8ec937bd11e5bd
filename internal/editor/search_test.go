package editor

import (
	"reflect"
	"strings"
	"testing"

	"github.com/subweave/subweave/internal/document"
)

func searchDoc() *document.Document {
	doc := document.New(document.FormatASS)
	doc.Cues = []document.Cue{
		{
			Index: 1, StartTime: 0, EndTime: 2000,
			Text:    "Hello there",
			Content: `{\i1}Hello{\i0} there`,
			Style:   "Default",
		},
		{
			Index: 2, StartTime: 2000, EndTime: 4000,
			Text: "hello again", Content: "hello again",
			Style: "Sign",
			FormatSpecific: &document.CueExtensions{
				ASS: &document.ASSCueData{Layer: 1},
			},
		},
		{
			Index: 3, StartTime: 4000, EndTime: 6000,
			Text: "goodbye now", Content: "goodbye now",
			Style: "Default",
		},
	}
	return doc
}

func TestSearchLiteral(t *testing.T) {
	ed := New(searchDoc())

	got, err := ed.Search("hello", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("case-insensitive search = %v", got)
	}

	got, _ = ed.Search("hello", SearchOptions{CaseSensitive: true})
	if !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("case-sensitive search = %v", got)
	}
}

func TestSearchRegex(t *testing.T) {
	ed := New(searchDoc())

	got, err := ed.Search(`^good\w+`, SearchOptions{Regex: true})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("regex search = %v", got)
	}

	if _, err := ed.Search(`[unclosed`, SearchOptions{Regex: true}); err == nil {
		t.Error("invalid pattern accepted")
	}
}

func TestSearchContentToggle(t *testing.T) {
	ed := New(searchDoc())

	got, _ := ed.Search(`\i1`, SearchOptions{})
	if len(got) != 0 {
		t.Errorf("plain-text search matched markup: %v", got)
	}

	got, _ = ed.Search(`\i1`, SearchOptions{IncludeContent: true})
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("content search = %v", got)
	}
}

func TestSearchFilters(t *testing.T) {
	ed := New(searchDoc())

	tests := []struct {
		name string
		opts SearchOptions
		want []int
	}{
		{
			name: "time range containment",
			opts: SearchOptions{StartMs: 2000, EndMs: 6000},
			want: []int{2},
		},
		{
			name: "open-ended time range",
			opts: SearchOptions{StartMs: 2000},
			want: []int{2},
		},
		{
			name: "style filter",
			opts: SearchOptions{Styles: []string{"Sign"}},
			want: []int{2},
		},
		{
			name: "layer filter",
			opts: SearchOptions{Layers: []int{0}},
			want: []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ed.Search("hello", tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("search = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReplaceIsOneUndoStep(t *testing.T) {
	ed := New(searchDoc())

	n, err := ed.Replace("hello", "howdy", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("replaced %d cues", n)
	}

	first, _ := ed.Cue(1)
	second, _ := ed.Cue(2)
	if first.Text != "howdy there" || second.Text != "howdy again" {
		t.Errorf("texts after replace: %q / %q", first.Text, second.Text)
	}
	// markup survives while the plain body is rewritten
	if first.Content != `{\i1}howdy{\i0} there` {
		t.Errorf("content after replace: %q", first.Content)
	}

	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	first, _ = ed.Cue(1)
	second, _ = ed.Cue(2)
	if first.Text != "Hello there" || second.Text != "hello again" {
		t.Error("single undo did not revert whole replace")
	}
}

func TestReplaceKeepsContentInSync(t *testing.T) {
	doc := document.New(document.FormatASS)
	doc.Cues = []document.Cue{{
		Index: 1, StartTime: 0, EndTime: 2000,
		Text:    "hello there",
		Content: `{\i1}hello there{\i0}`,
	}}
	ed := New(doc)

	n, err := ed.Replace("hello", "goodbye", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("replaced %d cues", n)
	}

	cue, _ := ed.Cue(1)
	if cue.Text != "goodbye there" {
		t.Errorf("text = %q", cue.Text)
	}
	if cue.Content != `{\i1}goodbye there{\i0}` {
		t.Errorf("content = %q", cue.Content)
	}

	// an export must carry the replacement, not the old body
	out, err := ed.Export(document.FormatSRT)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "goodbye there") {
		t.Errorf("export lost the replacement:\n%s", out)
	}
}

func TestReplaceNoMatches(t *testing.T) {
	ed := New(searchDoc())

	n, err := ed.Replace("absent", "x", SearchOptions{})
	if err != nil || n != 0 {
		t.Fatalf("replace = %d, %v", n, err)
	}
	if ed.CanUndo() {
		t.Error("no-op replace recorded history")
	}
}
