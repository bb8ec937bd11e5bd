package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/subweave/subweave/internal/document"
)

func testDoc() *document.Document {
	doc := document.New(document.FormatSRT)
	doc.Cues = []document.Cue{
		{
			Index: 1, StartTime: 1000, EndTime: 4000,
			Text: "hello world", Content: "hello world",
		},
		{
			Index: 2, StartTime: 5000, EndTime: 8000,
			Text: "second cue", Content: "second cue",
		},
		{
			Index: 3, StartTime: 9000, EndTime: 12000,
			Text: "third cue", Content: "third cue",
		},
	}
	return doc
}

func ptr[T any](v T) *T { return &v }

func TestNewClonesInput(t *testing.T) {
	doc := testDoc()
	ed := New(doc)

	doc.Cues[0].Text = "mutated outside"
	cue, err := ed.Cue(1)
	if err != nil {
		t.Fatal(err)
	}
	if cue.Text != "hello world" {
		t.Errorf("editor state aliased caller document: %q", cue.Text)
	}
}

func TestUpdateFragmentPartial(t *testing.T) {
	ed := New(testDoc())

	err := ed.UpdateFragment(2, FragmentUpdate{
		Text:      ptr("rewritten"),
		StartTime: ptr(int64(5500)),
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	cue, _ := ed.Cue(2)
	if cue.Text != "rewritten" || cue.Content != "rewritten" {
		t.Errorf("text/content = %q / %q", cue.Text, cue.Content)
	}
	if cue.StartTime != 5500 || cue.EndTime != 8000 {
		t.Errorf("times = %d / %d", cue.StartTime, cue.EndTime)
	}
	if cue.Duration != 2500 {
		t.Errorf("duration not resynced: %d", cue.Duration)
	}
}

func TestUpdateFragmentContentDerivesText(t *testing.T) {
	ed := New(testDoc())

	err := ed.UpdateFragment(1, FragmentUpdate{
		Content: ptr(`{\i1}styled{\i0} words`),
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	cue, _ := ed.Cue(1)
	if cue.Text != "styled words" {
		t.Errorf("text not derived from content: %q", cue.Text)
	}
}

func TestValidatedUpdateRollsBack(t *testing.T) {
	ed := New(testDoc())
	var events []string
	ed.Subscribe(func(ev Event) { events = append(events, ev.Type) })

	err := ed.UpdateFragment(1, FragmentUpdate{
		StartTime: ptr(int64(6000)),
		EndTime:   ptr(int64(2000)),
	}, true)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	cue, _ := ed.Cue(1)
	if cue.StartTime != 1000 || cue.EndTime != 4000 {
		t.Errorf("document mutated despite failed validation: %+v", cue)
	}
	if len(events) != 0 {
		t.Errorf("events fired despite failed validation: %v", events)
	}
	if ed.CanUndo() {
		t.Error("history entry recorded despite failed validation")
	}
}

func TestInsertDeleteRenumber(t *testing.T) {
	ed := New(testDoc())

	ed.InsertCue(2, document.Cue{
		StartTime: 4200, EndTime: 4800, Text: "inserted",
	})
	cues := ed.Cues()
	if len(cues) != 4 {
		t.Fatalf("cue count = %d", len(cues))
	}
	if cues[1].Text != "inserted" || cues[1].Index != 2 {
		t.Errorf("insert position wrong: %+v", cues[1])
	}
	if cues[3].Index != 4 {
		t.Errorf("trailing cues not renumbered: %+v", cues[3])
	}

	if err := ed.DeleteCue(2); err != nil {
		t.Fatal(err)
	}
	cues = ed.Cues()
	if len(cues) != 3 || cues[1].Text != "second cue" || cues[1].Index != 2 {
		t.Errorf("delete/renumber wrong: %+v", cues)
	}
}

func TestSplitThenMergeRestoresText(t *testing.T) {
	ed := New(testDoc())

	if err := ed.Split(1, 2500); err != nil {
		t.Fatal(err)
	}

	cues := ed.Cues()
	if len(cues) != 4 {
		t.Fatalf("cue count after split = %d", len(cues))
	}
	if cues[0].EndTime != 2500 || cues[1].StartTime != 2500 {
		t.Errorf("split times: %d / %d", cues[0].EndTime, cues[1].StartTime)
	}
	if cues[0].Text != "hello" || cues[1].Text != "world" {
		t.Errorf("split text: %q / %q", cues[0].Text, cues[1].Text)
	}
	if cues[1].Index != 2 || cues[2].Index != 3 {
		t.Errorf("indices after split: %+v", cues)
	}

	if err := ed.Merge(1, 2); err != nil {
		t.Fatal(err)
	}
	merged, _ := ed.Cue(1)
	if merged.StartTime != 1000 || merged.EndTime != 4000 {
		t.Errorf("merged times: %d / %d", merged.StartTime, merged.EndTime)
	}
	if strings.ReplaceAll(merged.Text, "\n", " ") != "hello world" {
		t.Errorf("merged text = %q", merged.Text)
	}
	if ed.CueCount() != 3 {
		t.Errorf("cue count after merge = %d", ed.CueCount())
	}
}

func TestSplitCarriesLeadingTags(t *testing.T) {
	doc := document.New(document.FormatASS)
	doc.Cues = []document.Cue{{
		Index: 1, StartTime: 1000, EndTime: 5000,
		Text:    "hello world",
		Content: `{\pos(10,20)}hello world`,
		Style:   "Default",
	}}
	ed := New(doc)

	if err := ed.Split(1, 3000); err != nil {
		t.Fatal(err)
	}

	cues := ed.Cues()
	if len(cues) != 2 {
		t.Fatalf("cue count after split = %d", len(cues))
	}
	if cues[0].Content != `{\pos(10,20)}hello` {
		t.Errorf("first content = %q", cues[0].Content)
	}
	if cues[1].Content != `{\pos(10,20)}world` {
		t.Errorf("second content = %q", cues[1].Content)
	}
	if cues[1].Style != "Default" {
		t.Errorf("second half lost style: %q", cues[1].Style)
	}
}

func TestSplitRejectsBoundaryPoints(t *testing.T) {
	ed := New(testDoc())

	for _, at := range []int64{500, 1000, 4000, 9999} {
		if err := ed.Split(1, at); err == nil {
			t.Errorf("split at %dms accepted", at)
		}
	}
}

func TestMergeRejectsBadRange(t *testing.T) {
	ed := New(testDoc())

	if err := ed.Merge(2, 2); err == nil {
		t.Error("single-cue merge accepted")
	}
	if err := ed.Merge(2, 9); err == nil {
		t.Error("out-of-range merge accepted")
	}
}

func TestShiftTimeClampsAtZero(t *testing.T) {
	ed := New(testDoc())

	ed.ShiftTime(-2000)
	cues := ed.Cues()
	if cues[0].StartTime != 0 || cues[0].EndTime != 2000 {
		t.Errorf("first cue after shift: %d / %d",
			cues[0].StartTime, cues[0].EndTime)
	}
	if cues[1].StartTime != 3000 {
		t.Errorf("second cue after shift: %d", cues[1].StartTime)
	}
}

func TestScaleTime(t *testing.T) {
	ed := New(testDoc())

	if err := ed.ScaleTime(0); err == nil {
		t.Fatal("zero factor accepted")
	}
	if err := ed.ScaleTime(1.5); err != nil {
		t.Fatal(err)
	}

	cue, _ := ed.Cue(1)
	if cue.StartTime != 1500 || cue.EndTime != 6000 {
		t.Errorf("scaled times: %d / %d", cue.StartTime, cue.EndTime)
	}
	if cue.Duration != 4500 {
		t.Errorf("scaled duration: %d", cue.Duration)
	}
}

func TestUndoRedoChain(t *testing.T) {
	ed := New(testDoc())

	for i, text := range []string{"one", "two", "three"} {
		err := ed.UpdateFragment(1, FragmentUpdate{Text: ptr(text)}, false)
		if err != nil {
			t.Fatalf("edit %d: %v", i, err)
		}
	}

	for _, want := range []string{"two", "one", "hello world"} {
		if err := ed.Undo(); err != nil {
			t.Fatal(err)
		}
		cue, _ := ed.Cue(1)
		if cue.Text != want {
			t.Errorf("after undo, text = %q, want %q", cue.Text, want)
		}
	}
	if ed.CanUndo() {
		t.Error("undo available past the initial state")
	}
	if err := ed.Undo(); err == nil {
		t.Error("undo past the initial state accepted")
	}

	for _, want := range []string{"one", "two", "three"} {
		if err := ed.Redo(); err != nil {
			t.Fatal(err)
		}
		cue, _ := ed.Cue(1)
		if cue.Text != want {
			t.Errorf("after redo, text = %q, want %q", cue.Text, want)
		}
	}
	if ed.CanRedo() {
		t.Error("redo available past the newest state")
	}
}

func TestNewEditDiscardsRedoTail(t *testing.T) {
	ed := New(testDoc())

	_ = ed.UpdateFragment(1, FragmentUpdate{Text: ptr("one")}, false)
	_ = ed.UpdateFragment(1, FragmentUpdate{Text: ptr("two")}, false)
	_ = ed.Undo()
	_ = ed.UpdateFragment(1, FragmentUpdate{Text: ptr("fork")}, false)

	if ed.CanRedo() {
		t.Error("redo tail survived a fresh edit")
	}
	_ = ed.Undo()
	cue, _ := ed.Cue(1)
	if cue.Text != "one" {
		t.Errorf("undo after fork landed on %q", cue.Text)
	}
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	ed := NewWithOptions(testDoc(), Options{MaxHistory: 3})

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		_ = ed.UpdateFragment(1, FragmentUpdate{Text: ptr(text)}, false)
	}

	undos := 0
	for ed.CanUndo() {
		if err := ed.Undo(); err != nil {
			t.Fatal(err)
		}
		undos++
	}
	if undos != 2 {
		t.Errorf("undo depth with cap 3 = %d", undos)
	}
	cue, _ := ed.Cue(1)
	if cue.Text != "c" {
		t.Errorf("oldest reachable state = %q", cue.Text)
	}
}

func TestBatchConsolidatesHistory(t *testing.T) {
	ed := New(testDoc())

	err := ed.Batch(func() error {
		if err := ed.UpdateFragment(1, FragmentUpdate{Text: ptr("x")}, false); err != nil {
			return err
		}
		if err := ed.DeleteCue(3); err != nil {
			return err
		}
		ed.ShiftTime(100)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if ed.CueCount() != 2 {
		t.Fatalf("cue count after batch = %d", ed.CueCount())
	}

	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	cues := ed.Cues()
	if len(cues) != 3 {
		t.Errorf("one undo did not revert whole batch: %d cues", len(cues))
	}
	if cues[0].Text != "hello world" || cues[0].StartTime != 1000 {
		t.Errorf("batch undo left partial state: %+v", cues[0])
	}
}

func TestBatchErrorRollsBackEverything(t *testing.T) {
	ed := New(testDoc())
	boom := errors.New("boom")

	err := ed.Batch(func() error {
		_ = ed.UpdateFragment(1, FragmentUpdate{Text: ptr("partial")}, false)
		_ = ed.DeleteCue(2)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("batch error = %v", err)
	}

	cues := ed.Cues()
	if len(cues) != 3 {
		t.Fatalf("cue count after failed batch = %d", len(cues))
	}
	if cues[0].Text != "hello world" {
		t.Errorf("failed batch left partial edit: %q", cues[0].Text)
	}
	if ed.CanUndo() {
		t.Error("failed batch recorded history")
	}
}

func TestBatchPanicRollsBackAndRepanics(t *testing.T) {
	ed := New(testDoc())

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic swallowed by batch")
			}
		}()
		_ = ed.Batch(func() error {
			_ = ed.DeleteCue(1)
			panic("midway")
		})
	}()

	if ed.CueCount() != 3 {
		t.Errorf("panicking batch left %d cues", ed.CueCount())
	}
}

func TestEventsOrderedAndContained(t *testing.T) {
	ed := New(testDoc())

	var order []string
	ed.Subscribe(func(Event) { order = append(order, "first") })
	panicky := ed.Subscribe(func(Event) {
		order = append(order, "second")
		panic("listener bug")
	})
	ed.Subscribe(func(Event) { order = append(order, "third") })

	err := ed.UpdateFragment(1, FragmentUpdate{Text: ptr("edited")}, false)
	if err != nil {
		t.Fatalf("panicking listener aborted mutation: %v", err)
	}

	if strings.Join(order, ",") != "first,second,third" {
		t.Errorf("listener order = %v", order)
	}
	cue, _ := ed.Cue(1)
	if cue.Text != "edited" {
		t.Error("mutation lost to listener panic")
	}

	if !ed.Unsubscribe(panicky) {
		t.Error("unsubscribe failed")
	}
	order = nil
	_ = ed.UpdateFragment(1, FragmentUpdate{Text: ptr("again")}, false)
	if strings.Join(order, ",") != "first,third" {
		t.Errorf("listener order after unsubscribe = %v", order)
	}
}

func TestEventPayloads(t *testing.T) {
	ed := New(testDoc())

	var got []Event
	ed.Subscribe(func(ev Event) { got = append(got, ev) })

	_ = ed.UpdateFragment(2, FragmentUpdate{Text: ptr("x")}, false)
	_ = ed.DeleteCue(1)
	ed.SetMetadata(document.Metadata{Title: "named"})

	types := make([]string, len(got))
	for i, ev := range got {
		types[i] = ev.Type
	}
	want := "fragmentUpdated,cueDeleted,metadataUpdated"
	if strings.Join(types, ",") != want {
		t.Fatalf("event types = %v", types)
	}
	if got[0].Data["index"] != 2 {
		t.Errorf("fragmentUpdated payload = %v", got[0].Data)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("event timestamp unset")
	}
}

func TestFragmentContext(t *testing.T) {
	ed := New(testDoc())

	first, err := ed.Fragment(1)
	if err != nil {
		t.Fatal(err)
	}
	if first.Previous != nil || first.Next == nil {
		t.Errorf("first fragment context: %+v", first)
	}

	middle, _ := ed.Fragment(2)
	if middle.Previous == nil || middle.Next == nil {
		t.Fatalf("middle fragment context: %+v", middle)
	}
	if middle.Previous.Text != "hello world" || middle.Next.Text != "third cue" {
		t.Errorf("neighbor texts: %q / %q",
			middle.Previous.Text, middle.Next.Text)
	}

	last, _ := ed.Fragment(3)
	if last.Next != nil {
		t.Errorf("last fragment context: %+v", last)
	}

	if _, err := ed.Fragment(4); err == nil {
		t.Error("out-of-range fragment accepted")
	}
}

func TestSetMetadataMerges(t *testing.T) {
	ed := New(testDoc())

	ed.SetMetadata(document.Metadata{Title: "First", Language: "en"})
	ed.SetMetadata(document.Metadata{Title: "Second"})

	meta := ed.Metadata()
	if meta.Title != "Second" || meta.Language != "en" {
		t.Errorf("merged metadata = %+v", meta)
	}
}

func TestStyleLifecycle(t *testing.T) {
	ed := New(testDoc())

	if err := ed.UpsertStyle(document.Style{}); err == nil {
		t.Error("unnamed style accepted")
	}
	if err := ed.UpsertStyle(document.Style{Name: "Top", FontSize: 18}); err != nil {
		t.Fatal(err)
	}
	if err := ed.UpsertStyle(document.Style{Name: "Top", FontSize: 24}); err != nil {
		t.Fatal(err)
	}

	styles := ed.Styles()
	if len(styles) != 1 || styles[0].FontSize != 24 {
		t.Errorf("upsert did not replace in place: %+v", styles)
	}

	if !ed.RemoveStyle("Top") {
		t.Error("remove failed")
	}
	if ed.RemoveStyle("Top") {
		t.Error("second remove succeeded")
	}
}

func TestExport(t *testing.T) {
	ed := New(testDoc())

	out, err := ed.Export(document.FormatVTT)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "WEBVTT") {
		t.Errorf("export missing header:\n%s", out)
	}
	if !strings.Contains(out, "00:00:01.000 --> 00:00:04.000") {
		t.Errorf("export missing cue timing:\n%s", out)
	}
}
