// Package editor wraps one canonical document with a transactional
// editing surface: fragment-level reads and writes, structural
// operations, time operations, search, validation, and a snapshot
// based undo/redo engine with change notification.
//
// An Editor is single-threaded by design. Undo history, the live
// document, and the listener list are unguarded shared state, and
// batch rollback assumes no interleaved external mutation.
package editor

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/subweave/subweave/internal/convert"
	"github.com/subweave/subweave/internal/document"
)

// change notification payload
type Event struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

type Options struct {
	MaxHistory int
	Validation Config
}

func DefaultOptions() Options {
	return Options{
		MaxHistory: 100,
		Validation: DefaultConfig(),
	}
}

type Editor struct {
	doc       *document.Document
	history   *history
	listeners []listenerEntry
	nextID    int
	options   Options
	inBatch   bool
}

// New wraps a deep copy of doc, so later caller-side mutation of the
// original cannot reach editor state.
func New(doc *document.Document) *Editor {
	return NewWithOptions(doc, DefaultOptions())
}

func NewWithOptions(doc *document.Document, opts Options) *Editor {
	if doc == nil {
		doc = document.New(document.FormatJSON)
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultOptions().MaxHistory
	}

	clone := doc.Clone()
	clone.Normalize()

	return &Editor{
		doc:     clone,
		history: newHistory(clone, opts.MaxHistory),
		options: opts,
	}
}

// --- read surface ---

// Document returns a deep copy of the live document.
func (e *Editor) Document() *document.Document {
	return e.doc.Clone()
}

func (e *Editor) Cues() []document.Cue {
	out := make([]document.Cue, len(e.doc.Cues))
	for i := range e.doc.Cues {
		out[i] = e.doc.Cues[i].Clone()
	}
	return out
}

func (e *Editor) CueCount() int {
	return len(e.doc.Cues)
}

// Cue returns a copy of the cue at the given 1-based index.
func (e *Editor) Cue(index int) (document.Cue, error) {
	cue, err := e.cueAt(index)
	if err != nil {
		return document.Cue{}, err
	}
	return cue.Clone(), nil
}

func (e *Editor) Styles() []document.Style {
	out := make([]document.Style, len(e.doc.Styles))
	for i := range e.doc.Styles {
		out[i] = e.doc.Styles[i].Clone()
	}
	return out
}

func (e *Editor) Metadata() document.Metadata {
	return e.doc.Metadata.Clone()
}

func (e *Editor) Stats() document.Stats {
	return e.doc.Stats()
}

// Fragment is a neighbor-aware view of one cue, giving translation and
// automation tooling the surrounding context for a single unit of work.
type Fragment struct {
	Previous *document.Cue
	Cue      document.Cue
	Next     *document.Cue
}

func (e *Editor) Fragment(index int) (Fragment, error) {
	cue, err := e.cueAt(index)
	if err != nil {
		return Fragment{}, err
	}

	fragment := Fragment{Cue: cue.Clone()}
	if index > 1 {
		prev := e.doc.Cues[index-2].Clone()
		fragment.Previous = &prev
	}
	if index < len(e.doc.Cues) {
		next := e.doc.Cues[index].Clone()
		fragment.Next = &next
	}
	return fragment, nil
}

// Export bridges through the conversion pipeline; the live document is
// normalized on the way out and never aliased.
func (e *Editor) Export(to document.Format) (string, error) {
	normalized, err := convert.Normalize(e.doc)
	if err != nil {
		return "", err
	}
	return convert.Serialize(normalized, to)
}

// --- change notification ---

// Subscribe registers a listener and returns its handle. Listeners run
// synchronously on the mutating call, in registration order; a
// panicking listener is contained and never aborts the mutation.
func (e *Editor) Subscribe(fn Listener) int {
	e.nextID++
	e.listeners = append(e.listeners, listenerEntry{id: e.nextID, fn: fn})
	return e.nextID
}

func (e *Editor) Unsubscribe(id int) bool {
	for i, entry := range e.listeners {
		if entry.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Editor) emit(eventType string, data map[string]any) {
	event := Event{Type: eventType, Timestamp: time.Now(), Data: data}
	for _, entry := range e.listeners {
		func() {
			defer func() {
				_ = recover()
			}()
			entry.fn(event)
		}()
	}
}

// record is the tail of every successful mutation: notify listeners,
// then snapshot unless a batch will consolidate.
func (e *Editor) record(eventType string, data map[string]any) {
	e.emit(eventType, data)
	if !e.inBatch {
		e.history.push(e.doc)
	}
}

// --- fragment mutation ---

// FragmentUpdate is a partial change; nil fields are untouched.
type FragmentUpdate struct {
	Text       *string
	Content    *string
	StartTime  *int64
	EndTime    *int64
	Style      *string
	Identifier *string
}

// UpdateFragment applies a partial change to one cue. Plain and rich
// text stay in sync and the duration is recomputed when times move.
// With validate set, a failing per-cue check leaves the document
// exactly as it was: no mutation, no event, no history entry.
func (e *Editor) UpdateFragment(
	index int,
	update FragmentUpdate,
	validate bool,
) error {
	cue, err := e.cueAt(index)
	if err != nil {
		return err
	}

	updated := cue.Clone()
	if update.Content != nil {
		updated.Content = *update.Content
		updated.Text = document.StripMarkup(*update.Content)
	}
	if update.Text != nil {
		updated.Text = *update.Text
		if update.Content == nil {
			updated.Content = *update.Text
		}
	}
	if update.StartTime != nil {
		updated.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		updated.EndTime = *update.EndTime
	}
	if update.Style != nil {
		updated.Style = *update.Style
	}
	if update.Identifier != nil {
		updated.Identifier = *update.Identifier
	}
	updated.SyncDuration()

	if validate {
		if issues, _ := cueIssues(updated, index-1, e.options.Validation); len(issues) > 0 {
			return fmt.Errorf(
				"fragment %d failed validation: %s",
				index,
				issues[0].Message,
			)
		}
	}

	*cue = updated
	e.record("fragmentUpdated", map[string]any{"index": index})
	return nil
}

// --- structural mutation ---

func (e *Editor) AddCue(cue document.Cue) {
	e.InsertCue(len(e.doc.Cues)+1, cue)
}

// InsertCue places the cue before the given 1-based position; a
// position past the end appends.
func (e *Editor) InsertCue(at int, cue document.Cue) {
	if at < 1 {
		at = 1
	}
	if at > len(e.doc.Cues)+1 {
		at = len(e.doc.Cues) + 1
	}

	inserted := cue.Clone()
	if inserted.Content == "" {
		inserted.Content = inserted.Text
	}
	if inserted.Text == "" {
		inserted.Text = document.StripMarkup(inserted.Content)
	}
	inserted.SyncDuration()

	e.doc.Cues = append(e.doc.Cues, document.Cue{})
	copy(e.doc.Cues[at:], e.doc.Cues[at-1:])
	e.doc.Cues[at-1] = inserted
	e.doc.Reindex()

	e.record("cueAdded", map[string]any{"index": at})
}

func (e *Editor) DeleteCue(index int) error {
	if _, err := e.cueAt(index); err != nil {
		return err
	}

	e.doc.Cues = append(e.doc.Cues[:index-1], e.doc.Cues[index:]...)
	e.doc.Reindex()

	e.record("cueDeleted", map[string]any{"index": index})
	return nil
}

// Split divides a cue at an interior time point. The split point must
// fall strictly inside (start, end). Both halves inherit the style and
// format-specific metadata; the text is divided at the word boundary
// closest to the time fraction.
func (e *Editor) Split(index int, atMs int64) error {
	cue, err := e.cueAt(index)
	if err != nil {
		return err
	}
	if atMs <= cue.StartTime || atMs >= cue.EndTime {
		return fmt.Errorf(
			"split point %dms outside open interval (%dms, %dms)",
			atMs,
			cue.StartTime,
			cue.EndTime,
		)
	}

	fraction := float64(atMs-cue.StartTime) /
		float64(cue.EndTime-cue.StartTime)
	firstText, secondText := splitTextAt(cue.Text, fraction)

	first := cue.Clone()
	first.EndTime = atMs
	first.Text = firstText
	first.Content = rebuildContent(*cue, firstText)
	first.SyncDuration()

	second := cue.Clone()
	second.StartTime = atMs
	second.Text = secondText
	second.Content = rebuildContent(*cue, secondText)
	second.Identifier = ""
	second.SyncDuration()

	e.doc.Cues[index-1] = first
	e.doc.Cues = append(e.doc.Cues, document.Cue{})
	copy(e.doc.Cues[index+1:], e.doc.Cues[index:])
	e.doc.Cues[index] = second
	e.doc.Reindex()

	e.record("cueSplit", map[string]any{"index": index, "at": atMs})
	return nil
}

// Merge collapses the contiguous 1-based index range [from, to] into
// one cue spanning the first's start to the last's end. Plain and rich
// text concatenate in order with a line break between source cues.
func (e *Editor) Merge(from, to int) error {
	if from >= to {
		return fmt.Errorf("merge range [%d, %d] must be ascending", from, to)
	}
	if _, err := e.cueAt(from); err != nil {
		return err
	}
	if _, err := e.cueAt(to); err != nil {
		return err
	}

	texts := make([]string, 0, to-from+1)
	contents := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		texts = append(texts, e.doc.Cues[i-1].Text)
		contents = append(contents, e.doc.Cues[i-1].Content)
	}

	merged := e.doc.Cues[from-1].Clone()
	merged.EndTime = e.doc.Cues[to-1].EndTime
	merged.Text = strings.Join(texts, "\n")
	merged.Content = strings.Join(contents, "\n")
	merged.SyncDuration()

	e.doc.Cues[from-1] = merged
	e.doc.Cues = append(e.doc.Cues[:from], e.doc.Cues[to:]...)
	e.doc.Reindex()

	e.record("cuesMerged", map[string]any{"from": from, "to": to})
	return nil
}

// --- time operations ---

// ShiftTime moves every cue by deltaMs. Times floor at zero.
func (e *Editor) ShiftTime(deltaMs int64) {
	for i := range e.doc.Cues {
		c := &e.doc.Cues[i]
		c.StartTime = clampMs(c.StartTime + deltaMs)
		c.EndTime = clampMs(c.EndTime + deltaMs)
		c.SyncDuration()
	}
	e.record("timeShifted", map[string]any{"delta": deltaMs})
}

// ScaleTime multiplies every cue time by factor, for frame-rate
// mismatch correction.
func (e *Editor) ScaleTime(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("scale factor must be positive, got %g", factor)
	}
	for i := range e.doc.Cues {
		c := &e.doc.Cues[i]
		c.StartTime = int64(math.Round(float64(c.StartTime) * factor))
		c.EndTime = int64(math.Round(float64(c.EndTime) * factor))
		c.SyncDuration()
	}
	e.record("timeScaled", map[string]any{"factor": factor})
	return nil
}

// --- style and metadata ---

func (e *Editor) UpsertStyle(style document.Style) error {
	if style.Name == "" {
		return fmt.Errorf("style name must not be empty")
	}
	e.doc.UpsertStyle(style.Clone())
	e.record("styleUpdated", map[string]any{"name": style.Name})
	return nil
}

// RemoveStyle drops a style from the table. Cue references to it stay:
// the association is nullable by design and resolves to nothing.
func (e *Editor) RemoveStyle(name string) bool {
	for i := range e.doc.Styles {
		if e.doc.Styles[i].Name == name {
			e.doc.Styles = append(e.doc.Styles[:i], e.doc.Styles[i+1:]...)
			e.record("styleRemoved", map[string]any{"name": name})
			return true
		}
	}
	return false
}

// SetMetadata merges a partial metadata value over the current one.
func (e *Editor) SetMetadata(partial document.Metadata) {
	e.doc.Metadata = document.MergeMetadata(e.doc.Metadata, partial)
	e.record("metadataUpdated", nil)
}

// --- undo / redo / batch ---

func (e *Editor) CanUndo() bool {
	return !e.inBatch && e.history.canUndo()
}

func (e *Editor) CanRedo() bool {
	return !e.inBatch && e.history.canRedo()
}

func (e *Editor) Undo() error {
	if e.inBatch {
		return fmt.Errorf("cannot undo inside a batch")
	}
	if !e.history.canUndo() {
		return fmt.Errorf("nothing to undo")
	}
	e.doc = e.history.undo()
	e.emit("undo", nil)
	return nil
}

func (e *Editor) Redo() error {
	if e.inBatch {
		return fmt.Errorf("cannot redo inside a batch")
	}
	if !e.history.canRedo() {
		return fmt.Errorf("nothing to redo")
	}
	e.doc = e.history.redo()
	e.emit("redo", nil)
	return nil
}

// Batch runs fn with history snapshots deferred: inner mutations still
// notify listeners as they happen, but only one consolidated history
// entry is recorded when fn completes. An error or panic inside fn
// restores the exact pre-batch document and leaves no history entry.
func (e *Editor) Batch(fn func() error) error {
	if e.inBatch {
		return fn()
	}

	base := e.doc.Clone()
	e.inBatch = true
	completed := false
	defer func() {
		e.inBatch = false
		if !completed {
			e.doc = base
		}
	}()

	if err := fn(); err != nil {
		return err
	}

	completed = true
	e.history.push(e.doc)
	e.emit("batch", nil)
	return nil
}

// --- helpers ---

func (e *Editor) cueAt(index int) (*document.Cue, error) {
	if index < 1 || index > len(e.doc.Cues) {
		return nil, fmt.Errorf(
			"cue index %d out of range (1-%d)",
			index,
			len(e.doc.Cues),
		)
	}
	return &e.doc.Cues[index-1], nil
}

func clampMs(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}

// splitTextAt divides text at the word boundary closest to the given
// fraction of its length. One-word text goes entirely to the first
// half.
func splitTextAt(text string, fraction float64) (string, string) {
	words := strings.Fields(text)
	if len(words) < 2 {
		return text, ""
	}

	target := int(fraction * float64(utf8.RuneCountInString(text)))
	bestSplit := 1
	bestDiff := utf8.RuneCountInString(text)

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // joining space
		}
		diff := currentLen - target
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	return strings.Join(words[:bestSplit], " "),
		strings.Join(words[bestSplit:], " ")
}

// rebuildContent carries a cue's leading override tags onto a new text
// body. Inline tags deeper in the original content do not survive a
// split; leading positioning and styling do.
func rebuildContent(cue document.Cue, text string) string {
	if cue.Content == cue.Text {
		return text
	}
	leading := leadingTags(cue.Content)
	return leading + strings.ReplaceAll(text, "\n", `\N`)
}

func leadingTags(content string) string {
	end := 0
	for strings.HasPrefix(content[end:], "{") {
		close := strings.Index(content[end:], "}")
		if close == -1 {
			break
		}
		end += close + 1
	}
	return content[:end]
}
