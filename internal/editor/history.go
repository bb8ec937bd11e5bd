package editor

import (
	"github.com/subweave/subweave/internal/document"
)

// history is a linear list of full-document snapshots with a live
// cursor. Snapshot undo costs O(document size) per step and buys
// freedom from inverse-operation bugs; at caption-track sizes that is
// the right trade.
type history struct {
	snapshots []*document.Document
	cursor    int
	max       int
}

func newHistory(initial *document.Document, max int) *history {
	if max < 2 {
		max = 2
	}
	return &history{
		snapshots: []*document.Document{initial.Clone()},
		max:       max,
	}
}

// push records a new state. Any redo tail past the cursor is
// discarded; the oldest entries are evicted past the cap.
func (h *history) push(doc *document.Document) {
	h.snapshots = append(h.snapshots[:h.cursor+1], doc.Clone())
	if len(h.snapshots) > h.max {
		over := len(h.snapshots) - h.max
		h.snapshots = h.snapshots[over:]
	}
	h.cursor = len(h.snapshots) - 1
}

func (h *history) canUndo() bool {
	return h.cursor > 0
}

func (h *history) canRedo() bool {
	return h.cursor < len(h.snapshots)-1
}

func (h *history) undo() *document.Document {
	h.cursor--
	return h.snapshots[h.cursor].Clone()
}

func (h *history) redo() *document.Document {
	h.cursor++
	return h.snapshots[h.cursor].Clone()
}
