package pixl

// History is a linear undo/redo log of grid snapshots with a cursor
// marking the snapshot currently displayed. The log always holds at
// least one snapshot and the cursor always points inside it; there is
// no branching, committing after an undo discards the redo branch.
type History struct {
	snaps  []Grid
	cursor int
}

// NewHistory seeds the log with the initial snapshot.
func NewHistory(initial Grid) *History {
	return &History{snaps: []Grid{initial}}
}

// Commit truncates the redo branch, appends the snapshot and moves the
// cursor onto it. This is the only way snapshots enter the log.
func (h *History) Commit(g Grid) {
	// Zero the abandoned branch so the discarded snapshots become
	// garbage right away instead of lingering in the backing array.
	for i := h.cursor + 1; i < len(h.snaps); i++ {
		h.snaps[i] = Grid{}
	}
	h.snaps = append(h.snaps[:h.cursor+1], g)
	h.cursor = len(h.snaps) - 1
}

// Undo steps the cursor one snapshot back and reports whether it moved.
// At the start of the log it is a no-op, not an error.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo steps the cursor one snapshot forward and reports whether it
// moved. At the end of the log it is a no-op, not an error.
func (h *History) Redo() bool {
	if h.cursor == len(h.snaps)-1 {
		return false
	}
	h.cursor++
	return true
}

// Current returns the snapshot under the cursor.
func (h *History) Current() Grid {
	return h.snaps[h.cursor]
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a later snapshot exists.
func (h *History) CanRedo() bool { return h.cursor < len(h.snaps)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.snaps) }
