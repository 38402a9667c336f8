package pixl

import (
	"log/slog"
)

// Session drives one editing surface: it owns the current grid, its
// undo/redo history and the selected color, and interprets the
// press/hover/release pointer protocol as single cell paints, each one
// committed as its own undo step. A session expects its input events
// serialized the way a UI event loop delivers them; it is not safe for
// concurrent use.
type Session struct {
	history *History
	color   Color

	drawing bool
	lastRow int
	lastCol int
}

// NewSession creates a session over a fresh blank grid.
func NewSession(side int) (*Session, error) {
	g, err := NewGrid(side)
	if err != nil {
		return nil, err
	}
	return &Session{history: NewHistory(g), color: Black}, nil
}

// Grid returns the snapshot currently displayed.
func (s *Session) Grid() Grid { return s.history.Current() }

// Color returns the selected paint color.
func (s *Session) Color() Color { return s.color }

// Drawing reports whether a paint gesture is in progress.
func (s *Session) Drawing() bool { return s.drawing }

// Press starts a paint gesture by painting the pressed cell. A press
// outside the grid is rejected and no gesture starts.
func (s *Session) Press(row, col int) error {
	if err := s.paint(row, col); err != nil {
		return err
	}
	s.drawing = true
	return nil
}

// Hover paints the entered cell while a gesture is in progress and is a
// no-op otherwise. Repeated events for the cell painted last are
// dropped, so wiggling inside one cell does not flood the history.
func (s *Session) Hover(row, col int) error {
	if !s.drawing {
		return nil
	}
	if row == s.lastRow && col == s.lastCol {
		return nil
	}
	return s.paint(row, col)
}

// Release ends the paint gesture.
func (s *Session) Release() { s.drawing = false }

// PointerLeave ends the gesture exactly like Release. A pointer leaving
// the surface mid drag must not leave the session stuck drawing.
func (s *Session) PointerLeave() { s.drawing = false }

// SetHue replaces the selected color with the fully saturated color at
// the given hue angle.
func (s *Session) SetHue(hue int) { s.color = FromHue(hue) }

// Hue returns the hue angle of the selected color.
func (s *Session) Hue() int { return s.color.Hue() }

// SetBrightness adjusts the channels of the selected color around the
// neutral level 50; see Color.Brighten.
func (s *Session) SetBrightness(level int) { s.color = s.color.Brighten(level) }

// SetHex replaces the selected color when text holds a canonical
// #RRGGBB value. Malformed input leaves the color untouched.
func (s *Session) SetHex(text string) error {
	c, err := ParseHex(text)
	if err != nil {
		return err
	}
	s.color = c
	return nil
}

// PickPreset replaces the selected color with a palette swatch.
func (s *Session) PickPreset(c Color) { s.color = c }

// Undo steps one snapshot back and reports whether anything changed.
func (s *Session) Undo() bool { return s.history.Undo() }

// Redo steps one snapshot forward and reports whether anything changed.
func (s *Session) Redo() bool { return s.history.Redo() }

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Clear commits a blank snapshot. Like any other edit it can be undone.
func (s *Session) Clear() { s.history.Commit(s.Grid().blank()) }

// paint applies one cell edit and commits the resulting snapshot. The
// grid stays untouched when the edit is rejected.
func (s *Session) paint(row, col int) error {
	next, err := s.Grid().SetCell(row, col, s.color)
	if err != nil {
		Logger().Warn("paint rejected",
			slog.Int("row", row), slog.Int("col", col), slog.Any("err", err))
		return err
	}
	s.history.Commit(next)
	s.lastRow, s.lastCol = row, col
	return nil
}
