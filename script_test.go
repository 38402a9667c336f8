package pixl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRunner(t *testing.T, strict bool) (*Runner, *Session) {
	t.Helper()

	s, err := NewSession(DefaultSide)
	if err != nil {
		t.Fatalf("could not create the session: %v", err)
	}
	cfg := &Config{
		Side:    DefaultSide,
		Scale:   10,
		Quality: 100,
		Strict:  strict,
		Palette: DefaultPalette,
	}
	return NewRunner(s, cfg), s
}

func TestScript_ReplayPaints(t *testing.T) {
	assert := assert.New(t)

	r, s := newTestRunner(t, true)
	script := `
# paint a short red stroke
hex #FF0000
press 0 0
hover 0 1
hover 0 1
release
`
	assert.NoError(r.Run(strings.NewReader(script)))

	for col := 0; col <= 1; col++ {
		c, _ := s.Grid().Cell(0, col)
		assert.Equal(Color{0xFF, 0x00, 0x00}, c)
	}

	assert.Equal(5, r.Commands)
	// The duplicated hover is deduped, so only two cells commit.
	assert.Equal(2, r.Painted)
	assert.Equal(3, s.history.Len())
}

func TestScript_SideResizesBeforeEdits(t *testing.T) {
	assert := assert.New(t)

	r, s := newTestRunner(t, true)
	script := "side 8\nhex #00FF00\npress 7 7\nrelease\n"
	assert.NoError(r.Run(strings.NewReader(script)))

	assert.Equal(8, s.Grid().Side())
	c, err := s.Grid().Cell(7, 7)
	assert.NoError(err)
	assert.Equal(Color{0x00, 0xFF, 0x00}, c)
}

func TestScript_SideAfterEditRejected(t *testing.T) {
	r, _ := newTestRunner(t, true)
	script := "press 0 0\nrelease\nside 8\n"

	err := r.Run(strings.NewReader(script))
	if err == nil {
		t.Fatalf("a mid script side change expected to be rejected")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error expected to carry the line number. Got %v", err)
	}
}

func TestScript_ColorCommands(t *testing.T) {
	assert := assert.New(t)

	r, s := newTestRunner(t, true)
	script := "hue 120\nbrightness 25\npress 1 1\nrelease\n"
	assert.NoError(r.Run(strings.NewReader(script)))

	c, _ := s.Grid().Cell(1, 1)
	assert.Equal(Color{0x00, 0x80, 0x00}, c)

	// Preset indices address the configured palette.
	assert.NoError(r.Run(strings.NewReader("preset 2\npress 2 2\nrelease\n")))
	c, _ = s.Grid().Cell(2, 2)
	assert.Equal(DefaultPalette[2], c)
}

func TestScript_UndoRedoClear(t *testing.T) {
	assert := assert.New(t)

	r, s := newTestRunner(t, true)
	script := `
hex #0000FF
press 0 0
release
undo
redo
clear
undo
`
	assert.NoError(r.Run(strings.NewReader(script)))

	// The clear was undone, so the painted cell is back.
	c, _ := s.Grid().Cell(0, 0)
	assert.Equal(Color{0x00, 0x00, 0xFF}, c)
}

func TestScript_StrictModeReportsLine(t *testing.T) {
	r, _ := newTestRunner(t, true)
	script := "hex #FF0000\npress 0 0\nscribble 1 2\n"

	err := r.Run(strings.NewReader(script))
	if err == nil {
		t.Fatalf("an unknown command expected to abort a strict run")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error expected to carry the line number. Got %v", err)
	}
}

func TestScript_LenientModeSkipsBadCommands(t *testing.T) {
	assert := assert.New(t)

	r, s := newTestRunner(t, false)
	script := "hex #FF0000\nscribble\npress 99 99\npress 0 0\nrelease\n"
	assert.NoError(r.Run(strings.NewReader(script)))

	// The unknown command and the out of bounds press are skipped, the
	// valid paint still lands.
	c, _ := s.Grid().Cell(0, 0)
	assert.Equal(Color{0xFF, 0x00, 0x00}, c)
	assert.Equal(1, r.Painted)
}

func TestScript_ArgumentValidation(t *testing.T) {
	bad := []string{
		"hue 400",
		"hue -1",
		"brightness 101",
		"preset 99",
		"press 1",
		"press a b",
		"hex FF0000",
		"side 0",
	}

	for _, script := range bad {
		t.Run(script, func(t *testing.T) {
			r, _ := newTestRunner(t, true)
			if err := r.Run(strings.NewReader(script)); err == nil {
				t.Errorf("%q expected to be rejected", script)
			}
		})
	}
}
