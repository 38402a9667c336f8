package pixl

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Runner replays a line oriented paint script against a session,
// turning textual pointer and color commands into engine events. It is
// the headless host used by the command line tool.
//
// A script holds one command per line; blank lines and lines starting
// with # are skipped:
//
//	side 8
//	hex #FF0000
//	press 0 0
//	hover 0 1
//	release
//	hue 120
//	brightness 70
//	preset 4
//	undo
//	redo
//	clear
//	leave
type Runner struct {
	session *Session
	cfg     *Config

	// Commands counts the applied commands, Painted the committed
	// cell edits.
	Commands int
	Painted  int
}

// NewRunner binds a runner to the session it drives.
func NewRunner(session *Session, cfg *Config) *Runner {
	return &Runner{session: session, cfg: cfg}
}

// Run replays the script from src. In strict mode the first rejected
// command aborts the run with its line number; otherwise rejected
// commands are logged and skipped.
func (r *Runner) Run(src io.Reader) error {
	scanner := bufio.NewScanner(src)

	line := 0
	for scanner.Scan() {
		line++
		if err := r.apply(scanner.Text()); err != nil {
			if r.cfg.Strict {
				return errors.Wrapf(err, "line %d", line)
			}
			Logger().Warn("command skipped",
				slog.Int("line", line), slog.Any("err", err))
		}
	}

	return scanner.Err()
}

// apply executes a single script line against the session.
func (r *Runner) apply(raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}

	fields := strings.Fields(text)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "side":
		n, err := argInt(cmd, args, 0, 1)
		if err != nil {
			return err
		}
		if err := r.resize(n); err != nil {
			return err
		}
	case "hex":
		if len(args) != 1 {
			return errors.Errorf("%s: expected 1 argument, got %d", cmd, len(args))
		}
		if err := r.session.SetHex(args[0]); err != nil {
			return err
		}
	case "hue":
		n, err := argInt(cmd, args, 0, 1)
		if err != nil {
			return err
		}
		if n < 0 || n > 360 {
			return errors.Errorf("%s: %d is outside [0,360]", cmd, n)
		}
		r.session.SetHue(n)
	case "brightness":
		n, err := argInt(cmd, args, 0, 1)
		if err != nil {
			return err
		}
		if n < 0 || n > 100 {
			return errors.Errorf("%s: %d is outside [0,100]", cmd, n)
		}
		r.session.SetBrightness(n)
	case "preset":
		n, err := argInt(cmd, args, 0, 1)
		if err != nil {
			return err
		}
		if n < 0 || n >= len(r.cfg.Palette) {
			return errors.Errorf("%s: no palette entry %d", cmd, n)
		}
		r.session.PickPreset(r.cfg.Palette[n])
	case "press":
		row, col, err := argPair(cmd, args)
		if err != nil {
			return err
		}
		if err := r.session.Press(row, col); err != nil {
			return err
		}
		r.Painted++
	case "hover":
		row, col, err := argPair(cmd, args)
		if err != nil {
			return err
		}
		before := r.session.history.Len()
		if err := r.session.Hover(row, col); err != nil {
			return err
		}
		if r.session.history.Len() > before {
			r.Painted++
		}
	case "release":
		r.session.Release()
	case "leave":
		r.session.PointerLeave()
	case "undo":
		// Stepping past the start of the log is a no-op, not an error.
		r.session.Undo()
	case "redo":
		r.session.Redo()
	case "clear":
		r.session.Clear()
	default:
		return errors.Errorf("unknown command %q", cmd)
	}

	r.Commands++
	return nil
}

// resize recreates the surface. The grid dimensions are fixed for the
// lifetime of a drawing, so the side command must precede the first
// edit.
func (r *Runner) resize(side int) error {
	if r.session.history.Len() > 1 {
		return errors.New("side must come before the first edit")
	}

	fresh, err := NewSession(side)
	if err != nil {
		return err
	}
	fresh.color = r.session.color
	*r.session = *fresh

	return nil
}

// argInt parses the i-th argument of a command as an integer, after
// checking the exact argument count.
func argInt(cmd string, args []string, i, want int) (int, error) {
	if len(args) != want {
		return 0, errors.Errorf("%s: expected %d argument(s), got %d", cmd, want, len(args))
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, errors.Errorf("%s: %q is not a number", cmd, args[i])
	}
	return n, nil
}

// argPair parses a row and column argument pair.
func argPair(cmd string, args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, errors.Errorf("%s: expected 2 arguments, got %d", cmd, len(args))
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, errors.Errorf("%s: %q is not a number", cmd, args[0])
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, errors.Errorf("%s: %q is not a number", cmd, args[1])
	}
	return row, col, nil
}
