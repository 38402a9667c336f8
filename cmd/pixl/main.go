package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"gioui.org/app"
	"github.com/cheryl-qian/pixl"
	"github.com/cheryl-qian/pixl/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┬─┐ ┬┬
├─┘│┌┴┬┘│
┴  ┴┴ └─┴─┘

Pixel grid drawing and replay tool.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source script, directory or URL")
	destination = flag.String("out", pipeName, "Destination image or directory")
	editor      = flag.Bool("gui", false, "Open the interactive editor")
	side        = flag.Int("side", pixl.DefaultSide, "Grid side in cells")
	scale       = flag.Int("scale", 10, "Cell size in pixels")
	quality     = flag.Int("quality", 100, "JPEG quality")
	format      = flag.String("format", "png", "Output image format (png, jpg, bmp)")
	workers     = flag.Int("workers", runtime.NumCPU(), "Number of scripts to process concurrently")
	strict      = flag.Bool("strict", false, "Abort the replay on the first bad script line")
	verbose     = flag.Bool("v", false, "Enable verbose logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		pixl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg, err := pixl.LoadConfig()
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Invalid configuration: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	// Explicitly passed flags win over the environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "side":
			cfg.Side = *side
		case "scale":
			cfg.Scale = utils.Clamp(*scale, pixl.MinScale, pixl.MaxScale)
		case "quality":
			cfg.Quality = utils.Clamp(*quality, 1, 100)
		case "strict":
			cfg.Strict = *strict
		}
	})

	outFormat, err := pixl.FormatFromExt(*format)
	if err != nil {
		log.Fatalf(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	if *editor {
		runEditor(cfg)
		return
	}

	proc := &pixl.Processor{
		Config: cfg,
		Format: outFormat,
	}
	proc.Execute(&pixl.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	})
}

// runEditor opens the interactive editor, optionally seeded with the
// source script.
func runEditor(cfg *pixl.Config) {
	session, err := pixl.NewSession(cfg.Side)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Unable to create the drawing session: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	if err := seedSession(session, cfg, *source); err != nil {
		log.Fatalf(
			utils.DecorateText("Unable to replay the source script: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	ed := pixl.NewGUI(session, cfg)
	go func() {
		if err := ed.Run(); err != nil {
			log.Fatalf(
				utils.DecorateText("Error running the editor: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		os.Exit(0)
	}()
	app.Main()
}

// seedSession replays the source script into the session shown by the
// editor. The source may be a script file, a URL or a pipe; an empty
// pipe leaves the canvas blank.
func seedSession(session *pixl.Session, cfg *pixl.Config, src string) error {
	var in *os.File

	switch {
	case utils.IsValidUrl(src):
		tmp, err := utils.DownloadScript(src)
		if tmp != nil {
			defer os.Remove(tmp.Name())
		}
		if err != nil {
			return err
		}
		in = tmp
	case src == pipeName:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil
		}
		in = os.Stdin
	default:
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		in = f
	}
	defer in.Close()

	return pixl.NewRunner(session, cfg).Run(in)
}
