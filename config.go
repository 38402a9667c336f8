package pixl

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/cheryl-qian/pixl/utils"
)

// Export scale bounds offered to the hosts. The rasterizer itself
// accepts any positive scale; these bound what the CLI and GUI expose.
const (
	MinScale = 5
	MaxScale = 20
)

// DefaultPalette is the preset swatch list used when PIXL_PALETTE does
// not override it.
var DefaultPalette = []Color{
	{0x00, 0x00, 0x00}, // black
	{0xFF, 0xFF, 0xFF}, // white
	{0xFF, 0x00, 0x00}, // red
	{0x00, 0xFF, 0x00}, // green
	{0x00, 0x00, 0xFF}, // blue
	{0xFF, 0xFF, 0x00}, // yellow
	{0x00, 0xFF, 0xFF}, // cyan
	{0xFF, 0x00, 0xFF}, // magenta
	{0xFF, 0x7F, 0x00}, // orange
	{0x7F, 0x00, 0xFF}, // purple
	{0x96, 0x4B, 0x00}, // brown
	{0xFF, 0xC0, 0xCB}, // pink
	{0x80, 0x80, 0x80}, // gray
	{0xC0, 0xC0, 0xC0}, // silver
	{0x00, 0x80, 0x80}, // teal
	{0x00, 0x00, 0x80}, // navy
}

// Config collects the tunables shared by the CLI and GUI hosts. Values
// come from the environment, optionally seeded from a .env file, with
// package defaults as fallback. Command line flags override these.
type Config struct {
	Side    int
	Scale   int
	Quality int
	Strict  bool
	Palette []Color
}

// LoadConfig reads the configuration from the environment. A .env file
// in the working directory is honored when present; a missing file is
// not an error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Side:    getEnvInt("PIXL_SIDE", DefaultSide),
		Scale:   utils.Clamp(getEnvInt("PIXL_SCALE", 10), MinScale, MaxScale),
		Quality: utils.Clamp(getEnvInt("PIXL_QUALITY", 100), 1, 100),
		Strict:  getEnvBool("PIXL_STRICT", false),
		Palette: append([]Color(nil), DefaultPalette...),
	}

	if raw, ok := os.LookupEnv("PIXL_PALETTE"); ok && raw != "" {
		palette, err := parsePalette(raw)
		if err != nil {
			return nil, err
		}
		cfg.Palette = palette
	}

	return cfg, nil
}

// parsePalette parses a comma separated list of #RRGGBB codes.
func parsePalette(raw string) ([]Color, error) {
	parts := strings.Split(raw, ",")
	palette := make([]Color, 0, len(parts))
	for _, p := range parts {
		c, err := ParseHex(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrap(err, "PIXL_PALETTE")
		}
		palette = append(palette, c)
	}
	return palette, nil
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
