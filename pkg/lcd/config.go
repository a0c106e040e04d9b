package lcd

import (
	"flag"
	"image/color"
	"time"
)

// Config defines the display worker options.
type Config struct {
	// PollInterval bounds how long the worker waits for a command before
	// checking for shutdown.
	PollInterval time.Duration
	// LineHeight is the pitch between text lines. Zero asks the canvas
	// (LineHeighter) and falls back to DefaultLineHeight.
	LineHeight int
	// Background is the colour of a cleared panel.
	Background color.RGBA
}

const (
	// DefaultPollInterval bounds the shutdown latency of the worker.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultLineHeight suits a 10x20 monospace font.
	DefaultLineHeight = 22
)

var (
	// Black is the default background.
	Black = color.RGBA{A: 0xff}
	// White is the usual text colour.
	White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	defaultConfig = Config{
		PollInterval: DefaultPollInterval,
		Background:   Black,
	}
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&defaultConfig.PollInterval, "lcd-poll", defaultConfig.PollInterval, "Display worker poll interval.")
	flag.IntVar(&defaultConfig.LineHeight, "lcd-line-height", defaultConfig.LineHeight, "Text line height, 0 for the panel's own.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController starts a Controller on p using the config.
func (c *Config) NewController(p *Peripheral) (*Controller, error) {
	return New(p, c)
}

func (c *Config) pollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return c.PollInterval
}

func (c *Config) lineHeight(canvas Canvas) int {
	if c.LineHeight > 0 {
		return c.LineHeight
	}
	if lh, ok := canvas.(LineHeighter); ok {
		if h := lh.LineHeight(); h > 0 {
			return h
		}
	}
	return DefaultLineHeight
}
