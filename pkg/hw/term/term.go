// Package term previews the panel in a terminal. One character cell is one
// text row, so messages are laid out with a line height of 1.
package term

import (
	"flag"
	"image"
	"image/color"

	"github.com/gdamore/tcell"

	"github.com/robotalks/signer/pkg/lcd"
)

// Config defines the terminal panel.
type Config struct {
	Columns int
	Rows    int
	// OnQuit is called from the event loop when Ctrl-C or Esc is pressed.
	// tcell captures the terminal so no SIGINT is delivered.
	OnQuit func()
}

var defaultConfig = Config{
	Columns: 30,
	Rows:    8,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Columns, "term-cols", defaultConfig.Columns, "Terminal panel width in cells.")
	flag.IntVar(&defaultConfig.Rows, "term-rows", defaultConfig.Rows, "Terminal panel height in cells.")
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

// Peripheral defers taking over the terminal to the display worker.
func (c *Config) Peripheral() *lcd.Peripheral {
	return lcd.NewPeripheral(c.Open)
}

// Open takes over the terminal.
func (c *Config) Open() (*lcd.Hardware, error) {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	s := New(screen, c.Columns, c.Rows)
	go s.pollLoop(c.OnQuit)
	return s.Hardware(), nil
}

var (
	litStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	darkStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlack)
)

// Surface is a framed cols x rows panel in the top-left of the terminal.
// It is both the canvas and the backlight: with the light off, text is
// kept but drawn black on black.
type Surface struct {
	screen tcell.Screen
	cols   int
	rows   int
	cells  [][]rune
	lit    bool
}

var (
	_ lcd.Canvas       = (*Surface)(nil)
	_ lcd.Backlight    = (*Surface)(nil)
	_ lcd.Flusher      = (*Surface)(nil)
	_ lcd.LineHeighter = (*Surface)(nil)
)

// New creates a Surface on an initialized screen.
func New(screen tcell.Screen, cols, rows int) *Surface {
	s := &Surface{screen: screen, cols: cols, rows: rows}
	s.cells = make([][]rune, rows)
	for y := range s.cells {
		s.cells[y] = make([]rune, cols)
	}
	s.fill(' ')
	s.drawFrame()
	return s
}

// Hardware wraps the surface for an lcd.Peripheral.
func (s *Surface) Hardware() *lcd.Hardware {
	return &lcd.Hardware{Canvas: s, Backlight: s, Release: s.Close}
}

// Clear implements lcd.Canvas. Terminal colours are fixed, bg is ignored.
func (s *Surface) Clear(bg color.RGBA) error {
	s.fill(' ')
	s.repaint()
	return nil
}

// DrawText implements lcd.Canvas; pos is in cells. Text is clipped.
func (s *Surface) DrawText(text string, pos image.Point, align lcd.Alignment) error {
	if pos.Y < 0 || pos.Y >= s.rows {
		return nil
	}
	runes := []rune(text)
	x := pos.X
	switch align {
	case lcd.AlignCenter:
		x -= len(runes) / 2
	case lcd.AlignRight:
		x -= len(runes)
	}
	row := s.cells[pos.Y]
	for i, r := range runes {
		if cx := x + i; cx >= 0 && cx < s.cols {
			row[cx] = r
			s.put(cx, pos.Y)
		}
	}
	return nil
}

// Bounds implements lcd.Canvas.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.cols, s.rows)
}

// LineHeight implements lcd.LineHeighter.
func (s *Surface) LineHeight() int {
	return 1
}

// Flush implements lcd.Flusher.
func (s *Surface) Flush() error {
	s.screen.Show()
	return nil
}

// Set implements lcd.Backlight.
func (s *Surface) Set(on bool) error {
	s.lit = on
	s.repaint()
	s.screen.Show()
	return nil
}

// Close gives the terminal back.
func (s *Surface) Close() error {
	s.screen.Fini()
	return nil
}

func (s *Surface) fill(r rune) {
	for _, row := range s.cells {
		for x := range row {
			row[x] = r
		}
	}
}

func (s *Surface) style() tcell.Style {
	if s.lit {
		return litStyle
	}
	return darkStyle
}

// put copies one cell to the screen, inside the frame.
func (s *Surface) put(x, y int) {
	s.screen.SetContent(x+1, y+1, s.cells[y][x], nil, s.style())
}

func (s *Surface) repaint() {
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			s.put(x, y)
		}
	}
}

func (s *Surface) drawFrame() {
	w, h := s.cols+1, s.rows+1
	st := tcell.StyleDefault
	for x := 1; x < w; x++ {
		s.screen.SetContent(x, 0, tcell.RuneHLine, nil, st)
		s.screen.SetContent(x, h, tcell.RuneHLine, nil, st)
	}
	for y := 1; y < h; y++ {
		s.screen.SetContent(0, y, tcell.RuneVLine, nil, st)
		s.screen.SetContent(w, y, tcell.RuneVLine, nil, st)
	}
	s.screen.SetContent(0, 0, tcell.RuneULCorner, nil, st)
	s.screen.SetContent(w, 0, tcell.RuneURCorner, nil, st)
	s.screen.SetContent(0, h, tcell.RuneLLCorner, nil, st)
	s.screen.SetContent(w, h, tcell.RuneLRCorner, nil, st)
	s.repaint()
}

// pollLoop consumes terminal events until the screen is finalized.
func (s *Surface) pollLoop(onQuit func()) {
	for {
		event := s.screen.PollEvent()
		if event == nil {
			return
		}
		switch event := event.(type) {
		case *tcell.EventKey:
			switch event.Key() {
			case tcell.KeyCtrlC, tcell.KeyEscape:
				if onQuit != nil {
					onQuit()
				}
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}
