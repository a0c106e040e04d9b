// Package screen draws text on any tinygo drivers.Displayer, turning it
// into an lcd.Canvas.
package screen

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/robotalks/signer/pkg/lcd"
)

type filler interface {
	FillScreen(c color.RGBA)
}

// Screen is an lcd.Canvas over a Displayer. Drawing is buffered by the
// Displayer until Flush.
type Screen struct {
	Display    drivers.Displayer
	Font       tinyfont.Fonter
	Foreground color.RGBA
	// LinePitch overrides the font's y-advance when positive.
	LinePitch int
}

var (
	_ lcd.Canvas       = (*Screen)(nil)
	_ lcd.Flusher      = (*Screen)(nil)
	_ lcd.LineHeighter = (*Screen)(nil)
)

// DefaultFont is used when New is not given one.
var DefaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// New creates a Screen writing white text in DefaultFont.
func New(d drivers.Displayer) *Screen {
	return &Screen{Display: d, Font: DefaultFont, Foreground: lcd.White}
}

// Clear implements lcd.Canvas.
func (s *Screen) Clear(bg color.RGBA) error {
	if f, ok := s.Display.(filler); ok {
		f.FillScreen(bg)
		return nil
	}
	w, h := s.Display.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			s.Display.SetPixel(x, y, bg)
		}
	}
	return nil
}

// DrawText implements lcd.Canvas. pos.Y is the vertical middle of the line.
func (s *Screen) DrawText(text string, pos image.Point, align lcd.Alignment) error {
	x := pos.X
	if align != lcd.AlignLeft {
		_, width := tinyfont.LineWidth(s.Font, text)
		switch align {
		case lcd.AlignCenter:
			x -= int(width) / 2
		case lcd.AlignRight:
			x -= int(width)
		}
	}
	tinyfont.WriteLine(s.Display, s.Font, int16(x), int16(pos.Y+s.capHeight()/2), text, s.Foreground)
	return nil
}

// Bounds implements lcd.Canvas.
func (s *Screen) Bounds() image.Rectangle {
	w, h := s.Display.Size()
	return image.Rect(0, 0, int(w), int(h))
}

// LineHeight implements lcd.LineHeighter.
func (s *Screen) LineHeight() int {
	if s.LinePitch > 0 {
		return s.LinePitch
	}
	return int(s.Font.GetYAdvance())
}

// Flush implements lcd.Flusher.
func (s *Screen) Flush() error {
	return s.Display.Display()
}

// capHeight measures how far a capital rises above the baseline.
func (s *Screen) capHeight() int {
	if g := s.Font.GetGlyph('M'); g != nil {
		if h := -int(g.Info().YOffset); h > 0 {
			return h
		}
	}
	return int(s.Font.GetYAdvance()) / 2
}
