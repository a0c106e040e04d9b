package st7789

import (
	"flag"
	"fmt"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/robotalks/signer/pkg/hw/backlight"
	"github.com/robotalks/signer/pkg/hw/screen"
	"github.com/robotalks/signer/pkg/lcd"
)

// Config describes the panel wiring and geometry.
type Config struct {
	// Port is the SPI port name for spireg, empty for the first one.
	Port string
	// MaxHz is the SPI clock.
	MaxHz int64
	// ResetPin, DCPin and BacklightPin are gpioreg names. ResetPin may be
	// empty, a software reset is issued then.
	ResetPin     string
	DCPin        string
	BacklightPin string

	// Width and Height are the panel size in native (portrait) orientation.
	Width  int16
	Height int16
	// ColumnOffset and RowOffset locate the panel inside controller RAM,
	// in native orientation.
	ColumnOffset int16
	RowOffset    int16
	// Rotation is clockwise degrees: 0, 90, 180 or 270.
	Rotation int
	Invert   bool
}

var defaultConfig = Config{
	MaxHz:        26000000,
	ResetPin:     "GPIO27",
	DCPin:        "GPIO25",
	BacklightPin: "GPIO22",
	Width:        135,
	Height:       240,
	ColumnOffset: 52,
	RowOffset:    40,
	Rotation:     90,
	Invert:       true,
}

func init() {
	if val := os.Getenv("SIGNER_SPI_PORT"); val != "" {
		defaultConfig.Port = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "spi", defaultConfig.Port, "SPI port of the panel.")
	flag.Int64Var(&defaultConfig.MaxHz, "spi-hz", defaultConfig.MaxHz, "SPI clock in Hz.")
	flag.StringVar(&defaultConfig.ResetPin, "pin-rst", defaultConfig.ResetPin, "Panel reset pin, empty for none.")
	flag.StringVar(&defaultConfig.DCPin, "pin-dc", defaultConfig.DCPin, "Panel data/command pin.")
	flag.StringVar(&defaultConfig.BacklightPin, "pin-bl", defaultConfig.BacklightPin, "Backlight pin.")
	flag.IntVar(&defaultConfig.Rotation, "lcd-rotation", defaultConfig.Rotation, "Panel rotation in degrees.")
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

// Peripheral defers opening the panel to the display worker.
func (c *Config) Peripheral() *lcd.Peripheral {
	return lcd.NewPeripheral(c.Open)
}

// Open initializes periph, the SPI port and the pins, and brings the panel
// up. Drawing is done in a framebuffer pushed on Flush.
func (c *Config) Open() (*lcd.Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %v", err)
	}
	port, err := spireg.Open(c.Port)
	if err != nil {
		return nil, fmt.Errorf("open SPI %q: %v", c.Port, err)
	}
	hw, err := c.openOn(port)
	if err != nil {
		port.Close()
		return nil, err
	}
	return hw, nil
}

func (c *Config) openOn(port spi.PortCloser) (*lcd.Hardware, error) {
	conn, err := port.Connect(physic.Frequency(c.MaxHz)*physic.Hertz, spi.Mode3, 8)
	if err != nil {
		return nil, fmt.Errorf("connect SPI: %v", err)
	}
	dc := gpioreg.ByName(c.DCPin)
	if dc == nil {
		return nil, fmt.Errorf("DC pin %q not found", c.DCPin)
	}
	var rst gpio.PinOut
	if c.ResetPin != "" {
		pin := gpioreg.ByName(c.ResetPin)
		if pin == nil {
			return nil, fmt.Errorf("reset pin %q not found", c.ResetPin)
		}
		rst = pin
	}
	bl, err := backlight.Open(c.BacklightPin, false)
	if err != nil {
		return nil, err
	}
	dev := New(conn, dc, rst, c)
	if err := dev.Init(); err != nil {
		return nil, err
	}
	return &lcd.Hardware{
		Canvas:    screen.New(dev),
		Backlight: bl,
		Release:   port.Close,
	}, nil
}
