// Package st7789 drives a Sitronix ST7789 panel over periph.io SPI.
package st7789

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"

	"github.com/robotalks/signer/pkg/hw/fb"
)

// Commands.
const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVOFF  = 0x20
	cmdINVON   = 0x21
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

// MADCTL bits.
const (
	madMY = 0x80
	madMX = 0x40
	madMV = 0x20
)

// Controller RAM size.
const (
	ramColumns = 240
	ramRows    = 320
)

const defaultMaxTx = 4096

// Device is a framebuffered ST7789. Drawing goes to the embedded
// framebuffer, Display pushes it to the panel.
type Device struct {
	*fb.Framebuffer

	conn  spi.Conn
	dc    gpio.PinOut
	rst   gpio.PinOut
	maxTx int

	madctl  byte
	invert  bool
	xOffset int16
	yOffset int16

	sleep func(time.Duration)
}

// New creates a Device. rst may be nil.
func New(c spi.Conn, dc, rst gpio.PinOut, conf *Config) *Device {
	width, height, xOff, yOff, madctl := conf.geometry()
	d := &Device{
		Framebuffer: fb.New(width, height),
		conn:        c,
		dc:          dc,
		rst:         rst,
		maxTx:       defaultMaxTx,
		madctl:      madctl,
		invert:      conf.Invert,
		xOffset:     xOff,
		yOffset:     yOff,
		sleep:       time.Sleep,
	}
	if l, ok := c.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 && n < d.maxTx {
			d.maxTx = n
		}
	}
	d.Present = d.blit
	return d
}

// geometry returns the drawable size and RAM offsets after rotation.
func (c *Config) geometry() (width, height, xOff, yOff int16, madctl byte) {
	w, h := c.Width, c.Height
	col, row := c.ColumnOffset, c.RowOffset
	altCol, altRow := ramColumns-w-col, ramRows-h-row
	switch c.Rotation {
	case 90:
		return h, w, row, col, madMX | madMV
	case 180:
		return w, h, altCol, altRow, madMX | madMY
	case 270:
		return h, w, altRow, altCol, madMY | madMV
	}
	return w, h, col, row, 0
}

// Init resets the controller and turns the panel on.
func (d *Device) Init() error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("reset: %v", err)
		}
		d.sleep(10 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("reset: %v", err)
		}
		d.sleep(120 * time.Millisecond)
	} else {
		if err := d.command(cmdSWRESET); err != nil {
			return err
		}
		d.sleep(150 * time.Millisecond)
	}
	if err := d.command(cmdSLPOUT); err != nil {
		return err
	}
	d.sleep(120 * time.Millisecond)
	inversion := byte(cmdINVOFF)
	if d.invert {
		inversion = cmdINVON
	}
	for _, seq := range [][]byte{
		{cmdCOLMOD, 0x55},
		{cmdMADCTL, d.madctl},
		{inversion},
		{cmdNORON},
		{cmdDISPON},
	} {
		if err := d.command(seq[0], seq[1:]...); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) command(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("command 0x%02x: %v", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.write(data)
}

func (d *Device) write(data []byte) error {
	for len(data) > 0 {
		n := len(data)
		if n > d.maxTx {
			n = d.maxTx
		}
		if err := d.conn.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func (d *Device) window(x0, y0, x1, y1 uint16) error {
	if err := d.command(cmdCASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.command(cmdRASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return d.command(cmdRAMWR)
}

// blit sends the whole frame, already in panel byte order.
func (d *Device) blit(buf []byte) error {
	w, h := d.Size()
	x0, y0 := uint16(d.xOffset), uint16(d.yOffset)
	if err := d.window(x0, y0, x0+uint16(w)-1, y0+uint16(h)-1); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.write(buf)
}
