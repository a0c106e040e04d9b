//go:build tinygo

// Package board wires the ST7789 of the signer board (ESP32, 135x240
// panel) with tinygo drivers.
package board

import (
	"machine"

	"tinygo.org/x/drivers/st7789"

	"github.com/robotalks/signer/pkg/hw/screen"
	"github.com/robotalks/signer/pkg/lcd"
)

// Pins.
const (
	PinSCLK = machine.GPIO18
	PinSDO  = machine.GPIO19
	PinCS   = machine.GPIO5
	PinDC   = machine.GPIO16
	PinRST  = machine.GPIO23
	PinBL   = machine.GPIO4
)

// SPIHz is the panel clock.
const SPIHz = 26000000

type backlight struct {
	dev *st7789.Device
}

func (b backlight) Set(on bool) error {
	b.dev.EnableBacklight(on)
	return nil
}

// Peripheral defers panel setup to the display worker.
func Peripheral() *lcd.Peripheral {
	return lcd.NewPeripheral(open)
}

func open() (*lcd.Hardware, error) {
	spi := machine.SPI2
	if err := spi.Configure(machine.SPIConfig{
		SCK:       PinSCLK,
		SDO:       PinSDO,
		Frequency: SPIHz,
		Mode:      3,
	}); err != nil {
		return nil, err
	}
	dev := st7789.New(spi, PinRST, PinDC, PinCS, PinBL)
	dev.Configure(st7789.Config{
		Width:        135,
		Height:       240,
		Rotation:     st7789.ROTATION_90,
		RowOffset:    40,
		ColumnOffset: 52,
	})
	dev.InvertColors(true)
	return &lcd.Hardware{
		Canvas:    screen.New(&dev),
		Backlight: backlight{dev: &dev},
	}, nil
}
