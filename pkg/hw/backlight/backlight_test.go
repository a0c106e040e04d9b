package backlight

import (
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestGPIO(t *testing.T) {
	pin := &gpiotest.Pin{N: "BL", L: gpio.Low}
	b := &GPIO{Pin: pin}
	require.NoError(t, b.Set(true))
	require.Equal(t, gpio.High, pin.Read())
	require.NoError(t, b.Set(false))
	require.Equal(t, gpio.Low, pin.Read())
}

func TestGPIOActiveLow(t *testing.T) {
	pin := &gpiotest.Pin{N: "BL", L: gpio.High}
	b := &GPIO{Pin: pin, ActiveLow: true}
	require.NoError(t, b.Set(true))
	require.Equal(t, gpio.Low, pin.Read())
	require.NoError(t, b.Set(false))
	require.Equal(t, gpio.High, pin.Read())
}

func TestOpenUnknownPin(t *testing.T) {
	_, err := Open("NO-SUCH-PIN", false)
	require.Error(t, err)
}

func TestMemory(t *testing.T) {
	var b Memory
	require.False(t, b.On())
	require.NoError(t, b.Set(true))
	require.True(t, b.On())
	require.NoError(t, b.Set(false))
	require.False(t, b.On())
}
