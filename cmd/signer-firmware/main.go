//go:build tinygo

package main

import (
	"context"
	"time"

	"github.com/robotalks/signer/pkg/demo"
	"github.com/robotalks/signer/pkg/hw/board"
	"github.com/robotalks/signer/pkg/lcd"
)

func main() {
	conf := lcd.NewConfig()
	conf.LineHeight = 22
	ctl, err := conf.NewController(board.Peripheral())
	if err != nil {
		println("display init:", err.Error())
		return
	}
	if err := demo.Run(context.Background(), ctl, demo.Sequence); err != nil {
		println("demo:", err.Error())
	}
	ctl.Shutdown()
	ctl.Wait()
	for {
		time.Sleep(time.Hour)
	}
}
