// Package bridge carries text protocol commands from other processes to the
// display. Each transport lives in its own sub-package.
package bridge

import "github.com/robotalks/signer/pkg/lcd"

// Sink accepts commands; lcd.Controller implements it.
type Sink interface {
	Submit(cmd lcd.Command) error
}
