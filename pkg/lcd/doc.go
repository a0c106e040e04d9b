// Package lcd drives a single LCD panel from any number of goroutines.
package lcd

// A Controller is the only way callers reach the panel. Every call is turned
// into a Command and queued; one worker goroutine owns the panel and its
// backlight for the whole session and applies commands in the order each
// producer queued them.
//
// The surface is taken from a Peripheral exactly once, inside the worker
// goroutine, and never handed back to callers. There is no lock around the
// hardware: nothing else can reach it.
//
// Remote transports (MQTT, WebSocket) carry commands as text lines:
//
//	Message: <text, newlines split lines>
//	Action: clear|backlight_on|backlight_off
//
// Such lines are queued undecoded with Raw and decoded by the worker, so
// a malformed line is logged and dropped on the consumer side.
