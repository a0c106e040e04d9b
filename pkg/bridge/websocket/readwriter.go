// Package websocket bridges the display to WebSocket clients. Every text
// frame is one protocol line, answered with a text frame.
package websocket

import "golang.org/x/net/websocket"

// ReadWriter exchanges text frames.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadLine receives one frame.
func (p *ReadWriter) ReadLine() (line string, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &line)
	return
}

// WriteLine sends one frame.
func (p *ReadWriter) WriteLine(line string) error {
	return websocket.Message.Send((*websocket.Conn)(p), line)
}
