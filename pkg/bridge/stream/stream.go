// Package stream reads text protocol lines from a byte stream such as
// stdin, a pipe or a serial device. One line is one command.
package stream

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/signer/pkg/bridge"
	"github.com/robotalks/signer/pkg/lcd"
)

// ReadWriter frames lines on a stream.
type ReadWriter struct {
	r *bufio.Reader
	w io.Writer
}

// New creates a ReadWriter. w may be nil when no replies are wanted.
func New(r io.Reader, w io.Writer) *ReadWriter {
	return &ReadWriter{r: bufio.NewReader(r), w: w}
}

// ReadLine reads one line without its terminator. A final line without a
// terminator is returned before io.EOF.
func (p *ReadWriter) ReadLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

// WriteLine writes line and a terminator.
func (p *ReadWriter) WriteLine(line string) error {
	if p.w == nil {
		return nil
	}
	_, err := io.WriteString(p.w, line+"\n")
	return err
}

// Config defines the stream source.
type Config struct {
	// Input is a file or device path, "-" for stdin. Empty disables it.
	Input string
}

var defaultConfig Config

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Input, "input", defaultConfig.Input, "Read display commands line by line from a file or device, - for stdin.")
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

// Enabled indicates an input is configured.
func (c *Config) Enabled() bool {
	return c.Input != ""
}

// IsStdin indicates the input is the process' stdin.
func (c *Config) IsStdin() bool {
	return c.Input == "-"
}

// NewBridge opens the input.
func (c *Config) NewBridge(sink bridge.Sink) (*Bridge, error) {
	if c.IsStdin() {
		return &Bridge{RW: New(os.Stdin, nil), Sink: sink}, nil
	}
	f, err := os.OpenFile(c.Input, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &Bridge{RW: New(f, f), Sink: sink, Closer: f}, nil
}

// Bridge submits each line read as a raw command and replies OK or ERR.
type Bridge struct {
	RW     *ReadWriter
	Sink   bridge.Sink
	Closer io.Closer
}

// Run implements framework.Runnable. It returns nil at the end of input.
func (b *Bridge) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.pump()
	}()
	select {
	case err := <-errCh:
		b.close()
		return err
	case <-ctx.Done():
		b.close()
		return ctx.Err()
	}
}

func (b *Bridge) pump() error {
	for {
		line, err := b.RW.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		reply := "OK"
		if err := b.Sink.Submit(lcd.Raw(line)); err != nil {
			glog.Warningf("drop command %q: %v", line, err)
			reply = "ERR " + err.Error()
		}
		if err := b.RW.WriteLine(reply); err != nil {
			return err
		}
	}
}

func (b *Bridge) close() {
	if b.Closer != nil {
		b.Closer.Close()
	}
}
