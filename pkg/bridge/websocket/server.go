package websocket

import (
	"context"
	"flag"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/signer/pkg/bridge"
	"github.com/robotalks/signer/pkg/lcd"
)

// Replies.
const (
	ReplyOK    = "OK"
	ReplyError = "ERR "
)

// Config defines the WebSocket endpoint.
type Config struct {
	// Listen is the address to serve on, empty disables the endpoint.
	Listen string
	Path   string
}

var defaultConfig = Config{
	Path: "/display",
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Listen, "listen", defaultConfig.Listen, "Address serving WebSocket display commands, e.g. :8080.")
	flag.StringVar(&defaultConfig.Path, "ws-path", defaultConfig.Path, "WebSocket endpoint path.")
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

// Enabled indicates a listen address is configured.
func (c *Config) Enabled() bool {
	return c.Listen != ""
}

// NewServer creates a Server feeding sink.
func (c *Config) NewServer(sink bridge.Sink) *Server {
	return &Server{Addr: c.Listen, Path: c.Path, Sink: sink}
}

// Server accepts display commands over WebSocket. A reply of ReplyOK
// means the command was queued, not that it was valid.
type Server struct {
	Addr string
	Path string
	Sink bridge.Sink
}

// Handler serves the endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.Path, websocket.Handler(s.serveConn))
	return mux
}

func (s *Server) serveConn(conn *websocket.Conn) {
	defer conn.Close()
	rw := New(conn)
	for {
		line, err := rw.ReadLine()
		if err != nil {
			if err != io.EOF {
				glog.V(1).Infof("websocket %s: %v", conn.Request().RemoteAddr, err)
			}
			return
		}
		reply := ReplyOK
		if err := s.Sink.Submit(lcd.Raw(line)); err != nil {
			reply = ReplyError + err.Error()
		}
		if err := rw.WriteLine(reply); err != nil {
			return
		}
	}
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	glog.Infof("display commands on ws://%s%s", ln.Addr(), s.Path)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	return ctx.Err()
}
