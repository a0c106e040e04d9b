package mqtt

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/signer/pkg/bridge"
	"github.com/robotalks/signer/pkg/env"
	"github.com/robotalks/signer/pkg/lcd"
)

// Status payloads, retained on the status topic.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Config defines the MQTT bridge options.
type Config struct {
	// URL is the broker, e.g. mqtt://localhost:1883/signer/. Empty disables
	// the bridge.
	URL string
	// ID names the device in topics. Empty means env.DeviceID.
	ID string
}

var defaultConfig Config

func init() {
	if val := os.Getenv("SIGNER_MQTT_URL"); val != "" {
		defaultConfig.URL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.URL, "mqtt", defaultConfig.URL, "MQTT broker URL to receive display commands from.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Device ID used in topics.")
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

// Enabled indicates a broker is configured.
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// CommandTopic is where text protocol lines are received.
func CommandTopic(id string) string {
	return id + "/display/cmd"
}

// StatusTopic carries the retained online/offline state.
func StatusTopic(id string) string {
	return id + "/display/status"
}

// Bridge submits every payload on the command topic as one raw command.
type Bridge struct {
	Queue *Queue
	Sink  bridge.Sink
	ID    string
}

// NewBridge creates a Bridge feeding sink. It does not connect.
func (c *Config) NewBridge(sink bridge.Sink) (*Bridge, error) {
	opts, prefix, err := ClientOptionsFromURL(c.URL)
	if err != nil {
		return nil, err
	}
	id := c.ID
	if id == "" {
		id = env.DeviceID()
	}
	if opts.ClientID == "" {
		opts.SetClientID("signer-" + id)
	}
	opts.SetWill(prefix+StatusTopic(id), StatusOffline, 1, true)
	b := &Bridge{Queue: NewQueue(opts, prefix), Sink: sink, ID: id}
	b.Queue.OnConnect = b.announce
	b.Queue.Sub(CommandTopic(id), b.HandleCommand)
	return b, nil
}

// HandleCommand forwards a payload to the sink.
func (b *Bridge) HandleCommand(topic string, payload []byte) {
	if err := b.Sink.Submit(lcd.Raw(string(payload))); err != nil {
		glog.Warningf("drop command from %q: %v", topic, err)
	}
}

func (b *Bridge) announce(q *Queue) {
	q.PubWith(StatusTopic(b.ID), []byte(StatusOnline), 1, true)
}

// Run implements framework.Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	token := b.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	glog.Infof("display commands on %q", b.Queue.TopicPrefix+CommandTopic(b.ID))
	<-ctx.Done()
	b.Queue.PubWith(StatusTopic(b.ID), []byte(StatusOffline), 1, true).WaitTimeout(time.Second)
	b.Queue.Close()
	return ctx.Err()
}
