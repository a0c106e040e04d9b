package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/robotalks/signer/pkg/bridge/mqtt"
	"github.com/robotalks/signer/pkg/lcd"
)

var (
	mqttURL = "mqtt://localhost:1883/"
	id      string
	watch   bool
)

func init() {
	if val := os.Getenv("SIGNER_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&id, "id", id, "Device ID.")
	flag.BoolVar(&watch, "watch", watch, "Print display status changes instead of sending.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if watch {
		q.Sub(mqtt.StatusTopic("+"), func(topic string, payload []byte) {
			log.Printf("%s: %s", strings.TrimSuffix(topic, "/display/status"), payload)
		})
	}
	token := q.Connect()
	if token.Wait(); token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()
	if watch {
		<-(chan struct{})(nil)
	}

	if id == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: signer-send -id ID 'Message: TEXT' | 'Action: clear'")
		os.Exit(2)
	}
	line := strings.Join(flag.Args(), " ")
	if _, err := lcd.Decode(line); err != nil {
		log.Fatalln(err)
	}
	token = q.PubWith(mqtt.CommandTopic(id), []byte(line), 1, false)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Fatalln(err)
	}
}
