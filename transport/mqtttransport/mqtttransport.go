// Package mqtttransport adapts an MQTT broker connection into an
// mcp/transport.Transport: one topic carries outbound messages, a second
// carries inbound ones. It demonstrates that the Transport contract is
// broker-agnostic — any full-duplex message channel can back a session, not
// just a byte stream.
package mqtttransport

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ruaan-deysel/go-mcp-sdk/logger"
)

// Config configures the broker connection and topic pair.
type Config struct {
	Broker        string
	ClientID      string
	Username      string
	Password      string
	QoS           byte
	PublishTopic  string // this side's outbound topic
	SubscribeTopic string // this side's inbound topic
	ConnectTimeout time.Duration
	KeepAlive      time.Duration
}

// Transport implements transport.Transport over a paho MQTT client.
type Transport struct {
	cfg    Config
	client pahomqtt.Client
	log    *logger.Logger

	inbound chan string
	closed  chan struct{}
}

// New connects to the broker described by cfg and subscribes to its inbound
// topic. The returned Transport's Recv drains messages published to
// cfg.SubscribeTopic; Send publishes to cfg.PublishTopic.
func New(cfg Config) (*Transport, error) {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.KeepAlive == 0 {
		cfg.KeepAlive = 30 * time.Second
	}
	t := &Transport{
		cfg:     cfg,
		log:     logger.Named("mqtt-transport"),
		inbound: make(chan string, 64),
		closed:  make(chan struct{}),
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetKeepAlive(cfg.KeepAlive)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		t.log.Warning("connection lost: %v", err)
	})

	t.client = pahomqtt.NewClient(opts)
	if token := t.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	token := t.client.Subscribe(cfg.SubscribeTopic, cfg.QoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		select {
		case t.inbound <- string(msg.Payload()):
		case <-t.closed:
		}
	})
	if token.Wait() && token.Error() != nil {
		t.client.Disconnect(250)
		return nil, fmt.Errorf("mqtt subscribe: %w", token.Error())
	}
	return t, nil
}

// Send publishes message to the configured publish topic.
func (t *Transport) Send(message string) error {
	token := t.client.Publish(t.cfg.PublishTopic, t.cfg.QoS, false, message)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Recv returns the next message published to the subscribe topic, or (false,
// nil) once Close has been called.
func (t *Transport) Recv() (string, bool, error) {
	select {
	case msg := <-t.inbound:
		return msg, true, nil
	case <-t.closed:
		return "", false, nil
	}
}

// Close unsubscribes and disconnects from the broker.
func (t *Transport) Close() error {
	select {
	case <-t.closed:
		return nil
	default:
		close(t.closed)
	}
	t.client.Unsubscribe(t.cfg.SubscribeTopic)
	t.client.Disconnect(250)
	return nil
}
