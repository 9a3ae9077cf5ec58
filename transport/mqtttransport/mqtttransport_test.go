package mqtttransport

import (
	"testing"

	"github.com/ruaan-deysel/go-mcp-sdk/logger"
)

// newBrokerless builds a Transport without dialing a real broker, exercising
// only the channel plumbing that Recv/Close rely on. New's broker handshake
// needs a live MQTT server and is not covered here.
func newBrokerless() *Transport {
	return &Transport{
		cfg:     Config{PublishTopic: "out", SubscribeTopic: "in"},
		log:     logger.Named("mqtt-transport-test"),
		inbound: make(chan string, 4),
		closed:  make(chan struct{}),
	}
}

func TestRecvReturnsInboundMessage(t *testing.T) {
	tr := newBrokerless()
	tr.inbound <- "payload"

	msg, ok, err := tr.Recv()
	if err != nil || !ok || msg != "payload" {
		t.Fatalf("Recv() = %q, ok=%v, err=%v, want %q", msg, ok, err, "payload")
	}
}

func TestRecvReportsOrderlyCloseWithoutABroker(t *testing.T) {
	tr := newBrokerless()
	close(tr.closed)

	_, ok, err := tr.Recv()
	if ok || err != nil {
		t.Fatalf("Recv() after closed = ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestRecvUnblocksAsSoonAsClosedChannelFires(t *testing.T) {
	tr := newBrokerless()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok, _ := tr.Recv()
		if ok {
			t.Errorf("Recv() returned ok=true after close")
		}
	}()
	close(tr.closed)
	<-done
}
