package wstransport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSendRecvRoundTripOverRealWebsocket(t *testing.T) {
	serverDone := make(chan *Transport, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := Upgrade(w, r)
		if err != nil {
			t.Errorf("Upgrade: %v", err)
			return
		}
		serverDone <- st
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(wsURL, 5*time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	server := <-serverDone
	defer server.Close()

	if err := client.Send("hello"); err != nil {
		t.Fatalf("client Send: %v", err)
	}
	msg, ok, err := server.Recv()
	if err != nil || !ok || msg != "hello" {
		t.Fatalf("server Recv() = %q, ok=%v, err=%v, want %q", msg, ok, err, "hello")
	}

	if err := server.Send("world"); err != nil {
		t.Fatalf("server Send: %v", err)
	}
	msg, ok, err = client.Recv()
	if err != nil || !ok || msg != "world" {
		t.Fatalf("client Recv() = %q, ok=%v, err=%v, want %q", msg, ok, err, "world")
	}
}

func TestRecvReportsOrderlyCloseOnNormalClosure(t *testing.T) {
	serverDone := make(chan *Transport, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := Upgrade(w, r)
		if err != nil {
			t.Errorf("Upgrade: %v", err)
			return
		}
		serverDone <- st
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(wsURL, 5*time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	server := <-serverDone

	closeFrame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := client.conn.WriteMessage(websocket.CloseMessage, closeFrame); err != nil {
		t.Fatalf("client close frame: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("client Close: %v", err)
	}

	_, ok, err := server.Recv()
	if ok || err != nil {
		t.Fatalf("server Recv() ok=%v, err=%v, want orderly close (ok=false, err=nil)", ok, err)
	}
}
