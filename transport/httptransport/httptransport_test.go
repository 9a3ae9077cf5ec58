package httptransport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerRequestRoundTripsThroughSend(t *testing.T) {
	tr := New()
	defer tr.Close()
	srv := httptest.NewServer(tr.Handler())
	defer srv.Close()

	go func() {
		msg, ok, err := tr.Recv()
		if !ok || err != nil {
			t.Errorf("Recv() ok=%v, err=%v", ok, err)
			return
		}
		if !strings.Contains(msg, `"id":0`) {
			t.Errorf("rewritten request = %s, want internal id 0", msg)
		}
		if err := tr.Send(`{"jsonrpc":"2.0","id":0,"result":{"ok":true}}`); err != nil {
			t.Errorf("Send: %v", err)
		}
	}()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":"client-7","method":"ping","params":{}}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, `"id":"client-7"`) {
		t.Fatalf("response body = %s, want the original client id restored", body)
	}
}

func TestHandlerNotificationReturnsAccepted(t *testing.T) {
	tr := New()
	defer tr.Close()
	srv := httptest.NewServer(tr.Handler())
	defer srv.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		msg, ok, err := tr.Recv()
		if !ok || err != nil {
			t.Errorf("Recv() ok=%v, err=%v", ok, err)
			return
		}
		if !strings.Contains(msg, `"method":"notifications/initialized"`) {
			t.Errorf("got %s, want the notification body unchanged", msg)
		}
	}()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized","params":{}}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	<-done

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusAccepted)
	}
}

func TestHandlerRejectsNonPost(t *testing.T) {
	tr := New()
	defer tr.Close()
	srv := httptest.NewServer(tr.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestHandlerRejectsMalformedBody(t *testing.T) {
	tr := New()
	defer tr.Close()
	srv := httptest.NewServer(tr.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`not json`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestRecvReportsOrderlyCloseAfterClose(t *testing.T) {
	tr := New()
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_, ok, err := tr.Recv()
	if ok || err != nil {
		t.Fatalf("Recv() after Close = ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestSendWithNoPendingRequestErrors(t *testing.T) {
	tr := New()
	defer tr.Close()
	if err := tr.Send(`{"jsonrpc":"2.0","id":999,"result":{}}`); err == nil {
		t.Fatalf("expected an error sending a response with no pending HTTP request")
	}
}
