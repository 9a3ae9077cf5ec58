package adminhttp

import (
	"testing"
	"time"
)

func TestCodeLabel(t *testing.T) {
	cases := map[int]string{
		-32601: "method_not_found",
		-32602: "invalid_params",
		-32603: "internal_error",
		1234:   "other",
	}
	for code, want := range cases {
		if got := codeLabel(code); got != want {
			t.Errorf("codeLabel(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestPrometheusMetricsDoesNotPanic(t *testing.T) {
	m := PrometheusMetrics{}
	m.SessionOpened()
	m.SessionClosed()
	m.RequestDispatched("tools/list", 10*time.Millisecond)
	m.PendingRequests(3)
	m.PeerError(-32601)
}
