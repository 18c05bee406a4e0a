package metrics

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" http/requests ": "http_requests",
		"foo..bar":        "foo.bar",
		".trimmed.":       "trimmed",
		"":                "",
	}

	for input, want := range tests {
		if got := normalizeMetricName(input); got != want {
			t.Fatalf("normalizeMetricName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " approvals "}
	local := map[string]string{"status": " 200 ", "": "ignored", "env": "stage"}

	got := formatTags(global, local)
	want := "|#env:stage,service:approvals,status:200"
	if got != want {
		t.Fatalf("formatTags mismatch\n got: %q\nwant: %q", got, want)
	}

	if got := formatTags(nil, nil); got != "" {
		t.Fatalf("formatTags(nil, nil) = %q, want empty", got)
	}
}

func TestClientEmitsLines(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     "approvals",
		GlobalTags: map[string]string{"env": "test"},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	client.Count("http.requests", 1, map[string]string{"status": "200"})
	client.Timing("http.request_duration", 250*time.Millisecond, nil)

	want := []string{
		"approvals.http.requests:1|c|#env:test,status:200",
		"approvals.http.request_duration:250|ms|#env:test",
	}
	buf := make([]byte, 512)
	for _, expected := range want {
		pc.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, readErr := pc.ReadFrom(buf)
		if readErr != nil {
			t.Fatalf("read: %v", readErr)
		}
		if got := string(buf[:n]); got != expected {
			t.Fatalf("line mismatch\n got: %q\nwant: %q", got, expected)
		}
	}
}

func TestClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Enabled() {
		t.Fatal("expected client to stay disabled with an empty address")
	}
	// Emitting against a disabled client is a no-op, not a panic.
	client.Count("http.requests", 1, nil)
}

func TestClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	if err == nil || !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("expected dial error, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	t.Parallel()

	var c *Client
	if c.Enabled() {
		t.Fatal("nil client reports enabled")
	}
	c.Count("x", 1, nil)
	c.Timing("x", time.Second, nil)
	if err := c.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	c := &Client{enabled: true, conn: clientConn}
	if !c.Enabled() {
		t.Fatal("expected enabled with live connection")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.Enabled() {
		t.Fatal("still enabled after Close")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
