package rawconn

import (
	"net"
	"testing"
	"time"

	"github.com/gostdlib/base/context"
)

func TestDialerRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("TestDialerRoundTrip: Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- c
	}()

	dialer := NewDialer(WithDialTimeout(time.Second))
	conn, err := dialer.Dial(context.Background(), ln.Addr().String())
	if err != nil {
		t.Fatalf("TestDialerRoundTrip: Dial: %v", err)
	}
	defer conn.Close()

	server := <-accepted
	defer server.Close()

	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("TestDialerRoundTrip: Write: %v", err)
	}

	buf := make([]byte, 4)
	server.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := server.Read(buf); err != nil {
		t.Fatalf("TestDialerRoundTrip: server Read: %v", err)
	}
	if string(buf) != "ping" {
		t.Fatalf("TestDialerRoundTrip: server got %q, want %q", buf, "ping")
	}

	if _, err := server.Write([]byte("pong")); err != nil {
		t.Fatalf("TestDialerRoundTrip: server Write: %v", err)
	}

	buf = make([]byte, 4)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("TestDialerRoundTrip: Read: %v", err)
	}
	if string(buf[:n]) != "pong" {
		t.Fatalf("TestDialerRoundTrip: got %q, want %q", buf[:n], "pong")
	}
}

func TestDialerDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("TestDialerDialRefused: Listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close() // nothing listening now

	dialer := NewDialer(WithDialTimeout(time.Second))
	if _, err := dialer.Dial(context.Background(), addr); err == nil {
		t.Fatalf("TestDialerDialRefused: Dial succeeded against a closed listener")
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	d := NewDialer(WithReadBufferSize(4096), WithWriteBufferSize(8192), WithKeepAlive(0))
	if d.cfg.readBufferSize != 4096 {
		t.Fatalf("TestOptionsOverrideDefaults: readBufferSize = %d, want 4096", d.cfg.readBufferSize)
	}
	if d.cfg.writeBufferSize != 8192 {
		t.Fatalf("TestOptionsOverrideDefaults: writeBufferSize = %d, want 8192", d.cfg.writeBufferSize)
	}
	if d.cfg.keepAlive != 0 {
		t.Fatalf("TestOptionsOverrideDefaults: keepAlive = %v, want 0", d.cfg.keepAlive)
	}
}
