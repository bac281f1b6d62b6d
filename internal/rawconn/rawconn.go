// Package rawconn dials the local services a gateway session bridges to.
// It is the "external raw byte-chunk codec" spec.md treats as a
// collaborator: no framing of its own, just buffered reads and writes over
// a plain TCP socket.
package rawconn

import (
	"bufio"
	"io"
	"net"
	"time"

	"github.com/gostdlib/base/context"
)

// config holds dialer configuration, following the teacher's TCP transport
// option pattern.
type config struct {
	dialTimeout     time.Duration
	readBufferSize  int
	writeBufferSize int
	keepAlive       time.Duration
}

func defaultConfig() *config {
	return &config{
		dialTimeout:     10 * time.Second,
		readBufferSize:  32 * 1024,
		writeBufferSize: 32 * 1024,
		keepAlive:       30 * time.Second,
	}
}

// Option configures a Dialer.
type Option func(*config)

// WithDialTimeout sets the timeout for connection establishment. Default 10s.
func WithDialTimeout(d time.Duration) Option {
	return func(c *config) { c.dialTimeout = d }
}

// WithReadBufferSize sets the bufio.Reader size. Default 32KB, matching
// this gateway's per-session INPUT_BUFFER_LIMIT.
func WithReadBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.readBufferSize = n
		}
	}
}

// WithWriteBufferSize sets the bufio.Writer size. Default 32KB.
func WithWriteBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.writeBufferSize = n
		}
	}
}

// WithKeepAlive sets the TCP keep-alive period. Zero disables it.
func WithKeepAlive(d time.Duration) Option {
	return func(c *config) { c.keepAlive = d }
}

// Dialer opens raw, unframed TCP connections to local services.
type Dialer struct {
	cfg *config
}

// NewDialer builds a Dialer from opts.
func NewDialer(opts ...Option) *Dialer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Dialer{cfg: cfg}
}

// Dial connects to addr and returns a buffered, unframed byte duplex. The
// return type is io.ReadWriteCloser, not *Conn, so *Dialer satisfies
// session.Dialer directly.
func (d *Dialer) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	dialer := net.Dialer{Timeout: d.cfg.dialTimeout, KeepAlive: d.cfg.keepAlive}

	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Conn{
		conn:   netConn,
		reader: bufio.NewReaderSize(netConn, d.cfg.readBufferSize),
		writer: bufio.NewWriterSize(netConn, d.cfg.writeBufferSize),
	}, nil
}

// Conn is a buffered, unframed duplex over a TCP connection: raw chunks in
// both directions, no message boundaries of its own.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
}

// Read reads the next available chunk into b, blocking until at least one
// byte is available or the connection ends.
func (c *Conn) Read(b []byte) (int, error) {
	return c.reader.Read(b)
}

// Write writes b to the connection, flushing immediately: sessions forward
// bytes in application-sized bursts, not in a steady stream worth batching.
func (c *Conn) Write(b []byte) (int, error) {
	n, err := c.writer.Write(b)
	if err != nil {
		return n, err
	}
	return n, c.writer.Flush()
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	return c.conn.Close()
}
