package session

import (
	"io"

	"github.com/gostdlib/base/context"
)

// Transport is a byte-level duplex plugged between a TCP socket's raw byte
// chunks and a Context: spec.md's SessionTransport. The TCP bridge reads
// from Next to learn what to write to the socket, and calls Send with
// whatever it reads off the socket.
type Transport struct {
	ctx *Context
}

// newTransport wraps ctx. Cheap: it holds only a pointer to the shared
// Context, matching spec.md's "cheap clone of the shared context".
func newTransport(ctx *Context) *Transport {
	return &Transport{ctx: ctx}
}

// Next blocks until the context's output buffer has bytes, and returns
// them. It returns io.EOF once the context is closed and fully drained.
func (t *Transport) Next(ctx context.Context) ([]byte, error) {
	for {
		res := t.ctx.TakeOutputData()
		if res.Ready {
			return res.Data, nil
		}
		if res.EOF {
			return nil, io.EOF
		}
		select {
		case <-res.Wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Send blocks until all of b has been pushed into the context's input
// buffer, retrying around INPUT_BUFFER_LIMIT backpressure.
func (t *Transport) Send(ctx context.Context, b []byte) error {
	for len(b) > 0 {
		res := t.ctx.PushInputData(b)
		if res.Err != nil {
			return res.Err
		}
		b = res.Remainder
		if len(b) == 0 {
			return nil
		}
		select {
		case <-res.Wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Flush blocks until the input buffer has fully drained upstream.
func (t *Transport) Flush(ctx context.Context) error {
	for {
		ready, wait := t.ctx.FlushInputBuffer()
		if ready {
			return nil
		}
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close marks the context closed, then blocks until the input buffer has
// fully drained upstream, matching spec.md's "waits for the upstream
// drain" contract.
func (t *Transport) Close(ctx context.Context) error {
	t.ctx.Close()
	return t.Flush(ctx)
}
