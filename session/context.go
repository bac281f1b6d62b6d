// Package session implements the per-session buffering state machine and
// the fair multiplexer that drives it, bridging TCP connections to local
// services onto per-session byte buffers that the upstream Arrow stream
// drains and fills.
package session

import (
	"github.com/gostdlib/base/concurrency/sync"

	"github.com/arrowlink/gateway/arrowmsg"
	"github.com/arrowlink/gateway/internal/errs"
)

// Resource limits shared by every Context.
const (
	InputBufferLimit  = 32_768
	OutputBufferLimit = 4_294_967_295
)

// TakeResult is the outcome of TakeInputMessage.
type TakeResult struct {
	// Msg is the bytes drained from the input buffer, wrapped in an Arrow
	// Message addressed to this session. Meaningful only when Ready.
	Msg arrowmsg.Message
	// Ready reports whether Msg holds a real result. When false and EOF is
	// also false, the caller should block on Wait and retry.
	Ready bool
	// EOF reports that the session is closed and fully drained: no more
	// input will ever arrive.
	EOF bool
	// Err is the terminal error recorded on this context, if any. Non-nil
	// only alongside EOF.
	Err error
	// Wait is ready to block on when neither Ready nor EOF; it closes once
	// a retry might make progress.
	Wait <-chan struct{}
}

// PushResult is the outcome of PushInputData.
type PushResult struct {
	// Remainder is the suffix of the pushed bytes that did not fit. Empty
	// when every byte was accepted.
	Remainder []byte
	// Wait is ready to block on when Remainder is non-empty; it closes
	// once the input buffer has drained enough to retry.
	Wait <-chan struct{}
	// Err is set when the context is already closed; the bridge should
	// treat this the same as a connection reset.
	Err error
}

// TakeBytesResult is the outcome of TakeOutputData.
type TakeBytesResult struct {
	Data  []byte
	Ready bool
	EOF   bool
	Wait  <-chan struct{}
}

// Context is the per-session buffering state machine: spec.md calls this
// the SessionContext. It holds the input buffer (remote service bytes
// bound for the upstream Arrow stream) and the output buffer (upstream
// bytes bound for the remote service), plus the single terminal error slot.
type Context struct {
	serviceID uint16
	sessionID uint32

	mu     sync.Mutex
	input  []byte
	output []byte
	closed bool
	err    error

	inputReady  waitSlot // woken when input becomes non-empty
	inputEmpty  waitSlot // woken when input is fully drained
	outputReady waitSlot // woken when output becomes non-empty
}

// NewContext returns an open Context for the given session, identified by
// its service and session id for HUP synthesis after it is removed from the
// manager.
func NewContext(serviceID uint16, sessionID uint32) *Context {
	return &Context{serviceID: serviceID, sessionID: sessionID}
}

// ServiceID returns the service this session was connected against.
func (c *Context) ServiceID() uint16 { return c.serviceID }

// SessionID returns this session's id.
func (c *Context) SessionID() uint32 { return c.sessionID }

// PushOutputMessage appends msg's payload to the output buffer, to be
// written to the remote service. Silently dropped once closed. Exceeding
// OutputBufferLimit is fatal to the session: it transitions to a closed,
// errored state rather than blocking, since there is no upstream
// backpressure for the output direction.
func (c *Context) PushOutputMessage(msg arrowmsg.Message) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if len(c.output)+len(msg.Payload) > OutputBufferLimit {
		c.setErrorLocked(errs.Newf(errs.CatInternal, errs.TypeParameter, "output buffer limit exceeded"))
		c.mu.Unlock()
		c.inputReady.wake()
		c.outputReady.wake()
		return
	}

	wasEmpty := len(c.output) == 0
	c.output = append(c.output, msg.Payload...)
	c.mu.Unlock()

	if wasEmpty {
		c.outputReady.wake()
	}
}

// TakeInputMessage drains the entire input buffer, wrapping it as an Arrow
// Message addressed to this session. See TakeResult for the three possible
// outcomes.
func (c *Context) TakeInputMessage() TakeResult {
	c.mu.Lock()
	if len(c.input) > 0 {
		data := c.input
		c.input = nil
		c.mu.Unlock()
		c.inputEmpty.wake()
		return TakeResult{Ready: true, Msg: arrowmsg.New(c.serviceID, c.sessionID, data)}
	}

	if c.closed {
		err := c.err
		c.mu.Unlock()
		return TakeResult{EOF: true, Err: err}
	}

	wait := c.inputReady.wait()
	c.mu.Unlock()
	return TakeResult{Wait: wait}
}

// PushInputData appends bytes received from the remote service's socket
// into the input buffer, up to INPUT_BUFFER_LIMIT. See PushResult.
func (c *Context) PushInputData(b []byte) PushResult {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return PushResult{Err: errs.Newf(errs.CatInternal, errs.TypeConn, "session: push after close")}
	}

	room := InputBufferLimit - len(c.input)
	if room <= 0 {
		wait := c.inputEmpty.wait()
		c.mu.Unlock()
		return PushResult{Remainder: b, Wait: wait}
	}

	n := room
	if n > len(b) {
		n = len(b)
	}
	wasEmpty := len(c.input) == 0
	c.input = append(c.input, b[:n]...)

	remainder := b[n:]
	var wait <-chan struct{}
	if len(remainder) > 0 {
		wait = c.inputEmpty.wait()
	}
	c.mu.Unlock()

	if wasEmpty {
		c.inputReady.wake()
	}
	return PushResult{Remainder: remainder, Wait: wait}
}

// FlushInputBuffer reports whether the input buffer is empty. When it is
// not, the returned channel closes once it has drained.
func (c *Context) FlushInputBuffer() (ready bool, wait <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.input) == 0 {
		return true, nil
	}
	return false, c.inputEmpty.wait()
}

// TakeOutputData drains the entire output buffer: the bytes the TCP bridge
// should write to the remote service next.
func (c *Context) TakeOutputData() TakeBytesResult {
	c.mu.Lock()
	if len(c.output) > 0 {
		data := c.output
		c.output = nil
		c.mu.Unlock()
		return TakeBytesResult{Ready: true, Data: data}
	}

	if c.closed {
		c.mu.Unlock()
		return TakeBytesResult{EOF: true}
	}

	wait := c.outputReady.wait()
	c.mu.Unlock()
	return TakeBytesResult{Wait: wait}
}

// Close marks the context closed: no further input is accepted, but
// buffered data is preserved for drain.
//
// spec.md states plainly that close() wakes no one, since its reference
// scheduler re-polls every context on its next tick regardless. This Go
// implementation has real goroutines parked on inputReady/outputReady
// waiting specifically for a wake; without one here a goroutine could block
// forever on a session that will never produce another byte. Close
// therefore wakes those two slots (not inputEmpty — no bytes were drained)
// so a parked TakeInputMessage/TakeOutputData observes EOF immediately,
// matching guarantee G3's "immediately after" requirement.
func (c *Context) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.inputReady.wake()
	c.outputReady.wake()
}

// SetError records a terminal error and closes the context. A no-op if the
// context is already closed: the first recorded error wins.
func (c *Context) SetError(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.setErrorLocked(err)
	c.mu.Unlock()

	c.inputReady.wake()
	c.outputReady.wake()
}

// setErrorLocked requires c.mu held and c.closed == false.
func (c *Context) setErrorLocked(err error) {
	c.closed = true
	c.err = err
}
