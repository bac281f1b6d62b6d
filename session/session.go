package session

import "github.com/arrowlink/gateway/arrowmsg"

// Session is a thin coordinator over one shared Context: spec.md's Session.
// It is created by Manager and removed once its context has drained to
// end-of-stream.
type Session struct {
	ctx *Context
}

// newSession wraps ctx.
func newSession(ctx *Context) *Session {
	return &Session{ctx: ctx}
}

// ServiceID returns the service this session was connected against, read
// from the shared Context's fixed id, so it remains available for HUP
// synthesis after the session is removed.
func (s *Session) ServiceID() uint16 { return s.ctx.ServiceID() }

// SessionID returns this session's id.
func (s *Session) SessionID() uint32 { return s.ctx.SessionID() }

// Push enqueues msg's payload for delivery to the remote service.
func (s *Session) Push(msg arrowmsg.Message) {
	s.ctx.PushOutputMessage(msg)
}

// Take drains everything currently buffered from the remote service.
func (s *Session) Take() TakeResult {
	return s.ctx.TakeInputMessage()
}

// Close marks the session closed; buffered data already present is still
// drained by subsequent Take calls.
func (s *Session) Close() {
	s.ctx.Close()
}

// Transport returns a fresh handle the TCP bridge uses to move bytes
// between the socket and this session's buffers.
func (s *Session) Transport() *Transport {
	return newTransport(s.ctx)
}

// ErrorHandler returns a fresh handle the TCP bridge uses to report its
// terminal I/O error, if any, into the session.
func (s *Session) ErrorHandler() *ErrorHandler {
	return &ErrorHandler{ctx: s.ctx}
}

// ErrorHandler lets a TCP bridge report its terminal failure into a
// session's context without holding a full Session or Transport handle.
type ErrorHandler struct {
	ctx *Context
}

// SetError records err as the session's terminal error, if it isn't
// already closed.
func (h *ErrorHandler) SetError(err error) {
	h.ctx.SetError(err)
}
