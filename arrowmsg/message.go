// Package arrowmsg defines the Arrow Message contract the session package
// produces and consumes, plus a concrete wire codec for it.
//
// The protocol this gateway speaks upstream treats the Arrow Message itself
// as an external contract: only that it carries a service id, a session id,
// and a payload. Everything here beyond that three-field struct is this
// gateway's own choice of frame codec, needed to make the module runnable
// end to end rather than dictated by any outer specification.
package arrowmsg

// Message is one frame of the upstream Arrow stream.
type Message struct {
	ServiceID uint16
	SessionID uint32
	Payload   []byte
}

// New builds a Message from its three required fields.
func New(serviceID uint16, sessionID uint32, payload []byte) Message {
	return Message{ServiceID: serviceID, SessionID: sessionID, Payload: payload}
}
