package svctable

import (
	"encoding/binary"
	"sync/atomic"
)

// ControlMsgKind distinguishes the Control Protocol message payloads this
// gateway originates. The parser for inbound Control Protocol messages is
// external; the gateway only ever needs to emit HUP.
type ControlMsgKind byte

// hupKind tags a HUP payload. The Control Protocol message format beyond
// this gateway's own HUP emission is out of scope; this value is this
// gateway's own convention, not a protocol constant borrowed from elsewhere.
const hupKind ControlMsgKind = 0x01

// ControlIDAllocator sources the monotonically increasing control_msg_id
// HUP messages are tagged with, so that a Control Protocol implementation
// can correlate a HUP with any outbound request it issued under the same
// id space. The core leaves the source unspecified; this gateway requires
// one be supplied.
type ControlIDAllocator interface {
	Next() uint16
}

// AtomicIDAllocator is a monotonic counter, wrapping on overflow. Each
// value keeps its own count; sharing ids means sharing one allocator. It is the default ControlIDAllocator when the caller does not
// need ids correlated with some other Control Protocol component.
type AtomicIDAllocator struct {
	n atomic.Uint32
}

// Next returns the next id in sequence.
func (a *AtomicIDAllocator) Next() uint16 {
	return uint16(a.n.Add(1))
}

// HUP builds the Arrow Message payload for a Control Protocol HUP,
// announcing that sessionID has terminated with errCode (0 for a clean
// close). The payload is addressed to the Control Protocol service, id 0,
// by the caller.
func HUP(controlMsgID uint16, sessionID uint32, errCode uint32) []byte {
	buf := make([]byte, 1+2+4+4)
	buf[0] = byte(hupKind)
	binary.BigEndian.PutUint16(buf[1:3], controlMsgID)
	binary.BigEndian.PutUint32(buf[3:7], sessionID)
	binary.BigEndian.PutUint32(buf[7:11], errCode)
	return buf
}

// Error codes used in HUP payloads.
const (
	ErrCodeNone  uint32 = 0x00
	ErrCodeOther uint32 = 0x03
)
