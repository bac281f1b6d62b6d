package arrowmsg

import (
	"encoding/binary"
	"fmt"
)

// headerLen is the size of the fixed frame header: service id (2), session
// id (4), payload length (4), all big-endian.
const headerLen = 2 + 4 + 4

// MaxPayloadLen bounds a single frame's payload so a corrupt or hostile
// length field cannot make Decode allocate unbounded memory.
const MaxPayloadLen = 16 << 20 // 16 MiB

// Codec encodes and decodes Messages as length-prefixed frames. It holds no
// state and is safe for concurrent use.
type Codec struct{}

// Encode appends the wire frame for msg to buf and returns the result.
func (Codec) Encode(buf []byte, msg Message) []byte {
	var hdr [headerLen]byte
	binary.BigEndian.PutUint16(hdr[0:2], msg.ServiceID)
	binary.BigEndian.PutUint32(hdr[2:6], msg.SessionID)
	binary.BigEndian.PutUint32(hdr[6:10], uint32(len(msg.Payload)))
	buf = append(buf, hdr[:]...)
	buf = append(buf, msg.Payload...)
	return buf
}

// Decode parses one frame from the front of buf. It reports the number of
// bytes consumed and ok=false when buf does not yet hold a complete frame
// (the caller should read more and retry, not treat this as an error).
func (Codec) Decode(buf []byte) (msg Message, consumed int, ok bool, err error) {
	if len(buf) < headerLen {
		return Message{}, 0, false, nil
	}

	payloadLen := binary.BigEndian.Uint32(buf[6:10])
	if payloadLen > MaxPayloadLen {
		return Message{}, 0, false, fmt.Errorf("arrowmsg: frame payload length %d exceeds %d byte limit", payloadLen, MaxPayloadLen)
	}

	total := headerLen + int(payloadLen)
	if len(buf) < total {
		return Message{}, 0, false, nil
	}

	msg = Message{
		ServiceID: binary.BigEndian.Uint16(buf[0:2]),
		SessionID: binary.BigEndian.Uint32(buf[2:6]),
		Payload:   append([]byte(nil), buf[headerLen:total]...),
	}
	return msg, total, true, nil
}
