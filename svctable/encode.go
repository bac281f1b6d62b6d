package svctable

import (
	"encoding/binary"
	"net"
)

// fixedHeaderLen is the size, in bytes, of every Service's encoding before
// its NUL-terminated path: 2 (id) + 2 (type) + 6 (mac) + 1 (ip version) +
// 16 (ip bytes) + 2 (port).
const fixedHeaderLen = 29

// Len returns the number of bytes Encode will produce for s: the fixed
// header plus the path (if any) plus its NUL terminator.
func (s Service) Len() int {
	path, _ := s.Path()
	return fixedHeaderLen + len(path) + 1
}

// Encode appends the wire encoding of s to buf and returns the result.
//
// Layout (big-endian throughout):
//
//	offset  size  field
//	 0       2    service id
//	 2       2    service type code
//	 4       6    MAC (zero if absent)
//	10       1    IP version: 4 or 6 (0 if no address)
//	11      16    IP bytes: IPv4 in the first 4 bytes with the remaining 12
//	              zero, or a full IPv6 address; all zero if absent
//	27       2    port (0 if absent)
//	29       N    path bytes (UTF-8, no NUL)
//	29+N     1    0x00 terminator
func (s Service) Encode(buf []byte) []byte {
	var hdr [fixedHeaderLen]byte

	binary.BigEndian.PutUint16(hdr[0:2], s.id)
	binary.BigEndian.PutUint16(hdr[2:4], uint16(s.serviceType))

	if mac, ok := s.MAC(); ok {
		copy(hdr[4:10], mac[:])
	}

	if addr, ok := s.Address(); ok {
		if ip4 := addr.IP.To4(); ip4 != nil {
			hdr[10] = 4
			copy(hdr[11:15], ip4)
		} else if ip16 := addr.IP.To16(); ip16 != nil {
			hdr[10] = 6
			copy(hdr[11:27], ip16)
		}
		binary.BigEndian.PutUint16(hdr[27:29], uint16(addr.Port))
	}

	buf = append(buf, hdr[:]...)

	path, _ := s.Path()
	buf = append(buf, path...)
	buf = append(buf, 0x00)

	return buf
}

// Decode parses a single Service encoding from the front of buf and returns
// the Service plus the number of bytes consumed. It reverses Encode except
// where the layout cannot tell two values apart: an all-zero MAC decodes as
// no MAC, and a path-carrying type encoded without a path decodes with an
// empty path. It is used only by tests and by callers reconstructing a table
// received over the wire; the gateway's core never decodes a Service table
// itself (it is always the producer).
func Decode(buf []byte) (Service, int, error) {
	if len(buf) < fixedHeaderLen {
		return Service{}, 0, errShortBuffer
	}

	id := binary.BigEndian.Uint16(buf[0:2])
	typ := ServiceType(binary.BigEndian.Uint16(buf[2:4]))

	var mac MACAddr
	copy(mac[:], buf[4:10])
	hasMAC := mac != MACAddr{}

	var addr *net.TCPAddr
	switch buf[10] {
	case 4:
		ip := make(net.IP, 4)
		copy(ip, buf[11:15])
		port := binary.BigEndian.Uint16(buf[27:29])
		addr = &net.TCPAddr{IP: ip, Port: int(port)}
	case 6:
		ip := make(net.IP, 16)
		copy(ip, buf[11:27])
		port := binary.BigEndian.Uint16(buf[27:29])
		addr = &net.TCPAddr{IP: ip, Port: int(port)}
	}

	rest := buf[fixedHeaderLen:]
	nul := indexByte(rest, 0x00)
	if nul < 0 {
		return Service{}, 0, errNoPathTerminator
	}
	path := string(rest[:nul])
	consumed := fixedHeaderLen + nul + 1

	svc := Service{serviceType: typ, id: id}
	if hasMAC {
		svc.mac = &mac
	}
	if addr != nil {
		svc.address = addr
	}
	switch typ {
	case RTSP, UnsupportedRTSP, MJPEG, LockedRTSP, LockedMJPEG:
		svc.path = &path
	}

	return svc, consumed, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
