// Package svctable implements the Service Table: the registry the gateway
// consults to resolve a service id to a socket address, together with its
// deterministic on-the-wire encoding for Control Protocol frames.
package svctable

import (
	"net"
)

// ServiceType tags the kind of remote endpoint a Service describes.
type ServiceType uint16

// Service type codes, fixed by the wire protocol.
const (
	ControlProtocol ServiceType = 0x0000
	RTSP            ServiceType = 0x0001
	LockedRTSP      ServiceType = 0x0002
	UnknownRTSP     ServiceType = 0x0003
	UnsupportedRTSP ServiceType = 0x0004
	HTTP            ServiceType = 0x0005
	MJPEG           ServiceType = 0x0006
	LockedMJPEG     ServiceType = 0x0007
	TCP             ServiceType = 0xFFFF
)

func (t ServiceType) String() string {
	switch t {
	case ControlProtocol:
		return "ControlProtocol"
	case RTSP:
		return "RTSP"
	case LockedRTSP:
		return "LockedRTSP"
	case UnknownRTSP:
		return "UnknownRTSP"
	case UnsupportedRTSP:
		return "UnsupportedRTSP"
	case HTTP:
		return "HTTP"
	case MJPEG:
		return "MJPEG"
	case LockedMJPEG:
		return "LockedMJPEG"
	case TCP:
		return "TCP"
	default:
		return "Unknown"
	}
}

// MACAddr is a 48-bit hardware address.
type MACAddr [6]byte

// Service is one entry of the Service Table: a locally reachable endpoint
// the gateway can open a session against.
type Service struct {
	serviceType ServiceType
	id          uint16
	mac         *MACAddr
	address     *net.TCPAddr
	path        *string
}

// Control returns the Control Protocol service. It has id 0, no MAC, no
// address and no path.
func Control() Service {
	return Service{serviceType: ControlProtocol, id: 0}
}

// IsControl reports whether this is the Control Protocol service.
func (s Service) IsControl() bool { return s.serviceType == ControlProtocol }

// RTSPService builds a remote RTSP service.
func RTSPService(id uint16, mac MACAddr, addr net.TCPAddr, path string) Service {
	return Service{serviceType: RTSP, id: id, mac: &mac, address: &addr, path: &path}
}

// LockedRTSPService builds an RTSP service that requires authentication.
// path may be nil if it is not yet known.
func LockedRTSPService(id uint16, mac MACAddr, addr net.TCPAddr, path *string) Service {
	return Service{serviceType: LockedRTSP, id: id, mac: &mac, address: &addr, path: path}
}

// UnknownRTSPService builds an RTSP service without any known path.
func UnknownRTSPService(id uint16, mac MACAddr, addr net.TCPAddr) Service {
	return Service{serviceType: UnknownRTSP, id: id, mac: &mac, address: &addr}
}

// UnsupportedRTSPService builds an RTSP service with no supported stream.
//
// The original implementation this gateway is modeled on tags this case
// with the plain RTSP service type, which its own comments flag as a
// probable bug since every other constructor uses its own type code. This
// constructor uses UnsupportedRTSP, matching the type table service peers
// are expected to key off of.
func UnsupportedRTSPService(id uint16, mac MACAddr, addr net.TCPAddr, path string) Service {
	return Service{serviceType: UnsupportedRTSP, id: id, mac: &mac, address: &addr, path: &path}
}

// HTTPService builds a remote HTTP service.
func HTTPService(id uint16, mac MACAddr, addr net.TCPAddr) Service {
	return Service{serviceType: HTTP, id: id, mac: &mac, address: &addr}
}

// MJPEGService builds a remote MJPEG service.
func MJPEGService(id uint16, mac MACAddr, addr net.TCPAddr, path string) Service {
	return Service{serviceType: MJPEG, id: id, mac: &mac, address: &addr, path: &path}
}

// LockedMJPEGService builds an MJPEG service that requires authentication.
func LockedMJPEGService(id uint16, mac MACAddr, addr net.TCPAddr, path *string) Service {
	return Service{serviceType: LockedMJPEG, id: id, mac: &mac, address: &addr, path: path}
}

// TCPService builds a general purpose TCP service.
func TCPService(id uint16, mac MACAddr, addr net.TCPAddr) Service {
	return Service{serviceType: TCP, id: id, mac: &mac, address: &addr}
}

// WithID clones src with a fresh id; used when a registry assigns ids to
// services it did not itself construct.
func WithID(id uint16, src Service) Service {
	src.id = id
	return src
}

// Type returns the service's type.
func (s Service) Type() ServiceType { return s.serviceType }

// ID returns the service's id.
func (s Service) ID() uint16 { return s.id }

// MAC returns the service's MAC address, if any.
func (s Service) MAC() (MACAddr, bool) {
	if s.mac == nil {
		return MACAddr{}, false
	}
	return *s.mac, true
}

// Address returns the service's socket address, if any.
func (s Service) Address() (net.TCPAddr, bool) {
	if s.address == nil {
		return net.TCPAddr{}, false
	}
	return *s.address, true
}

// Path returns the service's path, if any. A present-but-empty path (the
// locked variants before the real path is known) is distinct from no path
// at all.
func (s Service) Path() (string, bool) {
	if s.path == nil {
		return "", false
	}
	return *s.path, true
}
