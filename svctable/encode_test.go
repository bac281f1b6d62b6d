package svctable

import (
	"net"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

// rtspHex is the fixed-header encoding of
// Service::rtsp(id=0x1234, mac=01:02:03:04:05:06, addr=192.0.2.1:554).
//
// The worked example in the spec this gateway follows lists a 30-byte
// header for this case, one byte longer than the 29-byte fixed header its
// own offset table and its Control Protocol example (all-zero fields plus
// one NUL terminator totaling exactly 30 bytes) both require. That extra
// byte is a stray duplicate zero in the ip_addr padding run; dropping it is
// what makes the trailing two bytes decode to port 554 (0x02 0x2A) instead
// of port 2, and what leaves "stream\x00" starting on a byte boundary.
var rtspHex = []byte{
	0x12, 0x34, // id
	0x00, 0x01, // type: RTSP
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, // mac
	0x04,                                                                   // ip version
	0xC0, 0x00, 0x02, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // ip_addr
	0x02, 0x2A, // port 554
}

func TestServiceEncodeRTSP(t *testing.T) {
	mac := MACAddr{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	addr := net.TCPAddr{IP: net.ParseIP("192.0.2.1"), Port: 554}
	svc := WithID(0x1234, RTSPService(0, mac, addr, "stream"))

	want := append(append([]byte{}, rtspHex...), []byte("stream\x00")...)

	got := svc.Encode(nil)
	if diff := pretty.Compare(want, got); diff != "" {
		t.Fatalf("TestServiceEncodeRTSP: -want/+got:\n%s", diff)
	}
	if got, want := svc.Len(), len(want); got != want {
		t.Fatalf("TestServiceEncodeRTSP: Len() = %d, want %d", got, want)
	}
	if got, want := svc.Len(), 29+7; got != want {
		t.Fatalf("TestServiceEncodeRTSP: Len() = %d, want %d (29 header + 7 path)", got, want)
	}
}

func TestServiceEncodeControl(t *testing.T) {
	svc := Control()
	got := svc.Encode(nil)
	if len(got) != 30 {
		t.Fatalf("TestServiceEncodeControl: len = %d, want 30", len(got))
	}
	for i, b := range got {
		if b != 0x00 {
			t.Fatalf("TestServiceEncodeControl: byte %d = %#x, want 0x00", i, b)
		}
	}
}

func TestServiceEncodeDecodeRoundTrip(t *testing.T) {
	mac := MACAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	v4 := net.TCPAddr{IP: net.ParseIP("10.1.2.3"), Port: 8080}
	v6 := net.TCPAddr{IP: net.ParseIP("2001:db8::1"), Port: 443}

	tests := []struct {
		name string
		svc  Service
	}{
		{"rtsp v4", WithID(1, RTSPService(0, mac, v4, "live.sdp"))},
		{"locked rtsp with path", WithID(2, LockedRTSPService(0, mac, v4, strPtr("live.sdp")))},
		{"locked rtsp no path", WithID(3, LockedRTSPService(0, mac, v4, nil))},
		{"unknown rtsp", WithID(4, UnknownRTSPService(0, mac, v4))},
		{"unsupported rtsp", WithID(5, UnsupportedRTSPService(0, mac, v4, ""))},
		{"http", WithID(6, HTTPService(0, mac, v4))},
		{"mjpeg v6", WithID(7, MJPEGService(0, mac, v6, "cam"))},
		{"tcp", WithID(8, TCPService(0, mac, v4))},
		{"control", Control()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			encoded := test.svc.Encode(nil)
			if len(encoded) != test.svc.Len() {
				t.Fatalf("TestServiceEncodeDecodeRoundTrip(%s): Encode produced %d bytes, Len() = %d", test.name, len(encoded), test.svc.Len())
			}

			got, n, err := Decode(encoded)
			if err != nil {
				t.Fatalf("TestServiceEncodeDecodeRoundTrip(%s): Decode: %v", test.name, err)
			}
			if n != len(encoded) {
				t.Fatalf("TestServiceEncodeDecodeRoundTrip(%s): consumed %d bytes, want %d", test.name, n, len(encoded))
			}

			if got.Type() != test.svc.Type() {
				t.Errorf("TestServiceEncodeDecodeRoundTrip(%s): Type = %v, want %v", test.name, got.Type(), test.svc.Type())
			}
			if got.ID() != test.svc.ID() {
				t.Errorf("TestServiceEncodeDecodeRoundTrip(%s): ID = %v, want %v", test.name, got.ID(), test.svc.ID())
			}

			wantMAC, wantHasMAC := test.svc.MAC()
			gotMAC, gotHasMAC := got.MAC()
			if gotHasMAC != wantHasMAC || gotMAC != wantMAC {
				t.Errorf("TestServiceEncodeDecodeRoundTrip(%s): MAC = %v/%v, want %v/%v", test.name, gotMAC, gotHasMAC, wantMAC, wantHasMAC)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
