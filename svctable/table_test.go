package svctable

import (
	"net"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestTableEncodeAppendsControlLast(t *testing.T) {
	mac := MACAddr{0, 1, 2, 3, 4, 5}
	rtspAddr := net.TCPAddr{IP: net.ParseIP("192.0.2.1"), Port: 554}
	httpAddr := net.TCPAddr{IP: net.ParseIP("192.0.2.2"), Port: 80}

	rtsp := WithID(1, RTSPService(0, mac, rtspAddr, "stream"))
	http := WithID(2, HTTPService(0, mac, httpAddr))

	table := NewTable()
	table.Set(rtsp)
	table.Set(http)

	want := rtsp.Encode(nil)
	want = http.Encode(want)
	want = Control().Encode(want)

	got := table.Encode(nil)
	if diff := pretty.Compare(want, got); diff != "" {
		t.Fatalf("TestTableEncodeAppendsControlLast: -want/+got:\n%s", diff)
	}
	if got, want := table.EncodedLen(), len(want); got != want {
		t.Fatalf("TestTableEncodeAppendsControlLast: EncodedLen() = %d, want %d", got, want)
	}
}

func TestTableGetZeroIsAlwaysControl(t *testing.T) {
	table := NewTable()
	table.Set(WithID(0, HTTPService(0, MACAddr{}, net.TCPAddr{})))

	svc, ok := table.Get(0)
	if !ok {
		t.Fatalf("TestTableGetZeroIsAlwaysControl: Get(0) not found")
	}
	if !svc.IsControl() {
		t.Fatalf("TestTableGetZeroIsAlwaysControl: Get(0) returned %v, want the Control Protocol service", svc.Type())
	}
}

func TestTableGetMissing(t *testing.T) {
	table := NewTable()
	if _, ok := table.Get(42); ok {
		t.Fatalf("TestTableGetMissing: Get(42) found an entry, want none")
	}
}

func TestTableServicesOrderedByID(t *testing.T) {
	table := NewTable()
	table.Set(WithID(5, HTTPService(0, MACAddr{}, net.TCPAddr{})))
	table.Set(WithID(1, HTTPService(0, MACAddr{}, net.TCPAddr{})))
	table.Set(WithID(3, HTTPService(0, MACAddr{}, net.TCPAddr{})))

	svcs := table.Services()
	ids := make([]uint16, len(svcs))
	for i, s := range svcs {
		ids[i] = s.ID()
	}

	want := []uint16{1, 3, 5}
	if diff := pretty.Compare(want, ids); diff != "" {
		t.Fatalf("TestTableServicesOrderedByID: -want/+got:\n%s", diff)
	}
}
