package telemetry

import (
	"testing"

	"github.com/gostdlib/base/context"
)

func TestNopRecorderMethodsDoNotPanic(t *testing.T) {
	rec := Nop()
	ctx := context.Background()

	rec.SessionOpened(ctx)
	rec.SessionClosed(ctx)
	rec.BytesUpstream(ctx, 128)
	rec.BytesRemote(ctx, 64)
	rec.HUPEmitted(ctx)
}

func TestNewRegistersEveryInstrument(t *testing.T) {
	rec, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("TestNewRegistersEveryInstrument: New: %v", err)
	}
	if rec.sessionsOpened == nil || rec.sessionsClosed == nil || rec.bytesUpstream == nil ||
		rec.bytesRemote == nil || rec.hupsEmitted == nil {
		t.Fatalf("TestNewRegistersEveryInstrument: Recorder has a nil instrument: %+v", rec)
	}
}
