// Package telemetry instruments the gateway's session multiplexer with
// OpenTelemetry metrics, following the teacher's otel interceptor
// (github.com/bearlytools/claw/rpc/interceptor/otel): a small set of named
// instruments built once at startup and called directly from the hot path,
// rather than wrapped around an RPC call boundary this gateway doesn't have.
package telemetry

import (
	"github.com/gostdlib/base/context"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Recorder holds the gateway's metric instruments.
type Recorder struct {
	sessionsOpened metric.Int64Counter
	sessionsClosed metric.Int64Counter
	bytesUpstream  metric.Int64Counter
	bytesRemote    metric.Int64Counter
	hupsEmitted    metric.Int64Counter
}

// Config selects where metrics are reported.
type Config struct {
	// MeterProvider supplies the Meter. If nil, context.Meter(ctx) is used.
	MeterProvider metric.MeterProvider
}

// New builds a Recorder, registering its instruments against a Meter
// named "arrowlink-gateway" from cfg.MeterProvider, or against
// context.Meter(ctx) when no provider is given.
func New(ctx context.Context, cfg Config) (*Recorder, error) {
	var meter metric.Meter
	if cfg.MeterProvider != nil {
		meter = cfg.MeterProvider.Meter("arrowlink-gateway")
	} else {
		meter = context.Meter(ctx)
	}

	r := &Recorder{}
	var err error

	r.sessionsOpened, err = meter.Int64Counter(
		"gateway.sessions.opened",
		metric.WithDescription("Sessions connected to a local service"),
	)
	if err != nil {
		return nil, err
	}

	r.sessionsClosed, err = meter.Int64Counter(
		"gateway.sessions.closed",
		metric.WithDescription("Sessions removed after reaching terminal state"),
	)
	if err != nil {
		return nil, err
	}

	r.bytesUpstream, err = meter.Int64Counter(
		"gateway.bytes.upstream",
		metric.WithDescription("Bytes delivered to the upstream Arrow stream"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	r.bytesRemote, err = meter.Int64Counter(
		"gateway.bytes.remote",
		metric.WithDescription("Bytes written to local services"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	r.hupsEmitted, err = meter.Int64Counter(
		"gateway.hups.emitted",
		metric.WithDescription("HUP control messages synthesized for terminated sessions"),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Nop returns a Recorder whose instruments discard every recording,
// suitable as a safe default when the caller hasn't configured telemetry.
func Nop() *Recorder {
	r, _ := New(context.Background(), Config{MeterProvider: noop.NewMeterProvider()})
	return r
}

func (r *Recorder) SessionOpened(ctx context.Context)  { r.sessionsOpened.Add(ctx, 1) }
func (r *Recorder) SessionClosed(ctx context.Context)  { r.sessionsClosed.Add(ctx, 1) }
func (r *Recorder) BytesUpstream(ctx context.Context, n int64) { r.bytesUpstream.Add(ctx, n) }
func (r *Recorder) BytesRemote(ctx context.Context, n int64)   { r.bytesRemote.Add(ctx, n) }
func (r *Recorder) HUPEmitted(ctx context.Context)     { r.hupsEmitted.Add(ctx, 1) }
