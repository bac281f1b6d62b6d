package session

import (
	"container/list"
	"fmt"
	"io"

	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/retry/exponential"

	"github.com/arrowlink/gateway/arrowmsg"
	"github.com/arrowlink/gateway/internal/errs"
	"github.com/arrowlink/gateway/internal/health"
	"github.com/arrowlink/gateway/internal/log"
	"github.com/arrowlink/gateway/internal/telemetry"
	"github.com/arrowlink/gateway/svctable"
)

// Dialer opens the raw byte-chunk connection a bridge pumps. rawconn.Dialer
// satisfies this.
type Dialer interface {
	Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error)
}

// Manager is the fair multiplexer over a dynamic set of sessions: spec.md's
// SessionManager. It owns the session registry, the round-robin poll
// order, on-demand connect, and HUP synthesis.
type Manager struct {
	resolver svctable.Resolver
	dialer   Dialer
	log      *log.Logger
	rec      *telemetry.Recorder
	health   *health.Registry
	alloc    svctable.ControlIDAllocator
	backoff  *exponential.Backoff // nil: connect() dials once, no retry

	mu        sync.Mutex
	sessions  map[uint32]*Session
	pollOrder *list.List

	wake chan struct{}
}

// Option configures a Manager.
type Option func(*managerConfig)

type managerConfig struct {
	retryPolicy *exponential.Policy
	alloc       svctable.ControlIDAllocator
	log         *log.Logger
	rec         *telemetry.Recorder
	health      *health.Registry
}

// WithConnectRetryPolicy gives connect() an exponential.Policy to retry
// dial failures under. The default (no option given) performs a single
// attempt with no retries, matching spec.md §4.6's exact connect contract
// ("address resolution, immediate socket error before spawn" fails connect
// once); operators bridging flaky local services can opt into the
// teacher's exponential backoff via this option.
func WithConnectRetryPolicy(p exponential.Policy) Option {
	return func(c *managerConfig) { c.retryPolicy = &p }
}

// WithControlIDAllocator overrides the HUP control_msg_id source. Defaults
// to a fresh AtomicIDAllocator owned by this Manager.
func WithControlIDAllocator(a svctable.ControlIDAllocator) Option {
	return func(c *managerConfig) { c.alloc = a }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(l *log.Logger) Option {
	return func(c *managerConfig) { c.log = l }
}

// WithRecorder attaches a telemetry.Recorder so the manager reports session
// opens/closes, HUP emissions, and byte counts in both directions. Defaults
// to telemetry.Nop().
func WithRecorder(r *telemetry.Recorder) Option {
	return func(c *managerConfig) { c.rec = r }
}

// WithHealth attaches a health.Registry so the manager reports live session
// counts, per-service open-session counts, and the last HUP error code
// observed per service. Defaults to a private Registry not exposed over
// HTTP by anything; callers that want these counts visible should share the
// same *health.Registry they pass to their HTTP handler.
func WithHealth(r *health.Registry) Option {
	return func(c *managerConfig) { c.health = r }
}

// NewManager builds a Manager that resolves services via resolver and
// dials them via dialer.
func NewManager(resolver svctable.Resolver, dialer Dialer, opts ...Option) (*Manager, error) {
	cfg := &managerConfig{
		alloc:  &svctable.AtomicIDAllocator{},
		log:    log.Nop(),
		rec:    telemetry.Nop(),
		health: health.NewRegistry(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var backoff *exponential.Backoff
	if cfg.retryPolicy != nil {
		b, err := exponential.New(exponential.WithPolicy(*cfg.retryPolicy))
		if err != nil {
			return nil, err
		}
		backoff = b
	}

	return &Manager{
		resolver:  resolver,
		dialer:    dialer,
		log:       cfg.log,
		rec:       cfg.rec,
		health:    cfg.health,
		alloc:     cfg.alloc,
		backoff:   backoff,
		sessions:  make(map[uint32]*Session),
		pollOrder: list.New(),
		wake:      make(chan struct{}, 1),
	}, nil
}

// notify wakes a blocked Run, if any, without blocking itself.
func (m *Manager) notify() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Send extracts (service_id, session_id) from msg and pushes its payload
// into that session's output, connecting on demand if the session is new.
// It fails only if connect fails; connect failures never create a session.
func (m *Manager) Send(ctx context.Context, msg arrowmsg.Message) error {
	m.mu.Lock()
	sess, ok := m.sessions[msg.SessionID]
	m.mu.Unlock()

	if !ok {
		var err error
		sess, err = m.connect(ctx, msg.ServiceID, msg.SessionID)
		if err != nil {
			return err
		}
	}

	sess.Push(msg)
	return nil
}

// connect resolves service_id, dials its address, and spawns the TCP
// bridge that pumps bytes between the socket and the new session's
// context.
func (m *Manager) connect(ctx context.Context, serviceID uint16, sessionID uint32) (*Session, error) {
	svc, ok := m.resolver.Get(serviceID)
	if !ok {
		return nil, errs.Newf(errs.CatUser, errs.TypeParameter, "session: no service registered for id %d", serviceID)
	}
	addr, ok := svc.Address()
	if !ok {
		return nil, errs.Newf(errs.CatUser, errs.TypeParameter, "session: service %d has no address", serviceID)
	}

	var conn io.ReadWriteCloser
	dial := func(rctx context.Context, _ exponential.Record) error {
		c, err := m.dialer.Dial(rctx, addr.String())
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	var dialErr error
	if m.backoff != nil {
		dialErr = m.backoff.Retry(ctx, dial)
	} else {
		dialErr = dial(ctx, exponential.Record{})
	}
	if dialErr != nil {
		return nil, errs.E(errs.CatInternal, errs.TypeConn, fmt.Errorf("session: dial service %d: %w", serviceID, dialErr))
	}

	sessCtx := NewContext(serviceID, sessionID)
	sess := newSession(sessCtx)

	m.mu.Lock()
	m.sessions[sessionID] = sess
	m.pollOrder.PushBack(sessionID)
	m.mu.Unlock()
	m.notify()
	m.rec.SessionOpened(ctx)
	m.health.SessionOpened(serviceID)

	transport := sess.Transport()
	errHandler := sess.ErrorHandler()
	context.Pool(ctx).Submit(ctx, func() {
		m.runBridge(ctx, conn, transport, errHandler)
		m.notify()
	})

	return sess, nil
}

// runBridge pumps bytes between conn and t until the socket closes or
// errors, then records any error and closes t so poll() can drain and
// synthesize the session's HUP.
func (m *Manager) runBridge(ctx context.Context, conn io.ReadWriteCloser, t *Transport, eh *ErrorHandler) {
	defer conn.Close()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			data, err := t.Next(ctx)
			if err != nil {
				return
			}
			if _, err := conn.Write(data); err != nil {
				eh.SetError(err)
				return
			}
			m.rec.BytesRemote(ctx, int64(len(data)))
		}
	}()

	buf := make([]byte, InputBufferLimit)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			if sendErr := t.Send(ctx, chunk); sendErr != nil {
				eh.SetError(sendErr)
				break
			}
			m.notify()
			m.rec.BytesUpstream(ctx, int64(n))
		}
		if err != nil {
			if err != io.EOF {
				eh.SetError(err)
			}
			break
		}
	}

	t.Close(ctx)
	<-writerDone
}

// poll is one fair, non-blocking sweep across at most len(pollOrder)
// sessions: spec.md's SessionManager.poll.
func (m *Manager) poll() (arrowmsg.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.pollOrder.Len()
	for i := 0; i < n; i++ {
		elem := m.pollOrder.Front()
		if elem == nil {
			break
		}
		sessionID := elem.Value.(uint32)
		m.pollOrder.Remove(elem)

		sess, ok := m.sessions[sessionID]
		if !ok {
			continue
		}

		res := sess.Take()
		switch {
		case res.Ready:
			m.pollOrder.PushBack(sessionID)
			return res.Msg, true

		case res.EOF:
			delete(m.sessions, sessionID)
			errCode := svctable.ErrCodeNone
			if res.Err != nil {
				errCode = svctable.ErrCodeOther
			}
			bgCtx := context.Background()
			m.rec.SessionClosed(bgCtx)
			m.rec.HUPEmitted(bgCtx)
			m.health.SessionClosed(sess.ServiceID())
			m.health.RecordHUP(sess.ServiceID(), errCode)
			return m.synthesizeHUP(sessionID, errCode), true

		default:
			m.pollOrder.PushBack(sessionID)
		}
	}
	return arrowmsg.Message{}, false
}

// synthesizeHUP builds the Arrow Message announcing sessionID's
// termination, addressed to the Control Protocol service.
func (m *Manager) synthesizeHUP(sessionID uint32, errCode uint32) arrowmsg.Message {
	payload := svctable.HUP(m.alloc.Next(), sessionID, errCode)
	return arrowmsg.New(0, sessionID, payload)
}

// Run drives poll in a loop, sending every message it produces to out,
// until ctx is done. It is the Go-idiomatic replacement for the reference
// design's upstream consumer polling a Stream: rather than busy-spin, it
// blocks on the wake channel connect/runBridge signal whenever a sweep
// yields nothing.
func (m *Manager) Run(ctx context.Context, out chan<- arrowmsg.Message) error {
	for {
		msg, ok := m.poll()
		if ok {
			select {
			case out <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		select {
		case <-m.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
