// Command gateway runs the client-side Arrow gateway: it dials the
// upstream Arrow peer, multiplexes local service connections onto that
// single stream, and serves a health endpoint alongside it.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/arrowlink/gateway/arrowmsg"
	"github.com/arrowlink/gateway/internal/config"
	"github.com/arrowlink/gateway/internal/health"
	"github.com/arrowlink/gateway/internal/log"
	"github.com/arrowlink/gateway/internal/rawconn"
	"github.com/arrowlink/gateway/internal/telemetry"
	"github.com/arrowlink/gateway/session"
	"github.com/arrowlink/gateway/svctable"

	gbcontext "github.com/gostdlib/base/context"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Parse(flag.NewFlagSet("gateway", flag.ExitOnError), args)
	if err != nil {
		return err
	}

	logger, err := log.New(log.Config{Level: cfg.LogLevel, Development: cfg.Development})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	gctx := gbcontext.Background()
	rec, err := telemetry.New(gctx, telemetry.Config{})
	if err != nil {
		logger.Warn("telemetry disabled", log.Err(err))
		rec = telemetry.Nop()
	}

	table := svctable.NewTable()
	statuses := health.NewRegistry()

	dialer := rawconn.NewDialer(rawconn.WithDialTimeout(cfg.DialTimeout))
	mgr, err := session.NewManager(table, dialer,
		session.WithLogger(logger),
		session.WithRecorder(rec),
		session.WithHealth(statuses),
	)
	if err != nil {
		return fmt.Errorf("building session manager: %w", err)
	}

	go serveHealth(cfg.HealthAddr, statuses, logger)

	return runUpstream(gctx, cfg, mgr, statuses, logger)
}

func serveHealth(addr string, statuses *health.Registry, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/healthz", statuses.Handler())
	logger.Info("health endpoint listening", log.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("health endpoint stopped", log.Err(err))
	}
}

// runUpstream dials the Arrow peer and pumps frames in both directions:
// inbound frames are handed to the manager to route to local services,
// and the manager's outbound messages (data and HUP) are framed back onto
// the same connection.
func runUpstream(ctx gbcontext.Context, cfg config.Config, mgr *session.Manager, statuses *health.Registry, logger *log.Logger) error {
	conn, err := net.Dial("tcp", cfg.UpstreamAddr)
	if err != nil {
		statuses.Set("", health.StatusNotServing)
		return fmt.Errorf("dialing upstream %s: %w", cfg.UpstreamAddr, err)
	}
	defer conn.Close()

	statuses.Set("", health.StatusServing)
	statuses.Set("upstream", health.StatusServing)
	logger.Info("connected to upstream", log.String("addr", cfg.UpstreamAddr))

	var codec arrowmsg.Codec
	out := make(chan arrowmsg.Message, 64)

	go func() {
		if err := mgr.Run(ctx, out); err != nil {
			logger.Warn("session manager stopped", log.Err(err))
		}
	}()

	go func() {
		for msg := range out {
			buf := codec.Encode(nil, msg)
			if _, err := conn.Write(buf); err != nil {
				logger.Error("writing to upstream", log.Err(err))
				return
			}
		}
	}()

	buf := make([]byte, 0, 64*1024)
	chunk := make([]byte, 32*1024)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			for {
				msg, consumed, ok, decErr := codec.Decode(buf)
				if decErr != nil {
					return fmt.Errorf("decoding upstream frame: %w", decErr)
				}
				if !ok {
					break
				}
				buf = buf[consumed:]
				if sendErr := mgr.Send(ctx, msg); sendErr != nil {
					logger.Warn("routing inbound frame failed",
						log.Uint16("service_id", msg.ServiceID),
						log.Uint32("session_id", msg.SessionID),
						log.Err(sendErr))
				}
			}
		}
		if err != nil {
			statuses.Set("upstream", health.StatusNotServing)
			return fmt.Errorf("reading from upstream: %w", err)
		}
	}
}
