package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"akinator-client/internal/akinator/session"
	"akinator-client/internal/akinator/transport"
	"akinator-client/internal/components/chrono"
	"akinator-client/internal/components/telemetry"
	"akinator-client/lib/gamestore"
	"akinator-client/lib/restyutil"
)

func newEngine(cfg Config, regionID string) (*session.Engine, error) {
	tel := telemetry.NewSlogAPI(slog.Default())

	var dump restyutil.InstrumentOutput
	if cfg.DumpHTTP != "" {
		out, err := restyutil.NewFilesystemOutput(cfg.DumpHTTP)
		if err != nil {
			return nil, err
		}
		dump = out
	}

	client, err := transport.NewClient(transport.Options{
		Headers: cfg.Headers,
		Timeout: cfg.Timeout(),
		Dump:    dump,
	}, tel)
	if err != nil {
		return nil, err
	}

	var opts []session.Option
	if cfg.BaseURL != "" {
		opts = append(opts, session.WithBaseURL(cfg.BaseURL))
	}
	return session.New(regionID, cfg.ChildMode, client, tel, opts...)
}

// pause waits between two requests, returning early if ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// recordGame logs a finished game when a database is configured.
func recordGame(ctx context.Context, cfg Config, out io.Writer, state session.State) error {
	if cfg.DB == "" || state.Status() == session.STATUS_UNINITIALIZED {
		return nil
	}

	store, err := gamestore.Open(cfg.DB, chrono.NewStandardImpl())
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(ctx, state)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "recorded game %s\n", id)
	return nil
}
