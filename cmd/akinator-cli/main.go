package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"akinator-client/cmd/akinator-cli/commands"
	"akinator-client/lib/osutil"
	"akinator-client/lib/telemetry"
)

func main() {
	ctx, stop := osutil.SignalContext()
	defer stop()

	tel, err := telemetry.SetupFromEnv(ctx, "akinator-cli")
	switch {
	case err == nil:
		telemetry.InstrumentPerfStats(ctx, time.Second*30)
	case !errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(os.Stderr, "failed to setup telemetry:", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tel.Shutdown(shutdownCtx)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
