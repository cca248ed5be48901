package main

import (
	"context"
	"log/slog"

	"starboard-backend/lib/restyutil"
	"starboard-backend/lib/serviceutil"
	"starboard-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	t, err := telemetry.SetupFromEnv(ctx, "starboard-server")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		t.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)
}

// restyOutput dumps request/response transcripts to disk in verbose
// runs, nil keeps tracing only.
func restyOutput(verbose bool) restyutil.InstrumentOutput {
	if !verbose {
		return nil
	}
	return restyutil.NewFilesystemOutput(".dev/resty/aoc")
}
