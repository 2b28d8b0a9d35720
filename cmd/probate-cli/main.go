package main

import (
	"context"
	"fmt"
	"os"
	"probate-records/cmd/probate-cli/commands"
	"probate-records/lib/serviceutil"
	"probate-records/lib/telemetry"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())
	defer cancel()

	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "probate-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(context.Background())
	if shutdownErr != nil {
		fmt.Fprintln(os.Stderr, shutdownErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
