package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"record-attachments/internal/cli"
	"record-attachments/internal/shared/config"
	"record-attachments/internal/shared/telemetry"
)

func main() {
	telemetry.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(config.LoadClient(), os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
