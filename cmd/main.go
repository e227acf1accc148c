package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/pathways-backend/internal/app"
	"github.com/yungbote/pathways-backend/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		application.Log.Error("server exited", "error", err)
		application.Close()
		os.Exit(1)
	}
	application.Log.Info("server stopped")
}
