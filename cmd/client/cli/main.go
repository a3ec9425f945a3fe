package main

import (
	"context"
	"log"
	"log/slog"

	"dermascan/internal/client/cli"
	"dermascan/internal/client/config"
	"dermascan/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.NewDefault(slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
