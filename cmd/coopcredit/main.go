package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/SethRoll3/AcercateSys-sub001/internal/app/runtime"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local development convenience; env overrides come from the shell in
	// deployed environments.
	_ = godotenv.Load()

	app, err := runtime.New(ctx)
	if err != nil {
		logger.CtxError(ctx, "failed to initialize app", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		logger.CtxError(ctx, "app stopped with error", err)
		return
	}
}
