package main

import (
	"context"
	"os"

	"github.com/riskibarqy/pingpong-club/internal/app"
	"github.com/riskibarqy/pingpong-club/internal/config"
	"github.com/riskibarqy/pingpong-club/internal/interfaces/httpapi"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

func main() {
	logger := logging.NewConsole(logging.LevelInfo)
	if err := config.LoadDotEnv(); err != nil {
		logger.Error("load .env", "error", err)
		os.Exit(1)
	}

	root := newRootCmd(func(ctx context.Context) (httpapi.Services, func() error, error) {
		cfg, err := config.Load()
		if err != nil {
			return httpapi.Services{}, nil, err
		}
		rt, err := app.NewRuntime(ctx, cfg, logger)
		if err != nil {
			return httpapi.Services{}, nil, err
		}
		return rt.Services, rt.Close, nil
	}, logger)

	if err := root.Execute(); err != nil {
		logger.Error("clubctl failed", "error", err)
		os.Exit(1)
	}
}
