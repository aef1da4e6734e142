package main

import (
	"log/slog"
	"os"
)

func main() {
	deps, err := buildDependencies()
	if err != nil {
		slog.Error("startup failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := deps.Server.Run(); err != nil {
		deps.Logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
