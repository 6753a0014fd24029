// Demonstrates stderr logging with format selection from the environment.
//
// By default nothing below info is shown. Raise the verbosity with
// GOLOG_LOG_LEVEL, and switch to go-log JSON with GOLOG_LOG_FMT=json:
//
//	GOLOG_LOG_LEVEL=debug go run ./example/simple
//	GOLOG_LOG_FMT=json GOLOG_LOG_LEVEL=info go run ./example/simple
package main

import (
	"context"
	"log/slog"

	fillogger "github.com/filecoin-project/go-fil-logger"
)

func main() {
	fillogger.Init()

	slog.Log(context.Background(), fillogger.LevelTrace, "logging on trace level")
	slog.Debug("logging on debug level")
	slog.Info("logging on info level")
	slog.Warn("logging on warn level")
	slog.Error("logging on error level")
}
