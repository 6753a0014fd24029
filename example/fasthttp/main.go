// Demonstrates routing fasthttp's internal logging through the
// process-wide logger installed by this package.
package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	fillogger "github.com/filecoin-project/go-fil-logger"
	"github.com/filecoin-project/go-fil-logger/compat"
)

func main() {
	fillogger.Init()

	fasthttpLogger := compat.NewFastHTTPAdapter(
		nil,
		compat.WithDefaultLevel(slog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpLogger,

		Name:         "go-fil-logger-example",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	slog.Info("starting server", "addr", ":8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (slog.Level, bool) {
	// fasthttp reports dropped connections in a known shape
	if strings.Contains(msg, "connection cannot be served") {
		return slog.LevelWarn, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return slog.LevelError, true
	}
	return compat.DetectLogLevel(msg)
}
