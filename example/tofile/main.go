// Demonstrates logging into an already-open file. The file is opened and
// closed here; the logger only borrows the handle.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	fillogger "github.com/filecoin-project/go-fil-logger"
)

func main() {
	file, err := os.OpenFile("tofile.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	writer := fillogger.InitWithFile(file)

	slog.Info("application starting", "pid", os.Getpid())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			slog.Info("worker started", "id", id)
			slog.Info("worker finished", "id", id)
		}(i)
	}
	wg.Wait()

	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "flush failed: %v\n", err)
	}
	fmt.Println("wrote log lines to tofile.log")
}
