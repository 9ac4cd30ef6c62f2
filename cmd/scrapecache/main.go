// cmd/scrapecache/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clierrors "github.com/valpere/ScrapeCache/internal/errors"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		fmt.Fprint(os.Stderr, clierrors.NewMessageHandler(verbose).FormatForCLI(err))
		os.Exit(clierrors.ExitCode(err))
	}
}
