// Command extstat aggregates file counts, sizes or line counts per file extension.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/extstat/internal/cli"
)

// Is set during build time.
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.New(version).Execute(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "extstat: %v\n", err)

		os.Exit(1)
	}
}
