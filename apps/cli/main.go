// Command scuola is the terminal front-end of the school records.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	var err error
	must(newContainer().Invoke(func(cli *commandLine) {
		err = cli.run(ctx, os.Args)
	}))
	stop()

	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
