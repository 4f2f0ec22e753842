package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/modernice/relnotes/cli"
)

func main() {
	log.SetFlags(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	app := cli.New(ctx)

	if err := app.Run(); err != nil {
		app.FatalIfErrorf(err)
	}
}
