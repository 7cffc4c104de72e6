package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dogmatiq/preferencekit/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCommand(env).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
