package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Mrugank93/movies/internal/cli"
	"github.com/Mrugank93/movies/internal/client"
	"github.com/Mrugank93/movies/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	serverURL := envOr("MOVIES_API_URL", "http://localhost:8080")
	sessionPath, err := session.DefaultPath()
	if err != nil {
		sessionPath = ".moviectl-session.json"
	}

	flag.StringVar(&serverURL, "server", serverURL, "base URL of the movies API")
	flag.StringVar(&sessionPath, "session", sessionPath, "file holding the signed-in session")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "per-request timeout")
	flag.Parse()

	store := session.NewStore(sessionPath)
	sess, err := store.Load()
	if err != nil {
		// A corrupt session file only means the user is signed out.
		fmt.Fprintf(os.Stderr, "ignoring session file: %v\n", err)
		sess = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.NewApp(client.New(serverURL, *timeout, sess), store, os.Stdout, os.Stderr)
	if err := app.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, cli.UserMessage(err))
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

