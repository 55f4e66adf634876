package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bhvr/bhvr-api-go/internal/config"
	"github.com/bhvr/bhvr-api-go/internal/session"
	"github.com/joho/godotenv"
)

const usage = `usage: client <command> [flags]

commands:
  register   create an account and sign in
  login      sign in
  profile    show the signed-in user
  logout     sign out
  status     show the local session state`

func main() {
	_ = godotenv.Load()
	slog.SetDefault(config.NewLogger(os.Getenv("LOG_LEVEL"), "text", os.Stderr))

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(out, usage)
		return errors.New("missing command")
	}

	cfg := config.LoadClient()

	store, err := session.OpenStore(ctx, filepath.Join(cfg.StateDir, "session.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := session.NewClient(ctx, cfg.APIURL, store, session.WithTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	app := &app{client: client, reader: bufio.NewReader(in), out: out}
	return app.dispatch(ctx, args[0], args[1:])
}
