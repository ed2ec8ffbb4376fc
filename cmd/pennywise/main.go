package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pennywise/pennywise/internal/cli"
	"github.com/pennywise/pennywise/pkg/session"
	log "github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env file: %v", err)
	}
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		log.SetLevel(log.WarnLevel)
		return
	}
	logrusLevel, err := log.ParseLevel(level)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(logrusLevel)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(os.Stdin, os.Stdout)
	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render(err.Error()))
		if errors.Is(err, session.ErrNotAuthenticated) {
			fmt.Fprintln(os.Stderr, cli.SubtleStyle.Render("Log in with 'pennywise login --email <email>'"))
		}
		stop()
		os.Exit(1)
	}
}
