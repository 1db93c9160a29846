package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"
	"twdl/cmd"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional
	_ = godotenv.Load()

	defer sentry.Flush(2 * time.Second)
	defer sentry.RecoverWithContext(appCtx)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Interrupted, stopping downloads...")

		cancel()
	}()

	if err := cmd.Execute(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	return 0
}
