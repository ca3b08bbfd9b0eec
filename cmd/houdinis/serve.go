package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firebitsbr/houdinis/internal/apiserver"
	"github.com/firebitsbr/houdinis/internal/logger"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP facade over the dispatcher (devices/jobs/benchmark)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cfg, err := buildDispatcher(cmd)
		if err != nil {
			return err
		}

		port := servePort
		if port <= 0 {
			port = cfg.HTTPPort
		}

		log := logger.NewLogger(logger.LoggerOptions{Debug: cfg.Debug}).SpawnForService("houdinis-apiserver")
		srv := apiserver.New(apiserver.Options{
			Logger:          log,
			Dispatcher:      d,
			CORSAllowOrigin: cfg.CORSOrigin,
			DefaultShots:    cfg.DefaultShots,
			AwaitTimeout:    cfg.AwaitTimeout,
		})

		errCh := make(chan error, 1)
		go func() {
			fmt.Printf("listening on :%d (local_only=%v)\n", port, cfg.HTTPLocalOnly)
			errCh <- srv.Start(port, cfg.HTTPLocalOnly)
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sig:
			ctx, cancel := context.WithTimeout(context.Background(), cfg.AwaitTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (0 uses the configured default)")
}
